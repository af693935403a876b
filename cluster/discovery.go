// Copyright 2020 DataStax
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cluster

import (
	"context"
	"fmt"
	"net"

	"github.com/mbrt/cqlnative/conn"
	"github.com/mbrt/cqlnative/cqlerr"
	"github.com/mbrt/cqlnative/datacodec"
	"github.com/mbrt/cqlnative/message"
	"github.com/mbrt/cqlnative/primitive"
)

// selfInfo is the data_center/rack of the node a connection is attached to, as reported by
// that node's own system.local table.
type selfInfo struct {
	dataCenter string
	rack       string
}

// peerInfo is one row of system.peers: another node's address, data center and rack.
type peerInfo struct {
	address    string
	dataCenter string
	rack       string
}

func queryRows(ctx context.Context, c *conn.Connection, cql string) (*message.RowsResult, error) {
	resp, err := c.Execute(ctx, &message.Query{
		Query:   cql,
		Options: &message.QueryOptions{Consistency: primitive.ConsistencyLevelOne},
	})
	if err != nil {
		return nil, err
	}
	rows, ok := resp.(*message.RowsResult)
	if !ok {
		return nil, &cqlerr.ProtocolError{Cause: fmt.Errorf("expected RESULT ROWS for %q, got %T", cql, resp)}
	}
	return rows, nil
}

func textColumn(rows *message.RowsResult, row [][]byte, name string, version primitive.ProtocolVersion) (string, error) {
	idx := rows.Metadata.FindColumn(name)
	if idx < 0 {
		return "", fmt.Errorf("column %q not present in result", name)
	}
	var s string
	if _, err := datacodec.Varchar.Decode(row[idx], &s, version); err != nil {
		return "", fmt.Errorf("cannot decode column %q: %w", name, err)
	}
	return s, nil
}

func inetColumn(rows *message.RowsResult, row [][]byte, name string, version primitive.ProtocolVersion) (net.IP, error) {
	idx := rows.Metadata.FindColumn(name)
	if idx < 0 {
		return nil, fmt.Errorf("column %q not present in result", name)
	}
	var ip net.IP
	if _, err := datacodec.Inet.Decode(row[idx], &ip, version); err != nil {
		return nil, fmt.Errorf("cannot decode column %q: %w", name, err)
	}
	return ip, nil
}

// discoverSelf reads the data_center/rack of the node c is connected to.
func discoverSelf(ctx context.Context, c *conn.Connection, version primitive.ProtocolVersion) (*selfInfo, error) {
	rows, err := queryRows(ctx, c, "SELECT data_center, rack FROM system.local")
	if err != nil {
		return nil, fmt.Errorf("cannot query system.local: %w", err)
	}
	if len(rows.Rows) != 1 {
		return nil, &cqlerr.ProtocolError{Cause: fmt.Errorf("system.local returned %d rows, want 1", len(rows.Rows))}
	}
	row := rows.Rows[0]
	dc, err := textColumn(rows, row, "data_center", version)
	if err != nil {
		return nil, err
	}
	rack, err := textColumn(rows, row, "rack", version)
	if err != nil {
		return nil, err
	}
	return &selfInfo{dataCenter: dc, rack: rack}, nil
}

// discoverPeers reads every row of system.peers known to c's node.
func discoverPeers(ctx context.Context, c *conn.Connection, version primitive.ProtocolVersion) ([]peerInfo, error) {
	rows, err := queryRows(ctx, c, "SELECT peer, data_center, rack FROM system.peers")
	if err != nil {
		return nil, fmt.Errorf("cannot query system.peers: %w", err)
	}
	peers := make([]peerInfo, 0, len(rows.Rows))
	for _, row := range rows.Rows {
		addr, err := inetColumn(rows, row, "peer", version)
		if err != nil {
			return nil, err
		}
		dc, err := textColumn(rows, row, "data_center", version)
		if err != nil {
			return nil, err
		}
		rack, err := textColumn(rows, row, "rack", version)
		if err != nil {
			return nil, err
		}
		peers = append(peers, peerInfo{address: addr.String(), dataCenter: dc, rack: rack})
	}
	return peers, nil
}

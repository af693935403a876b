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

// cqlshell is a minimal example binary: it connects to a cluster, runs one query and prints
// the result. It is not part of the library's public contract.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mbrt/cqlnative/cluster"
	"github.com/mbrt/cqlnative/conn"
	"github.com/mbrt/cqlnative/message"
	"github.com/mbrt/cqlnative/primitive"
)

func main() {
	contactPoints := flag.String("contact-points", "127.0.0.1:9042", "comma-separated contact points")
	keyspace := flag.String("keyspace", "", "keyspace to USE after connecting")
	preferredDC := flag.String("prefer-dc", "", "data center to prefer when choosing primaries")
	primaries := flag.Int("primaries", 1, "number of primary connections to maintain")
	query := flag.String("query", "SELECT * FROM system.local", "CQL statement to run")
	flag.Parse()

	cfg := cluster.Config{
		ContactPoints: strings.Split(*contactPoints, ","),
		Keyspace:      *keyspace,
		PreferredDC:   *preferredDC,
		Primaries:     *primaries,
		ConnConfig: conn.Config{
			Version:        primitive.ProtocolVersion2,
			ConnectTimeout: 5 * time.Second,
			RequestTimeout: 10 * time.Second,
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cl, err := cluster.Connect(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cqlshell: %v\n", err)
		os.Exit(1)
	}
	defer cl.Close()

	result, err := cl.Query(ctx, *query, &message.QueryOptions{Consistency: primitive.ConsistencyLevelOne})
	if err != nil {
		fmt.Fprintf(os.Stderr, "cqlshell: query failed: %v\n", err)
		os.Exit(1)
	}
	printResult(result)
}

func printResult(result message.Result) {
	rows, ok := result.(*message.RowsResult)
	if !ok {
		fmt.Println(result)
		return
	}
	names := make([]string, len(rows.Metadata.Columns))
	for i, c := range rows.Metadata.Columns {
		names[i] = c.Name
	}
	fmt.Println(strings.Join(names, " | "))
	for _, row := range rows.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			if v == nil {
				cells[i] = "NULL"
			} else {
				cells[i] = fmt.Sprintf("%x", v)
			}
		}
		fmt.Println(strings.Join(cells, " | "))
	}
}

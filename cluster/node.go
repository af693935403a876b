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
	"time"

	"github.com/mbrt/cqlnative/conn"
)

// node is one entry of the cluster's node table, built from system.local/system.peers and kept
// up to date by STATUS_CHANGE/TOPOLOGY_CHANGE events. All fields are only ever read or written
// while holding Cluster.mu.
type node struct {
	address    string // normalized text form, e.g. "10.0.0.2"
	dataCenter string
	rack       string

	conn      *conn.Connection
	ready     bool
	isPrimary bool
	isWatcher bool
	downSince time.Time
}

func (n *node) isDown() bool {
	return !n.downSince.IsZero()
}

// downExpired reports whether this node's down marker is older than the re-candidacy window,
// making it eligible to be picked as a new primary again.
func (n *node) downExpired(window time.Duration) bool {
	return n.isDown() && time.Since(n.downSince) >= window
}

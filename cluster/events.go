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
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mbrt/cqlnative/conn"
	"github.com/mbrt/cqlnative/message"
	"github.com/mbrt/cqlnative/primitive"
)

// startEventWatchers designates one or two current primaries as event watchers — two when more
// than one primary is configured, so a single watcher's loss doesn't blind the coordinator —
// and registers each for STATUS_CHANGE/TOPOLOGY_CHANGE/SCHEMA_CHANGE pushes.
func (cl *Cluster) startEventWatchers(_ context.Context) {
	cl.mu.Lock()
	wantWatchers := 1
	if cl.cfg.Primaries > 1 {
		wantWatchers = 2
	}
	watchers := make([]*node, 0, wantWatchers)
	for _, n := range cl.primaries {
		if len(watchers) == wantWatchers {
			break
		}
		n.isWatcher = true
		watchers = append(watchers, n)
	}
	cl.mu.Unlock()

	for _, n := range watchers {
		cl.registerWatcher(n)
	}
}

var watchedEventTypes = []primitive.EventType{
	primitive.EventTypeStatusChange,
	primitive.EventTypeTopologyChange,
	primitive.EventTypeSchemaChange,
}

func (cl *Cluster) registerWatcher(n *node) {
	c := n.conn
	if c == nil {
		return
	}
	c.AddEventListener(func(ev *message.Event) {
		cl.handleEvent(ev)
	})
	go func() {
		if err := c.Register(context.Background(), watchedEventTypes); err != nil {
			log.Error().Err(err).Msgf("cluster: failed to register for events on %s", n.address)
		}
	}()
}

// Register subscribes the caller's listener to server-pushed events of the given types on the
// cluster's current primary, sending the REGISTER request over that primary's connection.
func (cl *Cluster) Register(ctx context.Context, eventTypes []primitive.EventType, listener conn.EventListener) error {
	n, err := cl.getANode()
	if err != nil {
		return err
	}
	n.conn.AddEventListener(listener)
	return n.conn.Register(ctx, eventTypes)
}

// handleEvent applies one server-pushed EVENT to the node table. Duplicate events from
// multiple watchers are idempotent: they are compared against the node's current recorded
// state, so a repeat of an already-applied transition is a no-op.
func (cl *Cluster) handleEvent(ev *message.Event) {
	switch ev.EventType {
	case primitive.EventTypeStatusChange:
		cl.handleStatusChange(ev)
	case primitive.EventTypeTopologyChange:
		cl.handleTopologyChange(ev)
	case primitive.EventTypeSchemaChange:
		log.Debug().Msgf("cluster: schema change: %v", ev)
	}
}

func (cl *Cluster) handleStatusChange(ev *message.Event) {
	addr := hostOf(ev.Node.Addr.String())

	cl.mu.Lock()
	n, found := cl.nodes[addr]
	if !found {
		cl.mu.Unlock()
		return
	}
	switch ev.StatusChangeType {
	case primitive.StatusChangeTypeDown:
		if n.isDown() {
			cl.mu.Unlock()
			return
		}
		n.downSince = time.Now()
		cl.mu.Unlock()
		log.Info().Msgf("cluster: node %s reported DOWN", addr)
	case primitive.StatusChangeTypeUp:
		if !n.isDown() {
			cl.mu.Unlock()
			return
		}
		n.downSince = time.Time{}
		promoteCandidate, displaced := cl.promotionCandidateLocked(n)
		cl.mu.Unlock()
		log.Info().Msgf("cluster: node %s reported UP", addr)
		if promoteCandidate != nil {
			cl.promoteOverDisplaced(promoteCandidate, displaced)
		}
	default:
		cl.mu.Unlock()
	}
}

// promotionCandidateLocked decides whether n (just reported UP) should displace a current
// primary that is outside the preferred DC, per the DC-preference promotion rule. cl.mu must
// be held; it is released by the caller.
func (cl *Cluster) promotionCandidateLocked(n *node) (candidate *node, displaced *node) {
	if cl.cfg.PreferredDC == "" || n.dataCenter != cl.cfg.PreferredDC || n.isPrimary {
		return nil, nil
	}
	for _, p := range cl.primaries {
		if p.dataCenter != cl.cfg.PreferredDC {
			return n, p
		}
	}
	return nil, nil
}

func (cl *Cluster) promoteOverDisplaced(candidate *node, displaced *node) {
	if err := cl.promote(context.Background(), candidate); err != nil {
		log.Error().Err(err).Msgf("cluster: failed to promote %s over %s", candidate.address, displaced.address)
		return
	}
	log.Info().Msgf("cluster: %s promoted over %s (DC preference), draining displaced primary", candidate.address, displaced.address)
	if c := displaced.conn; c != nil {
		go func() { _ = c.CloseGraceful(context.Background()) }()
	}
}

func (cl *Cluster) handleTopologyChange(ev *message.Event) {
	addr := hostOf(ev.Node.Addr.String())

	cl.mu.Lock()
	defer cl.mu.Unlock()
	switch ev.TopologyChangeType {
	case primitive.TopologyChangeTypeNewNode:
		if _, found := cl.nodes[addr]; !found {
			cl.nodes[addr] = &node{address: addr}
			log.Info().Msgf("cluster: new node %s", addr)
		}
	case primitive.TopologyChangeTypeRemovedNode:
		if n, found := cl.nodes[addr]; found {
			if n.conn != nil {
				_ = n.conn.Close()
			}
			cl.primaries = removeNode(cl.primaries, n)
			delete(cl.nodes, addr)
			log.Info().Msgf("cluster: node %s removed", addr)
		}
	}
}

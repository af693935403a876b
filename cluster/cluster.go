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

// Package cluster coordinates a set of connections to a Cassandra cluster: node discovery via
// system.local/system.peers, a small pool of primary connections chosen with data-center
// preference, round-robin query routing, prepared-statement re-preparation across reconnects,
// and event-driven failover on node status/topology changes.
package cluster

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mbrt/cqlnative/conn"
	"github.com/mbrt/cqlnative/cqlerr"
	"github.com/mbrt/cqlnative/message"
	"github.com/mbrt/cqlnative/prepared"
	"github.com/mbrt/cqlnative/primitive"
)

// downNodeExpiry is how long a node recorded as DOWN is skipped as a primary candidate before
// it becomes eligible again.
const downNodeExpiry = 60 * time.Second

// Config configures a Cluster's initial discovery and steady-state topology.
type Config struct {
	// ContactPoints are tried in order until one accepts a connection.
	ContactPoints []string
	// NativePort is appended to discovered node addresses that carry no port of their own.
	NativePort int
	Keyspace   string
	// PreferredDC, if set, is preferred when choosing primaries and during failover promotion.
	PreferredDC string
	// Primaries is the number of primary connections to maintain. Default 1.
	Primaries int
	ConnConfig conn.Config
}

func (c Config) withDefaults() Config {
	if c.NativePort == 0 {
		c.NativePort = 9042
	}
	if c.Primaries == 0 {
		c.Primaries = 1
	}
	return c
}

// Cluster is a live coordinator: a node table kept current by discovery and events, and a
// rotating set of primary connections used to run queries.
type Cluster struct {
	cfg Config

	mu        sync.Mutex
	nodes     map[string]*node
	primaries []*node
	cursor    int

	prepared *preparedCache

	closeOnce sync.Once
	closed    chan struct{}
}

// Connect dials a contact point, discovers the cluster's node table, opens the configured
// number of primary connections and starts event watching.
func Connect(ctx context.Context, cfg Config) (*Cluster, error) {
	cfg = cfg.withDefaults()
	cl := &Cluster{
		cfg:      cfg,
		nodes:    make(map[string]*node),
		prepared: newPreparedCache(defaultPreparedCacheSize, preparedCacheGrace),
		closed:   make(chan struct{}),
	}
	if err := cl.bootstrap(ctx); err != nil {
		return nil, err
	}
	if err := cl.ensurePrimaries(ctx); err != nil {
		return nil, err
	}
	cl.startEventWatchers(ctx)
	return cl, nil
}

// bootstrap connects to the first reachable contact point, discovers the node table from it,
// then discards the bootstrap connection; primaries are opened separately by ensurePrimaries.
func (cl *Cluster) bootstrap(ctx context.Context) error {
	if len(cl.cfg.ContactPoints) == 0 {
		return &cqlerr.ConfigurationError{Cause: fmt.Errorf("no contact points configured")}
	}
	var lastErr error
	for _, cp := range cl.cfg.ContactPoints {
		c, err := conn.Connect(ctx, cp, cl.cfg.ConnConfig)
		if err != nil {
			lastErr = err
			continue
		}
		lastErr = cl.discover(ctx, c)
		_ = c.Close()
		if lastErr == nil {
			return nil
		}
	}
	return &cqlerr.ClusterError{Cause: fmt.Errorf("bootstrap failed: %w", lastErr)}
}

// discover populates the node table from c's own system.local and system.peers rows. c's own
// address is taken from the TCP connection's remote address, since system.local carries no
// address column in v1/v2.
func (cl *Cluster) discover(ctx context.Context, c *conn.Connection) error {
	self, err := discoverSelf(ctx, c, cl.cfg.ConnConfig.Version)
	if err != nil {
		return err
	}
	peers, err := discoverPeers(ctx, c, cl.cfg.ConnConfig.Version)
	if err != nil {
		return err
	}

	selfAddr := hostOf(c.RemoteAddr().String())

	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.nodes[selfAddr] = &node{address: selfAddr, dataCenter: self.dataCenter, rack: self.rack}
	for _, p := range peers {
		cl.nodes[p.address] = &node{address: p.address, dataCenter: p.dataCenter, rack: p.rack}
	}
	log.Info().Msgf("cluster: discovered %d node(s)", len(cl.nodes))
	return nil
}

func hostOf(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

func (cl *Cluster) dialAddress(addr string) string {
	return net.JoinHostPort(addr, strconv.Itoa(cl.cfg.NativePort))
}

// ensurePrimaries opens connections for every configured primary slot that is currently empty,
// preferring PreferredDC candidates first, as sorted by pickCandidateLocked.
func (cl *Cluster) ensurePrimaries(ctx context.Context) error {
	for {
		cl.mu.Lock()
		missing := cl.cfg.Primaries - len(cl.primaries)
		if missing <= 0 {
			cl.mu.Unlock()
			return nil
		}
		candidate := cl.pickCandidateLocked()
		cl.mu.Unlock()

		if candidate == nil {
			if len(cl.primaries) == 0 {
				return &cqlerr.ClusterError{Cause: fmt.Errorf("no primary available")}
			}
			log.Warn().Msg("cluster: no candidate available to fill remaining primary slot")
			return nil
		}
		if err := cl.promote(ctx, candidate); err != nil {
			log.Error().Err(err).Msgf("cluster: failed to promote %s to primary", candidate.address)
			cl.mu.Lock()
			candidate.downSince = time.Now()
			cl.mu.Unlock()
			continue
		}
	}
}

// pickCandidateLocked returns the best non-primary, non-down node to promote, in
// PreferredDC-first order, or nil if none qualify. cl.mu must be held.
func (cl *Cluster) pickCandidateLocked() *node {
	candidates := make([]*node, 0, len(cl.nodes))
	for _, n := range cl.nodes {
		if n.isPrimary {
			continue
		}
		if n.isDown() && !n.downExpired(downNodeExpiry) {
			continue
		}
		candidates = append(candidates, n)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		iPreferred := cl.cfg.PreferredDC != "" && candidates[i].dataCenter == cl.cfg.PreferredDC
		jPreferred := cl.cfg.PreferredDC != "" && candidates[j].dataCenter == cl.cfg.PreferredDC
		return iPreferred && !jPreferred
	})
	if len(candidates) == 0 {
		return nil
	}
	return candidates[0]
}

// promote connects to n, re-prepares every cached query on the new connection and adds it to
// the primary rotation.
func (cl *Cluster) promote(ctx context.Context, n *node) error {
	c, err := conn.Connect(ctx, cl.dialAddress(n.address), cl.cfg.ConnConfig)
	if err != nil {
		return err
	}
	if cl.cfg.Keyspace != "" {
		if _, err := c.Execute(ctx, &message.Query{
			Query:   "USE " + cl.cfg.Keyspace,
			Options: &message.QueryOptions{Consistency: primitive.ConsistencyLevelOne},
		}); err != nil {
			_ = c.Close()
			return fmt.Errorf("cannot USE keyspace %q on %s: %w", cl.cfg.Keyspace, n.address, err)
		}
	}
	for _, query := range cl.prepared.Queries() {
		if _, err := c.Execute(ctx, &message.Prepare{Query: query}); err != nil {
			log.Warn().Err(err).Msgf("cluster: failed to re-prepare %q on %s", query, n.address)
		}
	}

	cl.mu.Lock()
	n.conn = c
	n.ready = true
	n.isPrimary = true
	n.downSince = time.Time{}
	cl.primaries = append(cl.primaries, n)
	cl.mu.Unlock()

	go cl.watchForFailure(n, c)
	log.Info().Msgf("cluster: %s promoted to primary", n.address)
	return nil
}

// watchForFailure waits for c to close, then demotes n and tries to pick a replacement.
func (cl *Cluster) watchForFailure(n *node, c *conn.Connection) {
	select {
	case <-c.Done():
	case <-cl.closed:
		return
	}
	cl.mu.Lock()
	n.isPrimary = false
	n.ready = false
	n.conn = nil
	n.downSince = time.Now()
	cl.primaries = removeNode(cl.primaries, n)
	cl.mu.Unlock()

	log.Warn().Msgf("cluster: primary %s lost, picking a replacement", n.address)
	if err := cl.ensurePrimaries(context.Background()); err != nil {
		log.Error().Err(err).Msg("cluster: failed to restore primary count")
	}
}

func removeNode(nodes []*node, target *node) []*node {
	out := nodes[:0]
	for _, n := range nodes {
		if n != target {
			out = append(out, n)
		}
	}
	return out
}

// getANode returns the next ready primary in rotation, advancing the cursor. If no primary is
// ready, it falls back to the next primary regardless of readiness, and only returns an error
// when there is no primary at all.
func (cl *Cluster) getANode() (*node, error) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if len(cl.primaries) == 0 {
		return nil, &cqlerr.ClusterError{Cause: fmt.Errorf("no primary available")}
	}
	start := cl.cursor
	for i := 0; i < len(cl.primaries); i++ {
		idx := (start + i) % len(cl.primaries)
		n := cl.primaries[idx]
		if n.ready {
			cl.cursor = (idx + 1) % len(cl.primaries)
			return n, nil
		}
	}
	n := cl.primaries[start%len(cl.primaries)]
	cl.cursor = (start + 1) % len(cl.primaries)
	return n, nil
}

// Query runs cql directly, without a prepared-statement round trip, and returns the raw
// decoded Result.
func (cl *Cluster) Query(ctx context.Context, cql string, options *message.QueryOptions) (message.Result, error) {
	n, err := cl.getANode()
	if err != nil {
		return nil, err
	}
	if options == nil {
		options = &message.QueryOptions{Consistency: primitive.ConsistencyLevelOne}
	}
	resp, err := n.conn.Execute(ctx, &message.Query{Query: cql, Options: options})
	if err != nil {
		return nil, err
	}
	result, ok := resp.(message.Result)
	if !ok {
		return nil, &cqlerr.ProtocolError{Cause: fmt.Errorf("expected a RESULT, got %T", resp)}
	}
	return result, nil
}

// QueryRows is Query, but fails with a ProtocolError unless the result is a row set.
func (cl *Cluster) QueryRows(ctx context.Context, cql string, options *message.QueryOptions) (*message.RowsResult, error) {
	result, err := cl.Query(ctx, cql, options)
	if err != nil {
		return nil, err
	}
	rows, ok := result.(*message.RowsResult)
	if !ok {
		return nil, &cqlerr.ProtocolError{Cause: fmt.Errorf("expected RESULT ROWS, got result kind %v", result.ResultType())}
	}
	return rows, nil
}

// Prepare returns a bindable Statement for cql. If cql was prepared before and its handle is
// still live in the cache, that same handle is returned without a new PREPARE round trip.
// Otherwise cql is prepared against every current primary in parallel (so any of them can later
// serve an EXECUTE for it), the resulting handle is cached, and returned.
func (cl *Cluster) Prepare(ctx context.Context, cql string) (*prepared.Statement, error) {
	if stmt, ok := cl.prepared.Get(cql); ok {
		return stmt, nil
	}

	cl.mu.Lock()
	primaries := append([]*node(nil), cl.primaries...)
	cl.mu.Unlock()
	if len(primaries) == 0 {
		return nil, &cqlerr.ClusterError{Cause: fmt.Errorf("no primary available")}
	}

	results := make([]*message.PreparedResult, len(primaries))
	errs := make([]error, len(primaries))
	var wg sync.WaitGroup
	for i, n := range primaries {
		wg.Add(1)
		go func(i int, n *node) {
			defer wg.Done()
			resp, err := n.conn.Execute(ctx, &message.Prepare{Query: cql})
			if err != nil {
				errs[i] = err
				return
			}
			result, ok := resp.(*message.PreparedResult)
			if !ok {
				errs[i] = fmt.Errorf("expected RESULT PREPARED, got %T", resp)
				return
			}
			results[i] = result
		}(i, n)
	}
	wg.Wait()

	var chosen *message.PreparedResult
	for i, result := range results {
		if result == nil {
			log.Warn().Err(errs[i]).Msgf("cluster: failed to prepare %q on %s", cql, primaries[i].address)
			continue
		}
		if chosen == nil {
			chosen = result
		}
	}
	if chosen == nil {
		return nil, &cqlerr.ClusterError{Cause: fmt.Errorf("failed to prepare %q on any primary", cql)}
	}

	stmt := prepared.New(cql, chosen, cl.cfg.ConnConfig.Version, cl)
	cl.prepared.Remember(cql, stmt)
	return stmt, nil
}

// ExecutePrepared implements prepared.Executor, routing the EXECUTE to the current primary.
func (cl *Cluster) ExecutePrepared(ctx context.Context, msg *message.Execute) (message.Message, error) {
	n, err := cl.getANode()
	if err != nil {
		return nil, err
	}
	return n.conn.Execute(ctx, msg)
}

// Keyspaces lists every keyspace known to the cluster (v1/v2 schema tables).
func (cl *Cluster) Keyspaces(ctx context.Context) ([]string, error) {
	rows, err := cl.QueryRows(ctx, "SELECT keyspace_name FROM system.schema_keyspaces", nil)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(rows.Rows))
	for i, row := range rows.Rows {
		out[i], err = textColumn(rows, row, "keyspace_name", cl.cfg.ConnConfig.Version)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Tables lists every table in keyspace.
func (cl *Cluster) Tables(ctx context.Context, keyspace string) ([]string, error) {
	rows, err := cl.QueryRows(ctx,
		fmt.Sprintf("SELECT columnfamily_name FROM system.schema_columnfamilies WHERE keyspace_name = '%s'", keyspace), nil)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(rows.Rows))
	for i, row := range rows.Rows {
		out[i], err = textColumn(rows, row, "columnfamily_name", cl.cfg.ConnConfig.Version)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Columns lists every column name of keyspace.table.
func (cl *Cluster) Columns(ctx context.Context, keyspace, table string) ([]string, error) {
	rows, err := cl.QueryRows(ctx,
		fmt.Sprintf("SELECT column_name FROM system.schema_columns WHERE keyspace_name = '%s' AND columnfamily_name = '%s'", keyspace, table), nil)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(rows.Rows))
	for i, row := range rows.Rows {
		out[i], err = textColumn(rows, row, "column_name", cl.cfg.ConnConfig.Version)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ClusterName returns the cluster_name reported by system.local.
func (cl *Cluster) ClusterName(ctx context.Context) (string, error) {
	rows, err := cl.QueryRows(ctx, "SELECT cluster_name FROM system.local", nil)
	if err != nil {
		return "", err
	}
	if len(rows.Rows) != 1 {
		return "", &cqlerr.ProtocolError{Cause: fmt.Errorf("system.local returned %d rows, want 1", len(rows.Rows))}
	}
	return textColumn(rows, rows.Rows[0], "cluster_name", cl.cfg.ConnConfig.Version)
}

// Close tears down every primary and watcher connection immediately, failing any request still
// waiting for a response.
func (cl *Cluster) Close() error {
	cl.closeOnce.Do(func() {
		close(cl.closed)
		cl.mu.Lock()
		defer cl.mu.Unlock()
		for _, n := range cl.nodes {
			if n.conn != nil {
				_ = n.conn.Close()
			}
		}
	})
	return nil
}

// CloseWhenIdle marks the Cluster closed the same way Close does, then waits for every
// connection's in-flight requests to finish (or ctx to expire) before closing them.
func (cl *Cluster) CloseWhenIdle(ctx context.Context) error {
	var stop bool
	cl.closeOnce.Do(func() { stop = true; close(cl.closed) })
	if !stop {
		return nil
	}

	cl.mu.Lock()
	conns := make([]*conn.Connection, 0, len(cl.nodes))
	for _, n := range cl.nodes {
		if n.conn != nil {
			conns = append(conns, n.conn)
		}
	}
	cl.mu.Unlock()

	var wg sync.WaitGroup
	for _, c := range conns {
		wg.Add(1)
		go func(c *conn.Connection) {
			defer wg.Done()
			_ = c.CloseGraceful(ctx)
		}(c)
	}
	wg.Wait()
	return nil
}

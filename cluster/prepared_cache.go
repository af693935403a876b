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
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/mbrt/cqlnative/prepared"
)

// defaultPreparedCacheSize bounds how many distinct CQL texts the coordinator keeps prepared
// on every primary at once.
const defaultPreparedCacheSize = 1000

// preparedCacheGrace is how long a cached query survives without being looked up (Get) or
// stored (Remember) again before it is evicted and must be re-prepared from scratch. Executing
// a prepared statement does not reset it.
const preparedCacheGrace = 5 * time.Minute

type cacheEntry struct {
	statement *prepared.Statement
	timer     *time.Timer
}

// preparedCache holds the live *prepared.Statement handle for every query text this coordinator
// has prepared, for both immediate reuse (prepare(cql) called twice while the handle is live
// returns the same handle, without a second PREPARE round trip) and for re-preparation against
// every new primary connection. It is an LRU bounded by size, combined with a per-entry grace
// timer: an entry not touched for preparedCacheGrace is evicted independently of LRU pressure.
type preparedCache struct {
	mu    sync.Mutex
	lru   *lru.Cache
	grace time.Duration
}

func newPreparedCache(size int, grace time.Duration) *preparedCache {
	p := &preparedCache{grace: grace}
	evict := func(key interface{}, value interface{}) {
		if entry, ok := value.(*cacheEntry); ok {
			entry.timer.Stop()
		}
	}
	l, err := lru.NewWithEvict(size, evict)
	if err != nil {
		// size <= 0 is the only failure mode of NewWithEvict; fall back to the default.
		l, _ = lru.NewWithEvict(defaultPreparedCacheSize, evict)
	}
	p.lru = l
	return p
}

// Get returns the live handle for query, resetting its grace timer, or false if query has never
// been prepared or its handle has since been evicted.
func (p *preparedCache) Get(query string) (*prepared.Statement, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.lru.Get(query)
	if !ok {
		return nil, false
	}
	entry := v.(*cacheEntry)
	entry.timer.Reset(p.grace)
	return entry.statement, true
}

// Remember stores stmt as the live handle for query, resetting its grace timer. Safe to call
// repeatedly for the same query.
func (p *preparedCache) Remember(query string, stmt *prepared.Statement) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v, ok := p.lru.Get(query); ok {
		entry := v.(*cacheEntry)
		entry.statement = stmt
		entry.timer.Reset(p.grace)
		return
	}
	entry := &cacheEntry{statement: stmt}
	entry.timer = time.AfterFunc(p.grace, func() {
		p.mu.Lock()
		p.lru.Remove(query)
		p.mu.Unlock()
	})
	p.lru.Add(query, entry)
}

// Forget removes query from the cache immediately, stopping its grace timer.
func (p *preparedCache) Forget(query string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lru.Remove(query)
}

// Queries returns every currently-live cached query text, for re-preparation against a new
// primary connection.
func (p *preparedCache) Queries() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := p.lru.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.(string)
	}
	return out
}

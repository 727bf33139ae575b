//
// See the file COPYRIGHT for copyright information.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

// Package cache provides a single-value TTL cache. It's used where a
// response is expensive to compute but may be served slightly stale,
// such as the per-location risk overview.
package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

type InMemory[T any] struct {
	current     atomic.Pointer[entry[T]]
	ttl         time.Duration
	refresher   func(context.Context) (T, error)
	refreshMu   sync.Mutex
	initialized bool
}

type entry[T any] struct {
	value     T
	refreshed time.Time
}

// New creates an InMemory cache whose value stays valid for ttl after each
// refresh. The refresher computes a new value whenever the cached one has
// expired.
func New[T any](
	ttl time.Duration,
	refresher func(context.Context) (T, error),
) *InMemory[T] {
	im := &InMemory[T]{
		ttl:         ttl,
		refresher:   refresher,
		initialized: true,
	}
	im.current.Store(expiredEntry[T]())
	return im
}

// expiredEntry is a placeholder that any ttl will consider stale.
func expiredEntry[T any]() *entry[T] {
	return &entry[T]{refreshed: time.Time{}}
}

// Get returns the cached value, refreshing it first if it has expired.
// Concurrent callers during a refresh serialize on one refresher call.
func (im *InMemory[T]) Get(ctx context.Context) (*T, error) {
	if !im.initialized {
		panic("cache not initialized")
	}

	e := im.current.Load()
	if e.fresh(im.ttl) {
		return &e.value, nil
	}

	im.refreshMu.Lock()
	defer im.refreshMu.Unlock()

	// Another caller may have refreshed while we waited on the lock.
	e = im.current.Load()
	if e.fresh(im.ttl) {
		return &e.value, nil
	}

	value, err := im.refresher(ctx)
	if err != nil {
		return nil, fmt.Errorf("[refresher]: %w", err)
	}
	im.current.Store(&entry[T]{value: value, refreshed: time.Now()})
	return &value, nil
}

// Invalidate drops the cached value, forcing the next Get to refresh.
func (im *InMemory[T]) Invalidate() {
	if !im.initialized {
		panic("cache not initialized")
	}
	im.refreshMu.Lock()
	defer im.refreshMu.Unlock()
	im.current.Store(expiredEntry[T]())
}

func (e *entry[T]) fresh(ttl time.Duration) bool {
	return !e.refreshed.IsZero() && time.Now().Before(e.refreshed.Add(ttl))
}

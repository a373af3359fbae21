// Copyright 2026 The sdnroute Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package task

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/sdnroute/sdnroute/controller/routeinfo"
)

const (
	// DefaultQueueSize is the default capacity of the task queue.
	DefaultQueueSize = 1024
	// DefaultWindow is the default time a request key stays in the request
	// cache.
	DefaultWindow = 50 * time.Second
)

// Queue is a bounded FIFO queue of entries. It is safe for concurrent use.
type Queue struct {
	mtx      sync.Mutex
	entries  []Entry
	capacity int
}

// NewQueue creates a queue. A capacity of zero or less selects
// DefaultQueueSize.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueSize
	}
	return &Queue{capacity: capacity}
}

// Push appends the entry. It never blocks and reports false if the queue is
// full and the entry was dropped.
func (q *Queue) Push(e Entry) bool {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	if len(q.entries) >= q.capacity {
		return false
	}
	q.entries = append(q.entries, e)
	return true
}

// PopReady removes and returns the leading entries submitted at or before
// now, in arrival order. An entry from the future stops the scan.
func (q *Queue) PopReady(now time.Time) []Entry {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	n := 0
	for n < len(q.entries) && !q.entries[n].Time.After(now) {
		n++
	}
	if n == 0 {
		return nil
	}
	ready := make([]Entry, n)
	copy(ready, q.entries[:n])
	q.entries = append(q.entries[:0], q.entries[n:]...)
	return ready
}

// Len returns the number of queued entries.
func (q *Queue) Len() int {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	return len(q.entries)
}

// RequestCache coalesces repeated requests for the same source and
// destination within a time window.
type RequestCache struct {
	c *cache.Cache
}

// NewRequestCache creates a cache with the given window. A window of zero or
// less selects DefaultWindow.
func NewRequestCache(window time.Duration) *RequestCache {
	if window <= 0 {
		window = DefaultWindow
	}
	return &RequestCache{c: cache.New(window, 2*window)}
}

// Admit records the key and reports true if no unexpired request with the
// same key is cached. An expired key is refreshed.
func (rc *RequestCache) Admit(key routeinfo.RequestKey) bool {
	return rc.c.Add(key.String(), time.Now(), cache.DefaultExpiration) == nil
}

// Forget removes the key, so that the next request with it is admitted.
func (rc *RequestCache) Forget(key routeinfo.RequestKey) {
	rc.c.Delete(key.String())
}

// Len returns the number of cached keys, including expired ones that were
// not cleaned up yet.
func (rc *RequestCache) Len() int {
	return rc.c.ItemCount()
}

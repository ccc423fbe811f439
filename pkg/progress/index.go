package progress

import (
	"sort"
	"sync"
)

// keyIndex maps a subject to the cache keys derived from it.
// It has its own lock and never calls into the cache, so it is safe to
// update from an eviction callback.
type keyIndex struct {
	mu        sync.Mutex
	bySubject map[string]map[string]struct{}
}

func newKeyIndex() *keyIndex {
	return &keyIndex{bySubject: make(map[string]map[string]struct{})}
}

// add records key under every listed subject.
func (x *keyIndex) add(key string, subjects ...string) {
	x.mu.Lock()
	defer x.mu.Unlock()

	for _, subject := range subjects {
		keys, ok := x.bySubject[subject]
		if !ok {
			keys = make(map[string]struct{})
			x.bySubject[subject] = keys
		}
		keys[key] = struct{}{}
	}
}

// forget drops key from every subject.
func (x *keyIndex) forget(key string) {
	x.mu.Lock()
	defer x.mu.Unlock()

	for subject, keys := range x.bySubject {
		delete(keys, key)
		if len(keys) == 0 {
			delete(x.bySubject, subject)
		}
	}
}

// take removes and returns the keys recorded for subject, sorted.
func (x *keyIndex) take(subject string) []string {
	x.mu.Lock()
	keys := x.bySubject[subject]
	delete(x.bySubject, subject)
	x.mu.Unlock()

	out := make([]string, 0, len(keys))
	for key := range keys {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// subjects returns how many subjects still have keys recorded.
func (x *keyIndex) subjects() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.bySubject)
}

// reset clears the index.
func (x *keyIndex) reset() {
	x.mu.Lock()
	x.bySubject = make(map[string]map[string]struct{})
	x.mu.Unlock()
}

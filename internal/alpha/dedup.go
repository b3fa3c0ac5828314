package alpha

import "sync"

// DedupFilter suppresses repeat listings within the process lifetime. The
// identifier is whatever a listing source uses as its stable key (mint
// address, pool id). Entries are never evicted; a restart clears the set.
type DedupFilter struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewDedupFilter() *DedupFilter {
	return &DedupFilter{seen: map[string]struct{}{}}
}

// Admit reports whether the identifier is being seen for the first time, and
// records it. Each distinct identifier is admitted exactly once.
func (f *DedupFilter) Admit(id string) bool {
	if id == "" {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.seen[id]; ok {
		return false
	}
	f.seen[id] = struct{}{}
	return true
}

func (f *DedupFilter) Size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seen)
}

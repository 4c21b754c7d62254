package metrics

import (
	"sort"
	"sync"
)

// ToolCount is one row of a usage snapshot.
type ToolCount struct {
	Name   string `json:"name"`
	Calls  int    `json:"calls"`
	Errors int    `json:"errors"`
}

// ToolUsage tallies tool invocations across scenarios. Safe for concurrent use.
type ToolUsage struct {
	mu     sync.Mutex
	calls  map[string]int
	errors map[string]int
}

func NewToolUsage() *ToolUsage {
	return &ToolUsage{calls: map[string]int{}, errors: map[string]int{}}
}

// Record counts one call of name. A nil receiver is a no-op.
func (u *ToolUsage) Record(name string, failed bool) {
	if u == nil {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls[name]++
	if failed {
		u.errors[name]++
	}
}

// Total returns the number of recorded calls.
func (u *ToolUsage) Total() int {
	if u == nil {
		return 0
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	n := 0
	for _, c := range u.calls {
		n += c
	}
	return n
}

// Snapshot returns counts ordered by calls descending, then name.
func (u *ToolUsage) Snapshot() []ToolCount {
	if u == nil {
		return nil
	}
	u.mu.Lock()
	out := make([]ToolCount, 0, len(u.calls))
	for name, c := range u.calls {
		out = append(out, ToolCount{Name: name, Calls: c, Errors: u.errors[name]})
	}
	u.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Calls != out[j].Calls {
			return out[i].Calls > out[j].Calls
		}
		return out[i].Name < out[j].Name
	})
	return out
}

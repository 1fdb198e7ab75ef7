package model

import "time"

// Version is reported by --version, the update check and the web API.
const Version = "v0.3.1"

// Fragment is one fixed-length piece of the value being reassembled.
// Fragments compare by value only.
type Fragment string

// Prefix returns the first k characters of the fragment.
func (f Fragment) Prefix(k int) string {
	if k > len(f) {
		k = len(f)
	}
	return string(f[:k])
}

// Suffix returns the last k characters of the fragment.
func (f Fragment) Suffix(k int) string {
	if k > len(f) {
		k = len(f)
	}
	return string(f[len(f)-k:])
}

// Chain is an ordered run of distinct fragments where each adjacent pair overlaps.
type Chain []Fragment

// Len returns the number of fragments in the chain.
func (c Chain) Len() int { return len(c) }

// Head returns the first fragment, or "" for an empty chain.
func (c Chain) Head() Fragment {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// Tail returns the last fragment, or "" for an empty chain.
func (c Chain) Tail() Fragment {
	if len(c) == 0 {
		return ""
	}
	return c[len(c)-1]
}

// Contains reports whether f is already part of the chain.
func (c Chain) Contains(f Fragment) bool {
	for _, x := range c {
		if x == f {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no backing array with c.
func (c Chain) Clone() Chain {
	if c == nil {
		return nil
	}
	out := make(Chain, len(c))
	copy(out, c)
	return out
}

// Strings converts the chain to plain strings (for JSON and file output).
func (c Chain) Strings() []string {
	out := make([]string, len(c))
	for i, f := range c {
		out[i] = string(f)
	}
	return out
}

// ValidationResult is produced by scanning a chain once.
// FailIndex is -1 when the chain is valid; otherwise the pair
// (FailIndex, FailIndex+1) is the first that does not overlap.
type ValidationResult struct {
	Valid     bool `json:"valid"`
	FailIndex int  `json:"fail_index"`
}

// SearchStats describes how much of the overlap graph the path search covered.
type SearchStats struct {
	StatesExplored int  `json:"states_explored"`
	StatesDropped  int  `json:"states_dropped"`
	MaxFrontier    int  `json:"max_frontier"`
	Truncated      bool `json:"truncated"`
	TimedOut       bool `json:"timed_out"`
}

// StageTiming records how long one pipeline stage took.
type StageTiming struct {
	Stage    string        `json:"stage"`
	Duration time.Duration `json:"duration_ns"`
}

// Assembly contains everything one reconstruction run produced.
type Assembly struct {
	Input      int              `json:"input"`
	Overlap    int              `json:"overlap"`
	Start      Fragment         `json:"start"`
	Chain      Chain            `json:"chain"`
	Validation ValidationResult `json:"validation"`
	Merged     string           `json:"merged,omitempty"`
	Excluded   []Fragment       `json:"excluded"`

	GraphNodes int            `json:"graph_nodes"`
	GraphEdges int            `json:"graph_edges"`
	OutDegree  map[string]int `json:"out_degree,omitempty"`
	Search     SearchStats    `json:"search"`
	Timings    []StageTiming  `json:"timings"`
}

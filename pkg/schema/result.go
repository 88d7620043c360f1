package schema

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// Violation identifies where and why a document fails its schema.
type Violation struct {
	Path   string `json:"path" yaml:"path"`
	Kind   string `json:"kind" yaml:"kind"`
	Reason string `json:"reason" yaml:"reason"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Reason)
}

// Result is the outcome of a validation pass. A result without violations is
// valid.
type Result struct {
	Violations []Violation `json:"violations" yaml:"violations"`
}

func (r Result) Valid() bool {
	return len(r.Violations) == 0
}

// Err returns nil for a valid result and a *ResultError otherwise.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return &ResultError{Violations: r.Violations}
}

// ResultError carries every violation of a failed validation.
type ResultError struct {
	Violations []Violation
}

func (e *ResultError) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("document does not match schema: %s", e.Violations[0])
	}
	return fmt.Sprintf("document does not match schema: %d violations", len(e.Violations))
}

type pathSegment struct {
	name  string
	index int
	isIdx bool
}

func parsePath(path string) []pathSegment {
	if path == RootPath {
		return nil
	}

	var segs []pathSegment
	for _, part := range strings.Split(path, ".") {
		name, rest, _ := strings.Cut(part, "[")
		if name != "" {
			segs = append(segs, pathSegment{name: name})
		}
		for rest != "" {
			idx, tail, _ := strings.Cut(rest, "]")
			n, err := strconv.Atoi(idx)
			if err != nil {
				segs = append(segs, pathSegment{name: idx})
			} else {
				segs = append(segs, pathSegment{index: n, isIdx: true})
			}
			rest = strings.TrimPrefix(tail, "[")
		}
	}
	return segs
}

// compareViolations orders by path with numeric indexes compared as numbers,
// so robots[2] sorts before robots[10].
func compareViolations(a, b Violation) int {
	pa, pb := parsePath(a.Path), parsePath(b.Path)
	for i := 0; i < len(pa) && i < len(pb); i++ {
		x, y := pa[i], pb[i]
		switch {
		case x.isIdx && y.isIdx:
			if c := cmp.Compare(x.index, y.index); c != 0 {
				return c
			}
		case x.isIdx != y.isIdx:
			if x.isIdx {
				return -1
			}
			return 1
		default:
			if c := strings.Compare(x.name, y.name); c != 0 {
				return c
			}
		}
	}
	if c := cmp.Compare(len(pa), len(pb)); c != 0 {
		return c
	}
	if c := strings.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	return strings.Compare(a.Reason, b.Reason)
}

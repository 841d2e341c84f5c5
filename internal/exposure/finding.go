package exposure

import (
	"fmt"
	"io"
)

// Finding is one exposure defect reported by the heuristics.
type Finding int

const (
	ClippedBlacks Finding = iota + 1
	ClippedWhites
	LiftedBlacks
	CrushedBlacks
)

// AllFindings lists every finding in evaluation order.
var AllFindings = []Finding{ClippedBlacks, ClippedWhites, LiftedBlacks, CrushedBlacks}

var findingLabels = map[Finding]string{
	ClippedBlacks: "clipped blacks",
	ClippedWhites: "clipped whites",
	LiftedBlacks:  "lifted blacks",
	CrushedBlacks: "crushed blacks",
}

var findingSlugs = map[Finding]string{
	ClippedBlacks: "clipped-blacks",
	ClippedWhites: "clipped-whites",
	LiftedBlacks:  "lifted-blacks",
	CrushedBlacks: "crushed-blacks",
}

// String returns the human-readable label printed by the CLI.
func (f Finding) String() string {
	if s, ok := findingLabels[f]; ok {
		return s
	}
	return fmt.Sprintf("Finding(%d)", int(f))
}

// Slug returns the kebab-case identifier used in JSON output.
func (f Finding) Slug() string {
	return findingSlugs[f]
}

// MarshalText encodes the finding as its slug.
func (f Finding) MarshalText() ([]byte, error) {
	s, ok := findingSlugs[f]
	if !ok {
		return nil, fmt.Errorf("unknown finding %d", int(f))
	}
	return []byte(s), nil
}

// UnmarshalText accepts either the slug or the label form.
func (f *Finding) UnmarshalText(text []byte) error {
	s := string(text)
	for _, candidate := range AllFindings {
		if s == findingSlugs[candidate] || s == findingLabels[candidate] {
			*f = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown finding %q", s)
}

// Print writes one label per line, in the order given.
func Print(w io.Writer, findings []Finding) error {
	for _, f := range findings {
		if _, err := fmt.Fprintln(w, f.String()); err != nil {
			return err
		}
	}
	return nil
}

// Package threadcount parses tartan threadcounts such as "R18 K12 B6" and
// builds the mirrored sett they describe.
package threadcount

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jmylchreest/sett/internal/palette"
)

// Run is a band of adjacent threads of one colour.
type Run struct {
	Code  palette.Code `json:"code"`
	Count float64      `json:"count"`
}

// String formats the run the way it is written in a threadcount ("R18", "K1.5").
func (r Run) String() string {
	return string(r.Code) + strconv.FormatFloat(r.Count, 'f', -1, 64)
}

// Threadcount is an ordered list of runs: the left half of a symmetric
// repeat, ending at the pivot.
type Threadcount []Run

// Len returns the number of runs.
func (tc Threadcount) Len() int {
	return len(tc)
}

// Empty reports whether there is nothing to weave.
func (tc Threadcount) Empty() bool {
	return len(tc) == 0
}

// Pivot returns the last run, around which the sett is mirrored.
func (tc Threadcount) Pivot() (Run, bool) {
	if len(tc) == 0 {
		return Run{}, false
	}
	return tc[len(tc)-1], true
}

// Mirror builds the full sett: the runs followed by their reverse without
// the pivot, so the pivot appears exactly once. A threadcount of n > 0 runs
// yields 2n-1 runs.
func (tc Threadcount) Mirror() Threadcount {
	if len(tc) == 0 {
		return Threadcount{}
	}

	sett := make(Threadcount, 0, 2*len(tc)-1)
	sett = append(sett, tc...)
	for i := len(tc) - 2; i >= 0; i-- {
		sett = append(sett, tc[i])
	}
	return sett
}

// Total returns the number of threads across all runs.
func (tc Threadcount) Total() float64 {
	total := 0.0
	for _, r := range tc {
		total += r.Count
	}
	return total
}

// Codes returns the distinct colour codes in order of first appearance.
func (tc Threadcount) Codes() []palette.Code {
	seen := make(map[palette.Code]bool, len(tc))
	var codes []palette.Code
	for _, r := range tc {
		if !seen[r.Code] {
			seen[r.Code] = true
			codes = append(codes, r.Code)
		}
	}
	return codes
}

// Equal reports whether two threadcounts have identical runs.
func (tc Threadcount) Equal(other Threadcount) bool {
	if len(tc) != len(other) {
		return false
	}
	for i := range tc {
		if tc[i] != other[i] {
			return false
		}
	}
	return true
}

// String returns the canonical text form, e.g. "R18 K12 B6".
func (tc Threadcount) String() string {
	parts := make([]string, len(tc))
	for i, r := range tc {
		parts[i] = r.String()
	}
	return strings.Join(parts, " ")
}

// ThreadcountJSON is the JSON output shape used by the CLI.
type ThreadcountJSON struct {
	Threadcount string      `json:"threadcount"`
	Runs        Threadcount `json:"runs"`
	Sett        Threadcount `json:"sett"`
	Threads     float64     `json:"threads"`
}

// ToJSON returns the threadcount and its mirrored sett as indented JSON.
func (tc Threadcount) ToJSON() ([]byte, error) {
	sett := tc.Mirror()
	return json.MarshalIndent(ThreadcountJSON{
		Threadcount: tc.String(),
		Runs:        tc,
		Sett:        sett,
		Threads:     sett.Total(),
	}, "", "  ")
}

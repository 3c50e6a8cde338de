package contract

import (
	"fmt"
	"strings"
)

// Results collects the outcome of a run.
type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

// TestResult is the outcome of a single test or group.
type TestResult struct {
	TestID  TestID
	Errors  []error
	Skipped bool
}

// OK reports whether nothing failed.
func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Passed counts tests that ran and did not fail. Groups are not counted.
func (r Results) Passed() int {
	n := 0
	for _, t := range r.Tests {
		if len(t.TestID.Path) > 1 && !t.Skipped && len(t.Errors) == 0 {
			n++
		}
	}
	return n
}

// TestID is the path of group and case names.
type TestID struct {
	Path []string
}

// Plus returns the id of a child test.
func (t TestID) Plus(name string) TestID {
	path := make([]string, 0, len(t.Path)+1)
	path = append(path, t.Path...)
	return TestID{Path: append(path, name)}
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

// TestFailure pairs an error with the test it came from.
type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}

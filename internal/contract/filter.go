package contract

import (
	"fmt"
	"regexp"
	"strings"
)

// Filter is a function that can determine whether to run a specific test or not.
type Filter func(TestID) bool

// RegexFilters selects tests by matching their "group/case" id.
type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

// AsFilter is the Filter view of the patterns. Group ids are only excluded by
// MustNotMatch, so a --run pattern naming a case does not hide its group.
func (r RegexFilters) AsFilter(id TestID) bool {
	name := id.String()
	if r.MustNotMatch.AnyMatch(name) {
		return false
	}
	if len(id.Path) < 2 {
		return true
	}
	return !r.MustMatch.IsDefined() || r.MustMatch.AnyMatch(name)
}

// IsDefined reports whether any pattern was given.
func (r RegexFilters) IsDefined() bool {
	return r.MustMatch.IsDefined() || r.MustNotMatch.IsDefined()
}

// Describe explains the filters for the console, or returns "" when there are none.
func (r RegexFilters) Describe() string {
	if !r.IsDefined() {
		return ""
	}
	var b strings.Builder
	b.WriteString("Some tests will be skipped based on the filter criteria for this test run:\n")
	if r.MustMatch.IsDefined() {
		fmt.Fprintf(&b, "  skip any not matching %s\n", r.MustMatch)
	}
	if r.MustNotMatch.IsDefined() {
		fmt.Fprintf(&b, "  skip any matching %s\n", r.MustNotMatch)
	}
	return b.String()
}

// RegexList is a repeatable command line flag of regular expressions.
type RegexList struct {
	patterns []*regexp.Regexp
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser
func (r *RegexList) Set(value string) error {
	rx, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	r.patterns = append(r.patterns, rx)
	return nil
}

// Type names the flag value in help output.
func (r *RegexList) Type() string {
	return "regex"
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

func (r RegexList) AnyMatch(s string) bool {
	for _, p := range r.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

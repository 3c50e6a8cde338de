package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Matcher asserts the shape of a decoded response body.
type Matcher interface {
	// Match returns nil when actual is accepted, otherwise an error describing the mismatch.
	Match(actual any) error
	String() string
}

// numbers compares JSON numbers by value so 1 and 1.0 are equal.
var numbers = cmp.Comparer(func(x, y json.Number) bool {
	if x == y {
		return true
	}
	fx, errX := x.Float64()
	fy, errY := y.Float64()
	return errX == nil && errY == nil && fx == fy
})

// normalize passes a Go value through JSON so it has the same representation as a decoded body.
func normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("expected value is not JSON encodable: %w", err)
	}
	return decodeBody(raw), nil
}

func describe(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(raw)
}

type equalMatcher struct {
	expected any
}

// Equal requires the body to equal expected exactly.
func Equal(expected any) Matcher {
	return equalMatcher{expected: expected}
}

func (m equalMatcher) Match(actual any) error {
	expected, err := normalize(m.expected)
	if err != nil {
		return err
	}
	if !cmp.Equal(expected, actual, numbers) {
		return fmt.Errorf("expected %s, got %s (-want +got):\n%s", describe(expected), describe(actual), cmp.Diff(expected, actual, numbers))
	}
	return nil
}

func (m equalMatcher) String() string {
	return "equal to " + describe(m.expected)
}

// EmptyObject requires the body to be exactly {}.
func EmptyObject() Matcher {
	return Equal(map[string]any{})
}

type containingMatcher struct {
	fields map[string]any
}

// ObjectContaining requires every listed key to be present with an equal value.
// Values may themselves be Matchers. Extra keys are allowed.
func ObjectContaining(fields map[string]any) Matcher {
	return containingMatcher{fields: fields}
}

func (m containingMatcher) Match(actual any) error {
	obj, ok := actual.(map[string]any)
	if !ok {
		return fmt.Errorf("expected an object, got %s", describe(actual))
	}
	var errs []error
	for _, key := range sortedKeys(m.fields) {
		got, present := obj[key]
		if !present {
			errs = append(errs, fmt.Errorf("missing key %q", key))
			continue
		}
		want := m.fields[key]
		matcher, isMatcher := want.(Matcher)
		if !isMatcher {
			matcher = Equal(want)
		}
		if err := matcher.Match(got); err != nil {
			errs = append(errs, fmt.Errorf("key %q: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func (m containingMatcher) String() string {
	parts := make([]string, 0, len(m.fields))
	for _, key := range sortedKeys(m.fields) {
		value := m.fields[key]
		if matcher, ok := value.(Matcher); ok {
			parts = append(parts, fmt.Sprintf("%q: <%s>", key, matcher))
			continue
		}
		parts = append(parts, fmt.Sprintf("%q: %s", key, describe(value)))
	}
	return "object containing {" + strings.Join(parts, ", ") + "}"
}

type anyNumberMatcher struct{}

// AnyNumber accepts any JSON number.
func AnyNumber() Matcher {
	return anyNumberMatcher{}
}

func (anyNumberMatcher) Match(actual any) error {
	switch actual.(type) {
	case json.Number, float64, int, int64:
		return nil
	}
	return fmt.Errorf("expected a number, got %s", describe(actual))
}

func (anyNumberMatcher) String() string { return "any number" }

type anyArrayMatcher struct{}

// AnyArray accepts any JSON array.
func AnyArray() Matcher {
	return anyArrayMatcher{}
}

func (anyArrayMatcher) Match(actual any) error {
	if _, ok := actual.([]any); !ok {
		return fmt.Errorf("expected an array, got %s", describe(actual))
	}
	return nil
}

func (anyArrayMatcher) String() string { return "any array" }

type emptyArrayMatcher struct{}

// EmptyArray requires exactly [].
func EmptyArray() Matcher {
	return emptyArrayMatcher{}
}

func (emptyArrayMatcher) Match(actual any) error {
	arr, ok := actual.([]any)
	if !ok {
		return fmt.Errorf("expected an empty array, got %s", describe(actual))
	}
	if len(arr) != 0 {
		return fmt.Errorf("expected an empty array, got %d elements", len(arr))
	}
	return nil
}

func (emptyArrayMatcher) String() string { return "empty array" }

type everyMatcher struct {
	field string
	value any
}

// Every requires an array whose elements all have field equal to value.
// An empty array passes.
func Every(field string, value any) Matcher {
	return everyMatcher{field: field, value: value}
}

func (m everyMatcher) Match(actual any) error {
	arr, ok := actual.([]any)
	if !ok {
		return fmt.Errorf("expected an array, got %s", describe(actual))
	}
	element := ObjectContaining(map[string]any{m.field: m.value})
	var errs []error
	for i, item := range arr {
		if err := element.Match(item); err != nil {
			errs = append(errs, fmt.Errorf("element %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (m everyMatcher) String() string {
	return fmt.Sprintf("every element has %q equal to %s", m.field, describe(m.value))
}

type allOfMatcher struct {
	matchers []Matcher
}

// AllOf requires every matcher to accept the body. Evaluation stops at the first failure.
func AllOf(matchers ...Matcher) Matcher {
	return allOfMatcher{matchers: matchers}
}

func (m allOfMatcher) Match(actual any) error {
	for _, matcher := range m.matchers {
		if err := matcher.Match(actual); err != nil {
			return err
		}
	}
	return nil
}

func (m allOfMatcher) String() string {
	parts := make([]string, 0, len(m.matchers))
	for _, matcher := range m.matchers {
		parts = append(parts, matcher.String())
	}
	return strings.Join(parts, " and ")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

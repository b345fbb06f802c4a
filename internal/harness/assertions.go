package harness

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string      // Assertion type for categorization
	Expected string      // Human-readable expected outcome
	Actual   string      // Human-readable actual outcome
	Trace    []StepTrace // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, step := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %v ok=%t\n", step.Step, step.Action, step.Args, step.OK)
			for _, r := range step.Requests {
				fmt.Fprintf(&buf, "      %s %s -> %d\n", r.Method, r.Path, r.Status)
			}
		}
	}
	return buf.String()
}

// AssertionContext provides live state for evaluating assertions.
type AssertionContext struct {
	// Requests counts recorded requests by method and path. An empty
	// method matches any.
	Requests func(method, path string) int

	// LoggedIn reports session presence after the flow.
	LoggedIn bool
}

func assertRequestCount(result *Result, a Assertion, actx *AssertionContext) error {
	got := actx.Requests(a.Method, a.Path)
	if got == a.Count {
		return nil
	}
	method := a.Method
	if method == "" {
		method = "*"
	}
	return &AssertionError{
		Type:     AssertRequestCount,
		Expected: fmt.Sprintf("%d requests to %s %s", a.Count, method, a.Path),
		Actual:   fmt.Sprintf("%d requests", got),
		Trace:    result.Trace,
	}
}

func assertCartTotal(result *Result, a Assertion) error {
	want, err := decimal.NewFromString(a.Total)
	if err != nil {
		return fmt.Errorf("cart_total: invalid total %q: %w", a.Total, err)
	}
	got, err := decimal.NewFromString(result.Cart.Total)
	if err != nil {
		return fmt.Errorf("cart_total: invalid cart total %q: %w", result.Cart.Total, err)
	}
	if want.Equal(got) {
		return nil
	}
	return &AssertionError{
		Type:     AssertCartTotal,
		Expected: "cart total " + want.String(),
		Actual:   "cart total " + got.String(),
		Trace:    result.Trace,
	}
}

func assertCount(result *Result, a Assertion, got int, what string) error {
	if got == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%s %d", what, a.Count),
		Actual:   fmt.Sprintf("%s %d", what, got),
		Trace:    result.Trace,
	}
}

func assertLoggedIn(result *Result, a Assertion, actx *AssertionContext) error {
	if *a.LoggedIn != actx.LoggedIn {
		return &AssertionError{
			Type:     AssertLoggedIn,
			Expected: fmt.Sprintf("logged_in=%t", *a.LoggedIn),
			Actual:   fmt.Sprintf("logged_in=%t", actx.LoggedIn),
			Trace:    result.Trace,
		}
	}
	if a.User != "" && a.User != result.User {
		return &AssertionError{
			Type:     AssertLoggedIn,
			Expected: fmt.Sprintf("user %q", a.User),
			Actual:   fmt.Sprintf("user %q", result.User),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertPage(result *Result, a Assertion) error {
	page, ok := result.Pages[a.Path]
	if !ok {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("page %s to have been rendered", a.Path),
			Actual:   "no navigate step for this path",
			Trace:    result.Trace,
		}
	}

	contains := strings.Contains(page, a.Text)
	want := a.Type == AssertPageContains
	if contains == want {
		return nil
	}
	expected := fmt.Sprintf("page %s to contain %q", a.Path, a.Text)
	if !want {
		expected = fmt.Sprintf("page %s not to contain %q", a.Path, a.Text)
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: expected,
		Actual:   "page:\n" + page,
	}
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, a := range assertions {
		var err error

		switch a.Type {
		case AssertRequestCount:
			if actx == nil || actx.Requests == nil {
				err = fmt.Errorf("assertion[%d]: request_count requires a request log", i)
			} else {
				err = assertRequestCount(result, a, actx)
			}
		case AssertCartTotal:
			err = assertCartTotal(result, a)
		case AssertItemCount:
			err = assertCount(result, a, result.Cart.ItemCount, "item count")
		case AssertLineCount:
			err = assertCount(result, a, result.Cart.Lines, "cart lines")
		case AssertLoggedIn:
			if actx == nil {
				err = fmt.Errorf("assertion[%d]: logged_in requires session context", i)
			} else {
				err = assertLoggedIn(result, a, actx)
			}
		case AssertPageContains, AssertPageNotContains:
			err = assertPage(result, a)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

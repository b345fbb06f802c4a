package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario defines one storefront flow and what must hold after it.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Setup seeds the fake API before the flow. Setup requests are not
	// traced or counted.
	Setup Setup `yaml:"setup,omitempty"`

	// Flow contains the steps to execute in order.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// Setup describes the fake API's initial state.
type Setup struct {
	// Catalog names a built-in catalog: "wildflower" or "" for none.
	Catalog string `yaml:"catalog,omitempty"`

	// FakeProducts adds generated products after the catalog.
	FakeProducts int `yaml:"fake_products,omitempty"`

	// Products adds explicit catalog rows.
	Products []ProductFixture `yaml:"products,omitempty"`

	// Users creates accounts.
	Users []UserFixture `yaml:"users,omitempty"`

	// Login starts a session before the flow.
	Login *Credentials `yaml:"login,omitempty"`
}

// ProductFixture is a catalog row.
type ProductFixture struct {
	ID          int64   `yaml:"id"`
	Name        string  `yaml:"name"`
	Price       float64 `yaml:"price"`
	Category    string  `yaml:"category,omitempty"`
	ImageURL    string  `yaml:"image_url,omitempty"`
	Description string  `yaml:"description,omitempty"`
}

// UserFixture is an account on the fake API.
type UserFixture struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Credentials log a user in.
type Credentials struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// FlowStep is one user action.
type FlowStep struct {
	// Action is one of the action names listed in the package docs.
	Action string `yaml:"action"`

	// Args holds the action arguments.
	Args map[string]any `yaml:"args,omitempty"`

	// Expect checks the action's Result. Nil skips the check.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected Result of a step.
type ExpectClause struct {
	// OK is the expected success flag. Nil skips the check.
	OK *bool `yaml:"ok,omitempty"`

	// Reason is the expected user-facing message. Empty skips the check.
	Reason string `yaml:"reason,omitempty"`
}

// Assertion validates state after the flow.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Method and Path select requests (request_count) or the page
	// (page_contains, page_not_contains; Path only).
	Method string `yaml:"method,omitempty"`
	Path   string `yaml:"path,omitempty"`

	// Count is the expected number for request_count, item_count and
	// line_count.
	Count int `yaml:"count,omitempty"`

	// Total is the expected cart total as a decimal string.
	Total string `yaml:"total,omitempty"`

	// Text is the expected page fragment.
	Text string `yaml:"text,omitempty"`

	// LoggedIn is the expected session presence for logged_in.
	LoggedIn *bool `yaml:"logged_in,omitempty"`

	// User is the expected user name for logged_in. Empty skips the check.
	User string `yaml:"user,omitempty"`
}

// Assertion type constants.
const (
	AssertRequestCount    = "request_count"
	AssertCartTotal       = "cart_total"
	AssertItemCount       = "item_count"
	AssertLineCount       = "line_count"
	AssertLoggedIn        = "logged_in"
	AssertPageContains    = "page_contains"
	AssertPageNotContains = "page_not_contains"
)

// Action names.
const (
	ActionLogin          = "login"
	ActionRegister       = "register"
	ActionLogout         = "logout"
	ActionRefreshProfile = "refresh_profile"
	ActionAdd            = "add"
	ActionUpdate         = "update"
	ActionRemove         = "remove"
	ActionClear          = "clear"
	ActionRefreshCart    = "refresh_cart"
	ActionCheckout       = "checkout"
	ActionNavigate       = "navigate"
	ActionAdvance        = "advance"
	ActionFailNext       = "fail_next"
	ActionResetRequests  = "reset_requests"
)

// requiredArgs lists the arguments each action cannot run without.
var requiredArgs = map[string][]string{
	ActionLogin:          {"email", "password"},
	ActionRegister:       {"name", "email", "password"},
	ActionLogout:         nil,
	ActionRefreshProfile: nil,
	ActionAdd:            {"product_id"},
	ActionUpdate:         {"product_id", "quantity"},
	ActionRemove:         {"product_id"},
	ActionClear:          nil,
	ActionRefreshCart:    nil,
	ActionCheckout:       nil,
	ActionNavigate:       {"path"},
	ActionAdvance:        {"duration"},
	ActionFailNext:       {"method", "path", "status"},
	ActionResetRequests:  nil,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	switch s.Setup.Catalog {
	case "", CatalogWildflower:
	default:
		return fmt.Errorf("setup.catalog: unknown catalog %q", s.Setup.Catalog)
	}
	if s.Setup.FakeProducts < 0 {
		return fmt.Errorf("setup.fake_products must be non-negative")
	}
	for i, u := range s.Setup.Users {
		if u.Email == "" || u.Password == "" {
			return fmt.Errorf("setup.users[%d]: email and password are required", i)
		}
	}

	for i, step := range s.Flow {
		required, ok := requiredArgs[step.Action]
		if !ok {
			return fmt.Errorf("flow[%d]: unknown action %q", i, step.Action)
		}
		for _, name := range required {
			if _, ok := step.Args[name]; !ok {
				return fmt.Errorf("flow[%d]: %s requires arg %q", i, step.Action, name)
			}
		}
		if step.Action == ActionAdvance {
			if _, err := time.ParseDuration(fmt.Sprint(step.Args["duration"])); err != nil {
				return fmt.Errorf("flow[%d]: invalid duration: %w", i, err)
			}
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertRequestCount:
		if a.Path == "" {
			return fmt.Errorf("assertions[%d]: path is required for request_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for request_count", index)
		}
	case AssertCartTotal:
		if a.Total == "" {
			return fmt.Errorf("assertions[%d]: total is required for cart_total", index)
		}
	case AssertItemCount, AssertLineCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertLoggedIn:
		if a.LoggedIn == nil {
			return fmt.Errorf("assertions[%d]: logged_in is required for logged_in", index)
		}
	case AssertPageContains, AssertPageNotContains:
		if a.Path == "" || a.Text == "" {
			return fmt.Errorf("assertions[%d]: path and text are required for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

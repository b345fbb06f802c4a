package harness

// RequestTrace is one API request made while a step ran.
type RequestTrace struct {
	Method    string `json:"method"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	RequestID string `json:"request_id"`
}

// StepTrace records one executed flow step.
type StepTrace struct {
	Step     int            `json:"step"`
	Action   string         `json:"action"`
	Args     map[string]any `json:"args,omitempty"`
	OK       bool           `json:"ok"`
	Reason   string         `json:"reason,omitempty"`
	Requests []RequestTrace `json:"requests"`
}

// CartSnapshot is the cart state after the flow.
type CartSnapshot struct {
	Lines     int    `json:"lines"`
	ItemCount int    `json:"item_count"`
	Total     string `json:"total"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace lists the flow steps in order. Setup is not traced.
	Trace []StepTrace `json:"trace"`

	// Errors contains expect and assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Cart is the final cart state.
	Cart CartSnapshot `json:"cart"`

	// User is the logged-in user's name after the flow, if any.
	User string `json:"user,omitempty"`

	// Pages maps each navigated path to its most recent render.
	Pages map[string]string `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:  true,
		Trace: []StepTrace{},
		Pages: make(map[string]string),
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

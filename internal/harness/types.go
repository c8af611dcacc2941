package harness

import "github.com/ptsim/truthcore/internal/ir"

// BatchResult records the outcome of appending one event batch.
type BatchResult struct {
	BatchIndex int
	Head       ir.Head
}

// Result is the outcome of running a scenario: every batch's resulting
// head, plus pass/fail state accumulated from assertion evaluation.
type Result struct {
	// Pass indicates overall scenario success. True if all materialize_at
	// blocks' assertions passed.
	Pass bool

	// Batches records the head produced by each appended batch, in order.
	Batches []BatchResult

	// Errors contains assertion failure and execution error messages.
	// Empty if Pass is true.
	Errors []string
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddBatch records the head produced by appending one batch.
func (r *Result) AddBatch(index int, head ir.Head) {
	r.Batches = append(r.Batches, BatchResult{BatchIndex: index, Head: head})
}

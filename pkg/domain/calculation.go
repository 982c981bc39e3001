package domain

// CalculationResult is the outcome of evaluating one calculated question.
// Value is nil whenever IsValid is false.
type CalculationResult struct {
	QuestionID     string   `json:"question_id"`
	Value          *float64 `json:"value"`
	IsValid        bool     `json:"is_valid"`
	IsWithinLimits bool     `json:"is_within_limits"`
	ErrorReason    string   `json:"error_reason,omitempty"`
}

// Number returns the computed value when the result is valid.
func (r CalculationResult) Number() (float64, bool) {
	if !r.IsValid || r.Value == nil {
		return 0, false
	}
	return *r.Value, true
}

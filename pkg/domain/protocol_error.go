package domain

// Severity grades a protocol error.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityCritical Severity = "critical"
)

// ProtocolError is a candidate error record emitted for bound violations.
// The engine only constructs these; the calling session owns and persists them.
type ProtocolError struct {
	ID          string   `json:"id"`
	QuestionID  string   `json:"question_id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Images      []string `json:"images"`
}

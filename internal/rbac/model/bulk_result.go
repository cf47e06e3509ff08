package model

// BulkTransitionResult represents the result of a bulk status change.
// Successes are never rolled back when other items fail.
type BulkTransitionResult struct {
	SuccessCount int              `json:"successCount"`
	FailedCount  int              `json:"failedCount"`
	Results      []BulkItemResult `json:"results"`
}

// BulkItemResult is the outcome for a single submission id.
type BulkItemResult struct {
	ID      string           `json:"id"`
	Success bool             `json:"success"`
	Status  SubmissionStatus `json:"status,omitempty"`
	Code    string           `json:"code,omitempty"`
	Reason  string           `json:"reason,omitempty"`
}

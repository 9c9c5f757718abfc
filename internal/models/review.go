package models

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// Review is a queued admin decision on one uploaded document.
type Review struct {
	ID          string       `json:"id"`
	ClientID    string       `json:"clientId"`
	Client      string       `json:"client"`
	DocumentID  string       `json:"documentId"`
	Title       string       `json:"title"`
	FileName    string       `json:"fileName"`
	Status      ReviewStatus `json:"status"`
	Note        string       `json:"note,omitempty"`
	SubmittedAt string       `json:"submittedAt"`
	DecidedAt   string       `json:"decidedAt,omitempty"`
}

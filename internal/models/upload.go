package models

type Status string

const (
	StatusNotUploaded      Status = "not-uploaded"
	StatusUploaded         Status = "uploaded"
	StatusUnderReview      Status = "under-review"
	StatusApproved         Status = "approved"
	StatusRequiresRevision Status = "requires-revision"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNotUploaded, StatusUploaded, StatusUnderReview, StatusApproved, StatusRequiresRevision:
		return true
	}
	return false
}

// Label is the human-readable status text.
func (s Status) Label() string {
	switch s {
	case StatusUploaded:
		return "Uploaded"
	case StatusUnderReview:
		return "Under Review"
	case StatusApproved:
		return "Approved"
	case StatusRequiresRevision:
		return "Requires Revision"
	default:
		return "Not Uploaded"
	}
}

// Class is the style class a checklist row uses for the status.
func (s Status) Class() string {
	if s.Valid() {
		return string(s)
	}
	return string(StatusNotUploaded)
}

// UploadRecord is the latest upload for one catalog document. Records are
// kept in a map keyed by document id.
type UploadRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	Type         string `json:"type"`
	UploadDate   string `json:"uploadDate"`
	LastModified int64  `json:"lastModified"`
	Status       Status `json:"status"`
	ClientID     string `json:"clientId"`
	LastUpdated  string `json:"lastUpdated"`
	BlobKey      string `json:"blobKey,omitempty"`
}

// LegacyFile is an entry of the per-category file list.
type LegacyFile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	Type         string `json:"type"`
	UploadedAt   string `json:"uploadedAt"`
	Status       Status `json:"status"`
	Category     string `json:"category"`
	ClientID     string `json:"clientId,omitempty"`
	LastModified int64  `json:"lastModified,omitempty"`
	BlobKey      string `json:"blobKey,omitempty"`
}

// GeneralCategory is the category of files dropped without one.
const GeneralCategory = "general"

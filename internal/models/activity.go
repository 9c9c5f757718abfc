package models

type ActivityType string

const (
	ActivityUpload     ActivityType = "upload"
	ActivityMessage    ActivityType = "message"
	ActivityApproval   ActivityType = "approval"
	ActivityRejection  ActivityType = "rejection"
	ActivityReview     ActivityType = "review"
	ActivitySubmission ActivityType = "submission"
)

// Icon names the icon shown next to an activity.
func (t ActivityType) Icon() string {
	switch t {
	case ActivityUpload:
		return "file-upload"
	case ActivityMessage:
		return "comment"
	case ActivityApproval:
		return "check"
	case ActivityRejection:
		return "times"
	case ActivityReview:
		return "eye"
	case ActivitySubmission:
		return "paper-plane"
	default:
		return "info-circle"
	}
}

type Activity struct {
	Type      ActivityType `json:"type"`
	Message   string       `json:"message"`
	Timestamp string       `json:"timestamp"`
}

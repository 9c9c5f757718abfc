package models

// Application tracks one client's visa application for the admin view.
type Application struct {
	ID        string `json:"id"`
	ClientID  string `json:"clientId"`
	Client    string `json:"client"`
	Country   string `json:"country"`
	VisaType  string `json:"visaType"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Application statuses, in the order an application moves through them.
// Approved and Rejected are both final.
const (
	AppDocumentCollection = "Document Collection"
	AppInReview           = "In Review"
	AppReadyForSubmission = "Ready for Submission"
	AppSubmitted          = "Submitted"
	AppApproved           = "Approved"
	AppRejected           = "Rejected"
)

type stage struct {
	status      string
	title       string
	description string
	nextStep    string
}

var stages = []stage{
	{AppDocumentCollection, "Document Collection", "Gather and upload the required documents", "Upload Documents"},
	{AppInReview, "Document Review", "The legal team is reviewing your documents", "Await Review"},
	{AppReadyForSubmission, "Ready for Submission", "Your application is ready to be lodged", "Submit Application"},
	{AppSubmitted, "Application Submitted", "Lodged with the immigration authority", "Await Decision"},
	{"", "Decision", "The outcome of your application", ""},
}

func stageIndex(status string) int {
	switch status {
	case AppApproved, AppRejected:
		return len(stages)
	}
	for i, st := range stages {
		if st.status != "" && st.status == status {
			return i
		}
	}
	return -1
}

// ValidApplicationStatus reports whether s is a known application status.
func ValidApplicationStatus(s string) bool {
	return stageIndex(s) >= 0
}

// NextStep is the next step shown to a client whose application is in
// status.
func NextStep(status string) string {
	i := stageIndex(status)
	switch {
	case i < 0:
		return DefaultApplicationStatus().NextStep
	case i >= len(stages):
		return "None"
	}
	return stages[i].nextStep
}

// BuildTimeline derives the client timeline from an application status:
// earlier stages are completed, the current one is active.
func BuildTimeline(status string) []TimelineItem {
	cur := stageIndex(status)
	items := make([]TimelineItem, 0, len(stages))
	for i, st := range stages {
		item := TimelineItem{Title: st.title, Description: st.description, Status: TimelinePending}
		switch {
		case i < cur:
			item.Status = TimelineCompleted
		case i == cur:
			item.Status = TimelineActive
		}
		if i == len(stages)-1 && cur >= len(stages) {
			item.Description = "Application " + status
		}
		items = append(items, item)
	}
	return items
}

// ApplicationStatus is the summary shown on the client dashboard.
type ApplicationStatus struct {
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	NextStep string `json:"nextStep"`
}

func DefaultApplicationStatus() ApplicationStatus {
	return ApplicationStatus{Status: "Not Started", Progress: 0, NextStep: "Upload Documents"}
}

const (
	TimelineCompleted = "completed"
	TimelineActive    = "active"
	TimelinePending   = "pending"
)

type TimelineItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// TimelineIcon names the marker icon for a timeline item status.
func TimelineIcon(status string) string {
	switch status {
	case TimelineCompleted:
		return "check"
	case TimelineActive:
		return "clock"
	default:
		return "circle"
	}
}

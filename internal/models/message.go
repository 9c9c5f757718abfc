package models

const (
	MessageSent     = "sent"
	MessageReceived = "received"
)

// Message is one entry of a client thread. Type is relative to the client.
type Message struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
}

// AdminMessage is a message the legal team sent to a client.
type AdminMessage struct {
	ID        string `json:"id"`
	ClientID  string `json:"clientId"`
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Communication summarizes one client thread for the admin overview.
type Communication struct {
	ClientID    string `json:"clientId"`
	Client      string `json:"client"`
	LastMessage string `json:"lastMessage"`
	LastSender  string `json:"lastSender"`
	Timestamp   string `json:"timestamp"`
	Unread      int    `json:"unread"`
}

type ContactMessage struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

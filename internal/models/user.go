package models

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// User is the record cached as currentUser in a session.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	AccountType string `json:"accountType"`
	CreatedAt   string `json:"createdAt"`
}

// StoredUser is an entry of the users list.
type StoredUser struct {
	User
	PasswordHash string `json:"passwordHash"`
}

package models

// User owns zero or more tasks. ID is the stable identity key every
// persistence call is scoped by; tasks never move between users.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

package entity

import "time"

// Session is the identity of a logged-in user. It is created at login or
// registration and removed at logout; everything in between receives it
// explicitly.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CanAccessUser reports whether the session may read or modify data owned by
// userID.
func (s *Session) CanAccessUser(userID string) bool {
	return s != nil && (s.IsAdmin || s.UserID == userID)
}

package models

import "time"

// Session is a logged-in client session. One copy lives in the volatile
// per-process store and is lost when the process ends; when the user asks to
// be remembered, an identical copy is persisted durably and survives
// restarts, subject to the same TTL check.
type Session struct {
	// UserID references the owning user record. The reference is weak:
	// deleting a user does not cascade into sessions.
	UserID int64 `json:"user_id"`

	// Token is the signed session token. Its issued-at claim is the
	// authoritative creation time for TTL checks.
	Token string `json:"token"`

	// CreatedAt mirrors the token's issued-at instant.
	CreatedAt time.Time `json:"created_at"`

	// UserAgent is the client-identifying string captured at login.
	UserAgent string `json:"user_agent"`
}

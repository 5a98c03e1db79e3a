package model

import "time"

// SessionData contains the data stored with a session token.
type SessionData struct {
	TenantID  string    `json:"tenant_id"`
	Email     string    `json:"email"`
	StoreName string    `json:"store_name"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

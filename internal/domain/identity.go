package domain

import "time"

// Identity is the locally authoritative account row owned by the auth
// service. Other services never see this type directly; they work with
// RemoteIdentity values resolved through introspection.
type Identity struct {
	ID           int64
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
}

// RemoteIdentity is a caller identity resolved from another service's
// introspection response. It is remote-resolved, not locally authoritative:
// a plain immutable value built from the remote JSON payload, never backed
// by a local row.
type RemoteIdentity struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Active    bool   `json:"active"`
}

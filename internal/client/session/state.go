package session

import "github.com/dmitrijs2005/furnistore/internal/client/models"

// State is the lifecycle position of the session store.
type State int

const (
	StateLoading State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "loading"
	}
}

// Snapshot is an immutable copy of the session at one instant. Role flags are
// derived from User on every call and never stored.
type Snapshot struct {
	State    State
	User     *models.User
	HasToken bool
}

func (s Snapshot) Loading() bool {
	return s.State == StateLoading
}

func (s Snapshot) IsAuthenticated() bool {
	return s.State == StateAuthenticated && s.User != nil && s.HasToken
}

func (s Snapshot) role() models.Role {
	if !s.IsAuthenticated() {
		return ""
	}
	return s.User.Role
}

func (s Snapshot) IsAdmin() bool {
	return s.role() == models.RoleAdmin
}

// IsStaff is true for staff and for admins.
func (s Snapshot) IsStaff() bool {
	r := s.role()
	return r == models.RoleAdmin || r == models.RoleStaff
}

func (s Snapshot) IsCustomer() bool {
	return s.role() == models.RoleCustomer
}

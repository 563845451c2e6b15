package server

import (
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/profile-optimizer/internal/server/middleware"
)

// AdminPolicy decides which callers may read every user's reports.
type AdminPolicy struct {
	emails map[string]bool
}

// NewAdminPolicy builds a policy from an email allowlist. Matching ignores case and surrounding space.
func NewAdminPolicy(emails []string) *AdminPolicy {
	set := make(map[string]bool, len(emails))
	for _, email := range emails {
		if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
			set[email] = true
		}
	}
	return &AdminPolicy{emails: set}
}

// IsAdmin reports whether the caller is on the allowlist.
func (a *AdminPolicy) IsAdmin(p middleware.Principal) bool {
	if a == nil || p.Email == "" {
		return false
	}
	return a.emails[strings.ToLower(strings.TrimSpace(p.Email))]
}

// CanAccess reports whether the caller may read or change a resource owned by owner.
func (a *AdminPolicy) CanAccess(p middleware.Principal, owner uuid.UUID) bool {
	return p.UserID == owner || a.IsAdmin(p)
}

// ListScope returns the user filter for a listing: nil (everyone) for admins, else the caller.
func (a *AdminPolicy) ListScope(p middleware.Principal) *uuid.UUID {
	if a.IsAdmin(p) {
		return nil
	}
	id := p.UserID
	return &id
}

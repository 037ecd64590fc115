package access

import "strings"

// AdminRole is the role-claim value that grants admin capability.
const AdminRole = "admin"

// Caller is the pre-validated identity attached to a request. The upstream
// gateway authenticates; this service only authorizes.
type Caller struct {
	ID    string
	Roles []string
}

// HasRole reports whether the caller carries the given role claim.
func (c Caller) HasRole(role string) bool {
	for _, r := range c.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// AdminSet is the externally configured set of privileged caller ids. It is
// injected into services at construction so there is no global mutable state.
type AdminSet struct {
	ids map[string]struct{}
}

func NewAdminSet(ids []string) *AdminSet {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return &AdminSet{ids: set}
}

// IsAdmin reports whether the caller is privileged, either through the
// configured id set or through a pre-validated admin role claim.
func (s *AdminSet) IsAdmin(caller Caller) bool {
	if caller.HasRole(AdminRole) {
		return true
	}
	_, ok := s.ids[caller.ID]
	return ok
}

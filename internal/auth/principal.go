package auth

import (
	"storefront/internal/errors"
	"storefront/internal/model"
)

// Principal is the request-scoped identity established by a session lookup.
type Principal struct {
	UserID   uint       `json:"user_id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

// PrincipalFor builds the principal of a user.
func PrincipalFor(user *model.User) Principal {
	return Principal{UserID: user.ID, Username: user.Username, Role: user.Role}
}

// HasRole reports whether the principal holds one of roles.
func (p *Principal) HasRole(roles ...model.Role) bool {
	if p == nil {
		return false
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// RequireRole is the access gate for role-restricted operations.
func RequireRole(p *Principal, roles ...model.Role) error {
	if p == nil {
		return errors.ErrNotAuthenticated
	}
	if !p.HasRole(roles...) {
		return errors.ErrUnauthorized
	}
	return nil
}

// CanManage reports whether the principal may edit or delete product.
func (p *Principal) CanManage(product *model.Product) bool {
	if p == nil {
		return false
	}
	return p.Role == model.RoleAdmin || product.OwnedBy(p.UserID)
}

package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/idrefz/deltaboard/pkg/util/errorutil"
)

// Role gates what a dashboard principal may do. Operators upload new
// snapshots; viewers only read.
type Role string

const (
	RoleOperator Role = "operator"
	RoleViewer   Role = "viewer"
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	return r == RoleOperator || r == RoleViewer
}

// RequireRole returns middleware enforcing that the authenticated
// principal holds one of the given roles.
func RequireRole(roles ...Role) fiber.Handler {
	allowed := make(map[Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if _, ok := allowed[principal.Role]; !ok {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

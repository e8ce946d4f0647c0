// Package guard holds the route authorization decision. Decide is pure:
// the outcome depends only on the current user and the route's requirement,
// which keeps every navigation rule unit-testable.
package guard

import "github.com/uhiportal/doctor-portal-api/internal/models"

// Requirement is what a route demands of the visitor.
type Requirement int

const (
	Public Requirement = iota
	Authenticated
	AdminOnly
)

const (
	SignInPath = "/signin"
	HomePath   = "/"
)

// Decision either allows navigation or names the redirect target.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Decide maps (current user, requirement) to a decision. A nil user means
// signed out.
func Decide(user *models.SessionUser, req Requirement) Decision {
	switch req {
	case Authenticated:
		if user == nil {
			return Decision{RedirectTo: SignInPath}
		}
		return Decision{Allow: true}
	case AdminOnly:
		if user == nil || user.Role != models.RoleAdmin {
			return Decision{RedirectTo: HomePath}
		}
		return Decision{Allow: true}
	default:
		return Decision{Allow: true}
	}
}

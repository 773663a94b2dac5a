// Package guard derives navigation permission from session state and a
// route's declared role requirement. It is a pure function of its inputs so
// the policy is testable without any presentation layer.
package guard

import (
	"slices"

	"github.com/healthbridge/wellness-client/internal/domain"
	"github.com/healthbridge/wellness-client/internal/session"
)

// Well-known navigation targets.
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// DecisionKind classifies a guard outcome.
type DecisionKind int

const (
	// Pending means the session is still resolving; the caller must not
	// treat this as a denial.
	Pending DecisionKind = iota
	Allow
	Redirect
)

// Decision is the guard's verdict. Target is set only for Redirect.
type Decision struct {
	Kind   DecisionKind
	Target string
}

// Evaluate decides whether navigation may proceed. A signed-in user who
// lacks a required role is sent to the authenticated landing page, never
// back to login: the user is valid, just not authorized for the view.
func Evaluate(state session.State, user *domain.UserIdentity, required []domain.Role) Decision {
	switch state {
	case session.StateRestoring, session.StateAuthenticating:
		return Decision{Kind: Pending}
	}

	if state != session.StateAuthenticated || user == nil {
		return Decision{Kind: Redirect, Target: LoginPath}
	}

	if len(required) > 0 && !slices.Contains(required, user.Role) {
		return Decision{Kind: Redirect, Target: DashboardPath}
	}

	return Decision{Kind: Allow}
}

package auth

import (
	"github.com/mukwano/agrotrack/internal/domain/errs"
	"github.com/mukwano/agrotrack/internal/domain/models"
)

// RequireRole fails with Unauthorized unless the caller holds one of the
// allowed roles.
func RequireRole(caller models.Caller, allowed ...models.Role) error {
	for _, role := range allowed {
		if caller.Role == role {
			return nil
		}
	}
	return errs.Unauthorized("role %s may not perform this operation", caller.Role)
}

// ResolveScope resolves the branch an operation applies to. Branch-bound
// callers (Manager, Sales Agent) always act on their assigned branch; any
// requested branch is ignored. A Director carries no branch and must name
// one explicitly.
func ResolveScope(caller models.Caller, requestedBranch string) (models.Branch, error) {
	if caller.Role == models.RoleDirector {
		if requestedBranch == "" {
			return "", errs.InvalidInput("branch is required")
		}
		branch, ok := models.ParseBranch(requestedBranch)
		if !ok {
			return "", errs.InvalidInput("unknown branch %q", requestedBranch)
		}
		return branch, nil
	}

	if caller.Branch == nil {
		return "", errs.InvalidInput("branch is required")
	}
	return *caller.Branch, nil
}

// OptionalScope resolves the branch filter for read endpoints: branch-bound
// callers are pinned to their branch, a Director sees everything unless a
// branch is requested. nil means no branch filter.
func OptionalScope(caller models.Caller, requestedBranch string) (*models.Branch, error) {
	if caller.Role == models.RoleDirector {
		if requestedBranch == "" {
			return nil, nil
		}
		branch, ok := models.ParseBranch(requestedBranch)
		if !ok {
			return nil, errs.InvalidInput("unknown branch %q", requestedBranch)
		}
		return &branch, nil
	}

	if caller.Branch == nil {
		return nil, errs.InvalidInput("branch is required")
	}
	return caller.Branch, nil
}

// Package auth decides which role-scoped views a signed-in user may read.
package auth

import (
	"github.com/kyra/interntrack/internal/app/models"
	"github.com/kyra/interntrack/internal/pkg/apperrors"
)

// ViewPolicy maps a viewer role to the extra roles whose metrics and reports it may read.
// Every viewer may always read its own role and the Student role.
type ViewPolicy struct {
	extra map[models.Role][]models.Role
}

// DefaultViewPolicy lets Government read every role and College read MSME and Mentor activity
func DefaultViewPolicy() *ViewPolicy {
	return &ViewPolicy{
		extra: map[models.Role][]models.Role{
			models.RoleGovernment: models.Roles,
			models.RoleCollege:    {models.RoleMSME, models.RoleMentor},
		},
	}
}

// CanView reports whether viewer may read target-scoped data
func (p *ViewPolicy) CanView(viewer, target models.Role) bool {
	if !viewer.Valid() || !target.Valid() {
		return false
	}
	if target == viewer || target == models.RoleStudent {
		return true
	}
	for _, r := range p.extra[viewer] {
		if r == target {
			return true
		}
	}
	return false
}

// ValidateView returns apperrors.ErrPermissionDenied when viewer may not read target
func (p *ViewPolicy) ValidateView(viewer, target models.Role) error {
	if !p.CanView(viewer, target) {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// Visible lists the roles viewer may read, in models.Roles order
func (p *ViewPolicy) Visible(viewer models.Role) []models.Role {
	var roles []models.Role
	for _, r := range models.Roles {
		if p.CanView(viewer, r) {
			roles = append(roles, r)
		}
	}
	return roles
}

package models

import "github.com/SethRoll3/AcercateSys-sub001/internal/pkg/consts"

// Actor is the resolved identity attached to an authenticated request.
// Identity resolution itself happens upstream; the engine only consumes
// the (email, role) decision.
type Actor struct {
	Email string
	Role  string
}

// KnownRole reports whether the role belongs to the closed enumeration.
func (a Actor) KnownRole() bool {
	switch a.Role {
	case consts.RoleAdmin, consts.RoleAdvisor, consts.RoleClient:
		return true
	}
	return false
}

package payments

import (
	"context"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/apperrors"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/consts"
	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/models"
	dbmodels "github.com/SethRoll3/AcercateSys-sub001/internal/pkg/store/models"
	"github.com/SethRoll3/AcercateSys-sub001/internal/service/interfaces"
)

// Actions on the payment resource.
const (
	ActionCreate = "create"
	ActionEdit   = "edit"
	ActionReview = "review"
)

// authzRules is the closed (role, action) permission table for the
// payment resource. Rows absent from the table are denied. Allowed rows
// may still be narrowed by an ownership check.
var authzRules = map[string]map[string]bool{
	consts.RoleAdmin: {
		ActionCreate: true,
		ActionEdit:   true,
		ActionReview: true,
	},
	consts.RoleAdvisor: {
		ActionCreate: true,
		ActionEdit:   true,
		ActionReview: true,
	},
	consts.RoleClient: {
		ActionCreate: true,
		ActionEdit:   true,
	},
}

// Authorizer evaluates role and ownership rules before any payment
// mutation. Authorization failures are distinguished from not-found so a
// denied caller learns nothing about the record's existence.
type Authorizer struct {
	clients interfaces.ClientRepositoryInterface
}

func NewAuthorizer(clients interfaces.ClientRepositoryInterface) *Authorizer {
	return &Authorizer{clients: clients}
}

// Authorize checks the actor against the rules table and, for non-admin
// roles, verifies ownership of the target loan: clients may only act on
// their own loans, advisors only on loans of clients assigned to them.
func (a *Authorizer) Authorize(ctx context.Context, actor models.Actor, action string, loan *dbmodels.Loan) error {
	if !actor.KnownRole() {
		return apperrors.Forbidden("unknown role")
	}

	allowed, ok := authzRules[actor.Role]
	if !ok || !allowed[action] {
		return apperrors.Forbidden("action not permitted for role")
	}

	switch actor.Role {
	case consts.RoleAdmin:
		return nil
	case consts.RoleClient:
		if loan.ClientEmail != actor.Email {
			return apperrors.Forbidden("payment does not belong to caller")
		}
		return nil
	case consts.RoleAdvisor:
		return a.authorizeAdvisor(ctx, actor, loan)
	}
	return apperrors.Forbidden("action not permitted")
}

func (a *Authorizer) authorizeAdvisor(ctx context.Context, actor models.Actor, loan *dbmodels.Loan) error {
	if loan.AdvisorEmail == actor.Email {
		return nil
	}

	// Assignment may live on the client record rather than the loan.
	if loan.ClientEmail != "" {
		client, err := a.clients.GetClientByEmail(ctx, loan.ClientEmail)
		if err == nil && client.AdvisorEmail == actor.Email {
			return nil
		}
	}
	return apperrors.Forbidden("client is not assigned to caller")
}

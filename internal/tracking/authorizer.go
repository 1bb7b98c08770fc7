package tracking

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Kaouthar-hr/Move2See-Project/internal/fault"
	"github.com/Kaouthar-hr/Move2See-Project/tourdb"
)

// Actor identifies the caller submitting traces. Elevated actors are
// admitted to any route regardless of who scheduled it.
type Actor struct {
	OperatorID string
	Elevated   bool
}

// Authorizer decides whether an operator may submit traces for a route.
type Authorizer interface {
	CanOperateRoute(ctx context.Context, operatorID, routeID string) (bool, error)
}

// OwnerAuthorizer allows only the operator that scheduled the route.
type OwnerAuthorizer struct {
	db *tourdb.Client
}

func NewOwnerAuthorizer(db *tourdb.Client) *OwnerAuthorizer {
	return &OwnerAuthorizer{db: db}
}

func (a *OwnerAuthorizer) CanOperateRoute(ctx context.Context, operatorID, routeID string) (bool, error) {
	if operatorID == "" {
		return false, nil
	}
	route, err := a.db.Queries.GetRoute(ctx, routeID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fault.New(fault.KindNotFound, "route not found")
	} else if err != nil {
		return false, fault.Wrap(fault.KindInternal, "loading route", err)
	}
	return route.OperatorID == operatorID, nil
}

// AllowAllAuthorizer accepts any operator. Used in tests and trusted
// deployments where an upstream gateway already checked identity.
type AllowAllAuthorizer struct{}

func (AllowAllAuthorizer) CanOperateRoute(context.Context, string, string) (bool, error) {
	return true, nil
}

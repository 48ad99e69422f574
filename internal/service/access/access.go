package access

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/flockreport/internal/domain/models"
)

// ErrNoPrincipal is returned when the context carries no authenticated caller.
var ErrNoPrincipal = errors.New("access: no principal in context")

// AssignmentStore lists the farms a user has been assigned to.
type AssignmentStore interface {
	FarmIDsForUser(ctx context.Context, userID int64) ([]int64, error)
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom extracts the principal stored by WithPrincipal.
func PrincipalFrom(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(models.Principal)
	return p, ok
}

// SystemPrincipal is the admin identity used by scheduled jobs.
func SystemPrincipal() models.Principal {
	return models.Principal{Role: models.RoleAdmin}
}

// Resolver maps the caller on a context to the farms it may read.
type Resolver struct {
	store  AssignmentStore
	logger *zap.Logger
}

// NewResolver wires a resolver backed by the farm-assignment store.
func NewResolver(store AssignmentStore, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{store: store, logger: logger}
}

// ResolveScope returns every farm for admins and the assigned farms otherwise.
func (r *Resolver) ResolveScope(ctx context.Context) (models.FarmScope, error) {
	p, ok := PrincipalFrom(ctx)
	if !ok {
		return models.FarmScope{}, ErrNoPrincipal
	}
	if p.IsAdmin() {
		return models.FarmScope{All: true}, nil
	}

	ids, err := r.store.FarmIDsForUser(ctx, p.UserID)
	if err != nil {
		return models.FarmScope{}, fmt.Errorf("load farm assignments: %w", err)
	}

	r.logger.Debug("farm scope resolved", zap.Int64("user_id", p.UserID), zap.Int("farms", len(ids)))
	return models.FarmScope{FarmIDs: ids}, nil
}

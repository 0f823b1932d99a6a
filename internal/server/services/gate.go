package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/userdir/internal/common"
	"github.com/dmitrijs2005/userdir/internal/server/auth"
	"github.com/dmitrijs2005/userdir/internal/server/config"
	"github.com/dmitrijs2005/userdir/internal/server/models"
	"github.com/dmitrijs2005/userdir/internal/server/repositories/repomanager"
)

// Gate is the access-control check run ahead of protected operations. It is
// state-free per request: it verifies the bearer token and evaluates a role
// or ownership predicate against the caller's stored User record. The role
// is not embedded in the token claims, so role predicates cost one lookup.
type Gate struct {
	db        *sql.DB
	repos     repomanager.RepositoryManager
	jwtSecret []byte
}

func NewGate(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *Gate {
	return &Gate{db: db, repos: m, jwtSecret: []byte(cfg.SecretKey)}
}

// Authenticate resolves claims from a bearer token. Invalid and expired
// tokens both surface as unauthenticated; the underlying kind stays in the
// error chain for callers that care.
func (g *Gate) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := auth.ParseToken(token, g.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthorized, err)
	}
	return claims, nil
}

// RequireRole rejects with a forbidden failure unless the caller's resolved
// role is in the allow-list.
func (g *Gate) RequireRole(ctx context.Context, claims *auth.Claims, roles ...string) error {
	role, err := g.resolveRole(ctx, claims)
	if err != nil {
		return err
	}

	if !slices.Contains(roles, role) {
		return fmt.Errorf("%w: access denied", common.ErrForbidden)
	}
	return nil
}

// RequireSelfOrAdmin authorizes the caller when it owns the resource (its id
// equals the resource id) or when it is an admin. Ownership needs no lookup;
// the id is already in the token.
func (g *Gate) RequireSelfOrAdmin(ctx context.Context, claims *auth.Claims, resourceID int64) error {
	if claims.UserID == resourceID {
		return nil
	}

	role, err := g.resolveRole(ctx, claims)
	if err != nil {
		return err
	}
	if role != models.RoleAdmin {
		return fmt.Errorf("%w: access denied", common.ErrForbidden)
	}
	return nil
}

// resolveRole looks the caller up by id. A token for a user that no longer
// exists is treated as unauthenticated, not forbidden.
func (g *Gate) resolveRole(ctx context.Context, claims *auth.Claims) (string, error) {
	user, err := g.repos.Users(g.db).GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", fmt.Errorf("%w: unknown identity", common.ErrUnauthorized)
		}
		return "", err
	}
	return user.Role, nil
}

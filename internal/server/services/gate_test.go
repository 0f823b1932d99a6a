package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/userdir/internal/common"
	"github.com/dmitrijs2005/userdir/internal/server/auth"
	"github.com/dmitrijs2005/userdir/internal/server/config"
	"github.com/dmitrijs2005/userdir/internal/server/models"
	"github.com/dmitrijs2005/userdir/internal/server/repositories/repomanager"
)

func newGateWithMock(t *testing.T) (*Gate, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	cfg := &config.Config{SecretKey: "test-key", TokenValidityDuration: time.Hour}
	return NewGate(db, repomanager.NewPostgresRepositoryManager(), cfg), mock, db
}

func roleRow(id int64, role string) *sqlmock.Rows {
	return sqlmock.NewRows(userRowColumns).
		AddRow(id, "Bob", "bob1", "bob@x.com", nil, nil, role,
			nil, nil, nil, nil, nil,
			nil, nil, nil,
			nil, nil, nil, nil)
}

func TestAuthenticate_ValidToken(t *testing.T) {
	g, mock, db := newGateWithMock(t)
	defer db.Close()

	token, err := auth.GenerateToken(7, "ann1", []byte("test-key"), time.Hour)
	require.NoError(t, err)

	claims, err := g.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "ann1", claims.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthenticate_BadToken(t *testing.T) {
	g, _, db := newGateWithMock(t)
	defer db.Close()

	_, err := g.Authenticate(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	g, _, db := newGateWithMock(t)
	defer db.Close()

	token, err := auth.GenerateToken(7, "ann1", []byte("test-key"), -time.Minute)
	require.NoError(t, err)

	_, err = g.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestRequireRole_Allows(t *testing.T) {
	g, mock, db := newGateWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qJoinedByID).WithArgs(int64(7)).WillReturnRows(roleRow(7, models.RoleAdmin))

	err := g.RequireRole(context.Background(), &auth.Claims{UserID: 7}, models.RoleAdmin)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequireRole_Forbids(t *testing.T) {
	g, mock, db := newGateWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qJoinedByID).WithArgs(int64(7)).WillReturnRows(roleRow(7, models.RoleUser))

	err := g.RequireRole(context.Background(), &auth.Claims{UserID: 7}, models.RoleAdmin)
	assert.ErrorIs(t, err, common.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequireRole_UnknownIdentity(t *testing.T) {
	g, mock, db := newGateWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qJoinedByID).WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)

	err := g.RequireRole(context.Background(), &auth.Claims{UserID: 99}, models.RoleAdmin)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequireSelfOrAdmin_SelfSkipsLookup(t *testing.T) {
	g, mock, db := newGateWithMock(t)
	defer db.Close()

	err := g.RequireSelfOrAdmin(context.Background(), &auth.Claims{UserID: 7}, 7)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequireSelfOrAdmin_AdminMayReadOthers(t *testing.T) {
	g, mock, db := newGateWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qJoinedByID).WithArgs(int64(1)).WillReturnRows(roleRow(1, models.RoleAdmin))

	err := g.RequireSelfOrAdmin(context.Background(), &auth.Claims{UserID: 1}, 7)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequireSelfOrAdmin_OtherUserForbidden(t *testing.T) {
	g, mock, db := newGateWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qJoinedByID).WithArgs(int64(2)).WillReturnRows(roleRow(2, models.RoleUser))

	err := g.RequireSelfOrAdmin(context.Background(), &auth.Claims{UserID: 2}, 7)
	assert.ErrorIs(t, err, common.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

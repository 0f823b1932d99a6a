package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/userdir/internal/common"
	"github.com/dmitrijs2005/userdir/internal/logging"
	"github.com/dmitrijs2005/userdir/internal/server/auth"
	"github.com/dmitrijs2005/userdir/internal/server/models"
)

// fakeDirectory satisfies UserDirectory with canned responses per method.
type fakeDirectory struct {
	users    []*models.User
	user     *models.User
	token    string
	err      error
	lastIn   any
	lastID   int64
	deleted  []int64
}

func (f *fakeDirectory) GetAll(ctx context.Context) ([]*models.User, error) {
	return f.users, f.err
}

func (f *fakeDirectory) GetByID(ctx context.Context, id int64) (*models.User, error) {
	f.lastID = id
	return f.user, f.err
}

func (f *fakeDirectory) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return f.user, f.err
}

func (f *fakeDirectory) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.user, f.err
}

func (f *fakeDirectory) Create(ctx context.Context, in *models.CreateUserInput) (*models.User, error) {
	f.lastIn = in
	return f.user, f.err
}

func (f *fakeDirectory) Update(ctx context.Context, id int64, in *models.UpdateUserInput) (*models.User, error) {
	f.lastID = id
	f.lastIn = in
	return f.user, f.err
}

func (f *fakeDirectory) Delete(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeDirectory) Register(ctx context.Context, in *models.CreateUserInput) (*models.User, string, error) {
	f.lastIn = in
	return f.user, f.token, f.err
}

func (f *fakeDirectory) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	return f.user, f.token, f.err
}

// fakeGate authenticates any bearer token as the configured claims and
// answers predicates with fixed errors.
type fakeGate struct {
	claims  *auth.Claims
	authErr error
	roleErr error
	selfErr error
}

func (f *fakeGate) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.claims, nil
}

func (f *fakeGate) RequireRole(ctx context.Context, claims *auth.Claims, roles ...string) error {
	return f.roleErr
}

func (f *fakeGate) RequireSelfOrAdmin(ctx context.Context, claims *auth.Claims, resourceID int64) error {
	return f.selfErr
}

func newTestServer(dir *fakeDirectory, gate *fakeGate) *Server {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewServer(":0", logger, dir, gate)
}

func doRequest(s *Server, method, target, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.newEcho().ServeHTTP(rec, req)
	return rec
}

func TestRegister_Created(t *testing.T) {
	dir := &fakeDirectory{
		user:  &models.User{ID: 7, Name: "Ann", Username: "ann1", Email: "ann@x.com"},
		token: "tok123",
	}
	s := newTestServer(dir, &fakeGate{})

	body := `{"name":"Ann","username":"ann1","email":"ann@x.com","password":"Secur3!ty"}`
	rec := doRequest(s, http.MethodPost, "/api/auth/register", body, "")

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "User registered successfully", resp.Message)
	assert.Equal(t, "tok123", resp.Token)
	assert.Equal(t, int64(7), resp.User.ID)
}

func TestRegister_MissingName(t *testing.T) {
	s := newTestServer(&fakeDirectory{}, &fakeGate{})

	body := `{"username":"ann1","email":"ann@x.com","password":"Secur3!ty"}`
	rec := doRequest(s, http.MethodPost, "/api/auth/register", body, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_InvalidEmail(t *testing.T) {
	s := newTestServer(&fakeDirectory{}, &fakeGate{})

	body := `{"name":"Ann","username":"ann1","email":"not-an-email","password":"Secur3!ty"}`
	rec := doRequest(s, http.MethodPost, "/api/auth/register", body, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_OK(t *testing.T) {
	dir := &fakeDirectory{
		user:  &models.User{ID: 7, Username: "ann1"},
		token: "tok123",
	}
	s := newTestServer(dir, &fakeGate{})

	body := `{"email":"ann@x.com","password":"Secur3!ty"}`
	rec := doRequest(s, http.MethodPost, "/api/auth/login", body, "")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Login successful", resp.Message)
	assert.Equal(t, "tok123", resp.Token)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	dir := &fakeDirectory{err: fmt.Errorf("%w: invalid credentials", common.ErrUnauthorized)}
	s := newTestServer(dir, &fakeGate{})

	body := `{"email":"ann@x.com","password":"wrong"}`
	rec := doRequest(s, http.MethodPost, "/api/auth/login", body, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_MissingFields(t *testing.T) {
	s := newTestServer(&fakeDirectory{}, &fakeGate{})

	rec := doRequest(s, http.MethodPost, "/api/auth/login", `{"email":"ann@x.com"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListUsers_RequiresToken(t *testing.T) {
	gate := &fakeGate{authErr: fmt.Errorf("%w: %w", common.ErrUnauthorized, common.ErrInvalidToken)}
	s := newTestServer(&fakeDirectory{}, gate)

	rec := doRequest(s, http.MethodGet, "/api/users", "", "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListUsers_OK(t *testing.T) {
	dir := &fakeDirectory{users: []*models.User{{ID: 1, Username: "a"}, {ID: 2, Username: "b"}}}
	gate := &fakeGate{claims: &auth.Claims{UserID: 1}}
	s := newTestServer(dir, gate)

	rec := doRequest(s, http.MethodGet, "/api/users", "", "tok")
	require.Equal(t, http.StatusOK, rec.Code)

	var users []*models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 2)
}

func TestGetUserByID_Forbidden(t *testing.T) {
	gate := &fakeGate{
		claims:  &auth.Claims{UserID: 2},
		selfErr: fmt.Errorf("%w: access denied", common.ErrForbidden),
	}
	s := newTestServer(&fakeDirectory{}, gate)

	rec := doRequest(s, http.MethodGet, "/api/users/7", "", "tok")
	require.Equal(t, http.StatusForbidden, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Access denied", resp.Message)
}

func TestGetUserByID_Self(t *testing.T) {
	dir := &fakeDirectory{user: &models.User{ID: 7, Username: "ann1"}}
	gate := &fakeGate{claims: &auth.Claims{UserID: 7}}
	s := newTestServer(dir, gate)

	rec := doRequest(s, http.MethodGet, "/api/users/7", "", "tok")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), dir.lastID)
}

func TestGetUserByID_BadID(t *testing.T) {
	gate := &fakeGate{claims: &auth.Claims{UserID: 7}}
	s := newTestServer(&fakeDirectory{}, gate)

	rec := doRequest(s, http.MethodGet, "/api/users/abc", "", "tok")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	dir := &fakeDirectory{err: fmt.Errorf("%w: user", common.ErrNotFound)}
	s := newTestServer(dir, &fakeGate{})

	rec := doRequest(s, http.MethodGet, "/api/users/username/ghost", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateUser_Conflict(t *testing.T) {
	dir := &fakeDirectory{err: fmt.Errorf("%w: username already exists: ann1", common.ErrConflict)}
	s := newTestServer(dir, &fakeGate{})

	body := `{"name":"Ann","username":"ann1","email":"ann@x.com","password":"Secur3!ty"}`
	rec := doRequest(s, http.MethodPost, "/api/users", body, "")

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateUser_Created(t *testing.T) {
	dir := &fakeDirectory{user: &models.User{ID: 9, Username: "ann1"}}
	s := newTestServer(dir, &fakeGate{})

	body := `{"name":"Ann","username":"ann1","email":"ann@x.com","password":"Secur3!ty"}`
	rec := doRequest(s, http.MethodPost, "/api/users", body, "")

	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, int64(9), user.ID)
}

func TestUpdateUser_PassesExplicitEmptyPhone(t *testing.T) {
	dir := &fakeDirectory{user: &models.User{ID: 7}}
	s := newTestServer(dir, &fakeGate{})

	rec := doRequest(s, http.MethodPut, "/api/users/7", `{"phone":""}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	in, ok := dir.lastIn.(*models.UpdateUserInput)
	require.True(t, ok)
	require.NotNil(t, in.Phone)
	assert.Equal(t, "", *in.Phone)
	assert.Nil(t, in.Name)
}

func TestDeleteUser_AdminOnly(t *testing.T) {
	gate := &fakeGate{
		claims:  &auth.Claims{UserID: 2},
		roleErr: fmt.Errorf("%w: access denied", common.ErrForbidden),
	}
	s := newTestServer(&fakeDirectory{}, gate)

	rec := doRequest(s, http.MethodDelete, "/api/users/7", "", "tok")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeleteUser_OK(t *testing.T) {
	dir := &fakeDirectory{}
	gate := &fakeGate{claims: &auth.Claims{UserID: 1}}
	s := newTestServer(dir, gate)

	rec := doRequest(s, http.MethodDelete, "/api/users/7", "", "tok")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{7}, dir.deleted)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "User deleted successfully", resp["message"])
}

func TestHealth(t *testing.T) {
	s := newTestServer(&fakeDirectory{}, &fakeGate{})

	rec := doRequest(s, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

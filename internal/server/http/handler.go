package http

import (
	"errors"
	"net/http"
	"net/mail"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/userdir/internal/common"
	"github.com/dmitrijs2005/userdir/internal/server/models"
)

type errorResponse struct {
	Message string `json:"message"`
}

type authResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// writeError renders a typed core failure as a transport status. Anything
// not in the taxonomy is an internal error and is logged here, not in the core.
func (s *Server) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrValidation):
		return c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
	case errors.Is(err, common.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, errorResponse{Message: err.Error()})
	case errors.Is(err, common.ErrForbidden):
		return c.JSON(http.StatusForbidden, errorResponse{Message: "Access denied"})
	case errors.Is(err, common.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Message: err.Error()})
	case errors.Is(err, common.ErrConflict):
		return c.JSON(http.StatusConflict, errorResponse{Message: err.Error()})
	default:
		s.logger.Error(c.Request().Context(), err.Error())
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: "internal error"})
	}
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// validateUserInput applies the required-field checks the core expects to be
// done before it is invoked: name, username, and a well-formed email.
func validateUserInput(name, username, email string) error {
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}
	if username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Username is required")
	}
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email should be valid")
	}
	return nil
}

func (s *Server) register(c echo.Context) error {
	in := &models.CreateUserInput{}
	if err := c.Bind(in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validateUserInput(in.Name, in.Username, in.Email); err != nil {
		return err
	}

	user, token, err := s.users.Register(c.Request().Context(), in)
	if err != nil {
		return s.writeError(c, err)
	}

	s.logger.Info(c.Request().Context(), "user registered", "username", user.Username)

	return c.JSON(http.StatusCreated, authResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    user,
	})
}

func (s *Server) login(c echo.Context) error {
	req := &loginRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	user, token, err := s.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, authResponse{
		Message: "Login successful",
		Token:   token,
		User:    user,
	})
}

func (s *Server) listUsers(c echo.Context) error {
	users, err := s.users.GetAll(c.Request().Context())
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (s *Server) getUserByID(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	// Profiles are visible to their owner and to admins only.
	if err := s.gate.RequireSelfOrAdmin(c.Request().Context(), claims(c), id); err != nil {
		return s.writeError(c, err)
	}

	user, err := s.users.GetByID(c.Request().Context(), id)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (s *Server) getUserByUsername(c echo.Context) error {
	user, err := s.users.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (s *Server) getUserByEmail(c echo.Context) error {
	user, err := s.users.GetByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (s *Server) createUser(c echo.Context) error {
	in := &models.CreateUserInput{}
	if err := c.Bind(in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validateUserInput(in.Name, in.Username, in.Email); err != nil {
		return err
	}

	user, err := s.users.Create(c.Request().Context(), in)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (s *Server) updateUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	in := &models.UpdateUserInput{}
	if err := c.Bind(in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := s.users.Update(c.Request().Context(), id, in)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (s *Server) deleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	// Only admins may delete users.
	if err := s.gate.RequireRole(c.Request().Context(), claims(c), models.RoleAdmin); err != nil {
		return s.writeError(c, err)
	}

	if err := s.users.Delete(c.Request().Context(), id); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

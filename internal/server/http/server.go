// Package http exposes the directory over REST. It binds and validates
// request bodies, runs the access-control gate on protected routes, and
// renders the core's typed failures as status codes; everything else is
// delegated to the service layer.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/userdir/internal/logging"
	"github.com/dmitrijs2005/userdir/internal/server/auth"
	"github.com/dmitrijs2005/userdir/internal/server/models"
)

// UserDirectory is the slice of the service layer the transport needs.
type UserDirectory interface {
	GetAll(ctx context.Context) ([]*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, in *models.CreateUserInput) (*models.User, error)
	Update(ctx context.Context, id int64, in *models.UpdateUserInput) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	Register(ctx context.Context, in *models.CreateUserInput) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}

// AccessGate verifies bearer tokens and evaluates authorization predicates.
type AccessGate interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
	RequireRole(ctx context.Context, claims *auth.Claims, roles ...string) error
	RequireSelfOrAdmin(ctx context.Context, claims *auth.Claims, resourceID int64) error
}

type Server struct {
	address string
	logger  logging.Logger
	users   UserDirectory
	gate    AccessGate
}

func NewServer(address string, l logging.Logger, users UserDirectory, gate AccessGate) *Server {
	return &Server{
		address: address,
		logger:  l.With("module", "http_server"),
		users:   users,
		gate:    gate,
	}
}

// Run starts the HTTP server and shuts it down gracefully when ctx is done.
func (s *Server) Run(ctx context.Context) error {
	e := s.newEcho()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := e.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	s.routes(e)
	return e
}

// authRequired extracts the bearer token and delegates verification to the
// gate; verified claims land in the echo context under "user".
func (s *Server) authRequired() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			return s.gate.Authenticate(c.Request().Context(), tokenString)
		},
	})
}

func (s *Server) routes(e *echo.Echo) {
	e.GET("/health", s.health)

	api := e.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.register)
	authGroup.POST("/login", s.login)

	usersGroup := api.Group("/users")
	usersGroup.GET("", s.listUsers, s.authRequired())
	usersGroup.GET("/:id", s.getUserByID, s.authRequired())
	usersGroup.GET("/username/:username", s.getUserByUsername)
	usersGroup.GET("/email/:email", s.getUserByEmail)
	usersGroup.POST("", s.createUser)
	usersGroup.PUT("/:id", s.updateUser)
	usersGroup.DELETE("/:id", s.deleteUser, s.authRequired())
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// claims returns the verified caller identity placed by authRequired.
func claims(c echo.Context) *auth.Claims {
	cl, _ := c.Get("user").(*auth.Claims)
	return cl
}

// Package services contains the server-side business logic. This file
// implements UserService: the directory reads, the transactional
// create/update/delete write protocols, and the register/login operations
// that mint bearer tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/userdir/internal/common"
	"github.com/dmitrijs2005/userdir/internal/dbx"
	"github.com/dmitrijs2005/userdir/internal/server/auth"
	"github.com/dmitrijs2005/userdir/internal/server/config"
	"github.com/dmitrijs2005/userdir/internal/server/models"
	"github.com/dmitrijs2005/userdir/internal/server/repositories/addresses"
	"github.com/dmitrijs2005/userdir/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/userdir/internal/server/repositories/users"
)

// UserService owns the persistence protocols for the directory. Every
// multi-table write runs inside one dbx.WithTx unit of work: the uniqueness
// pre-checks, the sub-entity inserts/updates, and the user row itself either
// all commit or all roll back.
type UserService struct {
	db            *sql.DB
	repos         repomanager.RepositoryManager
	jwtSecret     []byte
	tokenValidity time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
// The pool is injected; its lifecycle belongs to the process entry point.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:            db,
		repos:         m,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
	}
}

// GetAll returns every user ordered by id ascending.
func (s *UserService) GetAll(ctx context.Context) ([]*models.User, error) {
	return s.repos.Users(s.db).GetAll(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repos.Users(s.db).GetByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repos.Users(s.db).GetByUsername(ctx, username)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repos.Users(s.db).GetByEmail(ctx, email)
}

// Create runs the create protocol with the default role.
func (s *UserService) Create(ctx context.Context, in *models.CreateUserInput) (*models.User, error) {
	return s.CreateWithRole(ctx, in, models.RoleUser)
}

// CreateWithRole inserts a user together with its optional sub-entities:
// geo first, then the address referencing it, then the company, then the
// user row referencing both. Uniqueness is pre-checked inside the
// transaction for an early conflict failure; the schema constraints remain
// the true enforcement under concurrency.
func (s *UserService) CreateWithRole(ctx context.Context, in *models.CreateUserInput, role string) (*models.User, error) {
	var id int64

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		usersRepo := s.repos.Users(tx)

		taken, err := usersRepo.ExistsByUsername(ctx, in.Username)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: username already exists: %s", common.ErrConflict, in.Username)
		}

		taken, err = usersRepo.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: email already exists: %s", common.ErrConflict, in.Email)
		}

		if in.Password == "" {
			return fmt.Errorf("%w: password is required", common.ErrValidation)
		}

		addressID, err := s.insertAddress(ctx, tx, in.Address)
		if err != nil {
			return err
		}

		var companyID sql.NullInt64
		if in.Company != nil {
			cid, err := s.repos.Companies(tx).Insert(ctx, in.Company.Name, in.Company.CatchPhrase, in.Company.BS)
			if err != nil {
				return err
			}
			companyID = sql.NullInt64{Int64: cid, Valid: true}
		}

		digest, err := auth.HashPassword(in.Password)
		if err != nil {
			return fmt.Errorf("%w: hashing password: %v", common.ErrInternal, err)
		}

		id, err = usersRepo.Insert(ctx, users.InsertParams{
			Name:      in.Name,
			Username:  in.Username,
			Email:     in.Email,
			Password:  digest,
			Role:      role,
			Phone:     in.Phone,
			Website:   in.Website,
			AddressID: addressID,
			CompanyID: companyID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// insertAddress inserts the optional geo and address rows for a create (or
// an update that attaches a first address) and returns the new address id.
func (s *UserService) insertAddress(ctx context.Context, tx dbx.DBTX, in *models.AddressInput) (sql.NullInt64, error) {
	if in == nil {
		return sql.NullInt64{}, nil
	}

	addrRepo := s.repos.Addresses(tx)

	var geoID sql.NullInt64
	if in.Geo != nil {
		gid, err := addrRepo.InsertGeo(ctx, in.Geo.Lat, in.Geo.Lng)
		if err != nil {
			return sql.NullInt64{}, err
		}
		geoID = sql.NullInt64{Int64: gid, Valid: true}
	}

	aid, err := addrRepo.Insert(ctx, addresses.InsertParams{
		Street:  in.Street,
		Suite:   in.Suite,
		City:    in.City,
		Zipcode: in.Zipcode,
		GeoID:   geoID,
	})
	if err != nil {
		return sql.NullInt64{}, err
	}

	return sql.NullInt64{Int64: aid, Valid: true}, nil
}

// Update applies a partial input to an existing user. Sub-entities are
// updated in place when they exist and inserted/attached when they do not;
// an address supplied for a user with none yet is inserted together with
// any geo it carries. Supplied name/username/email fall back to the current
// value when empty; phone/website overwrite even when supplied as empty.
func (s *UserService) Update(ctx context.Context, id int64, in *models.UpdateUserInput) (*models.User, error) {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		usersRepo := s.repos.Users(tx)

		existing, err := usersRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if in.Username != nil && *in.Username != existing.Username {
			taken, err := usersRepo.ExistsByUsername(ctx, *in.Username)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%w: username already exists: %s", common.ErrConflict, *in.Username)
			}
		}

		if in.Email != nil && *in.Email != existing.Email {
			taken, err := usersRepo.ExistsByEmail(ctx, *in.Email)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%w: email already exists: %s", common.ErrConflict, *in.Email)
			}
		}

		if err := s.applyGeo(ctx, tx, existing, in); err != nil {
			return err
		}

		if err := s.applyAddress(ctx, tx, id, existing, in); err != nil {
			return err
		}

		if err := s.applyCompany(ctx, tx, id, existing, in); err != nil {
			return err
		}

		// Direct foreign-key overrides bypass the nested sub-entity steps.
		if in.AddressID != nil {
			if err := usersRepo.SetAddressID(ctx, id, dbx.NullInt64(in.AddressID)); err != nil {
				return err
			}
		}
		if in.CompanyID != nil {
			if err := usersRepo.SetCompanyID(ctx, id, dbx.NullInt64(in.CompanyID)); err != nil {
				return err
			}
		}

		name := fallback(in.Name, existing.Name)
		username := fallback(in.Username, existing.Username)
		email := fallback(in.Email, existing.Email)
		phone := existing.Phone
		if in.Phone != nil {
			phone = *in.Phone
		}
		website := existing.Website
		if in.Website != nil {
			website = *in.Website
		}

		return usersRepo.UpdateScalars(ctx, id, name, username, email, phone, website)
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

func (s *UserService) applyGeo(ctx context.Context, tx dbx.DBTX, existing *models.User, in *models.UpdateUserInput) error {
	// A geo arriving with a brand-new address is handled by applyAddress,
	// which inserts both rows together.
	if in.Address == nil || in.Address.Geo == nil || existing.Address == nil {
		return nil
	}

	addrRepo := s.repos.Addresses(tx)
	geo := in.Address.Geo

	if existing.Address.Geo != nil {
		return addrRepo.UpdateGeo(ctx, existing.Address.Geo.ID, geo.Lat, geo.Lng)
	}

	gid, err := addrRepo.InsertGeo(ctx, geo.Lat, geo.Lng)
	if err != nil {
		return err
	}
	return addrRepo.SetGeoID(ctx, existing.Address.ID, gid)
}

func (s *UserService) applyAddress(ctx context.Context, tx dbx.DBTX, id int64, existing *models.User, in *models.UpdateUserInput) error {
	if in.Address == nil {
		return nil
	}

	addrRepo := s.repos.Addresses(tx)

	if existing.Address != nil {
		return addrRepo.Update(ctx, existing.Address.ID,
			in.Address.Street, in.Address.Suite, in.Address.City, in.Address.Zipcode)
	}

	// First address for this user: insert it (and any geo it carries) the
	// same way create does, then attach it.
	aid, err := s.insertAddress(ctx, tx, in.Address)
	if err != nil {
		return err
	}

	return s.repos.Users(tx).SetAddressID(ctx, id, aid)
}

func (s *UserService) applyCompany(ctx context.Context, tx dbx.DBTX, id int64, existing *models.User, in *models.UpdateUserInput) error {
	if in.Company == nil {
		return nil
	}

	compRepo := s.repos.Companies(tx)

	if existing.Company != nil {
		return compRepo.Update(ctx, existing.Company.ID, in.Company.Name, in.Company.CatchPhrase, in.Company.BS)
	}

	cid, err := compRepo.Insert(ctx, in.Company.Name, in.Company.CatchPhrase, in.Company.BS)
	if err != nil {
		return err
	}

	return s.repos.Users(tx).SetCompanyID(ctx, id, sql.NullInt64{Int64: cid, Valid: true})
}

// Delete removes the user row and every sub-entity it owns, all in one
// transaction: neither the user nor its orphans may survive alone.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		usersRepo := s.repos.Users(tx)

		existing, err := usersRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := usersRepo.Delete(ctx, id); err != nil {
			return err
		}

		// The address row references its geo row, so the address goes first.
		addrRepo := s.repos.Addresses(tx)
		if existing.Address != nil {
			if err := addrRepo.Delete(ctx, existing.Address.ID); err != nil {
				return err
			}
			if existing.Address.Geo != nil {
				if err := addrRepo.DeleteGeo(ctx, existing.Address.Geo.ID); err != nil {
					return err
				}
			}
		}

		if existing.Company != nil {
			if err := s.repos.Companies(tx).Delete(ctx, existing.Company.ID); err != nil {
				return err
			}
		}

		return nil
	})
}

// Register validates the password policy, creates the user, and issues a
// bearer token for it.
func (s *UserService) Register(ctx context.Context, in *models.CreateUserInput) (*models.User, string, error) {
	if err := auth.ValidatePassword(in.Password); err != nil {
		return nil, "", err
	}

	user, err := s.Create(ctx, in)
	if err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateToken(user.ID, user.Username, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, "", fmt.Errorf("%w: signing token: %v", common.ErrInternal, err)
	}

	return user, token, nil
}

// Login verifies the credentials and returns the user with a fresh token.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	usersRepo := s.repos.Users(s.db)

	creds, err := usersRepo.GetCredentialsByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: invalid credentials", common.ErrUnauthorized)
		}
		return nil, "", err
	}

	if !auth.VerifyPassword(password, creds.Password) {
		return nil, "", fmt.Errorf("%w: invalid credentials", common.ErrUnauthorized)
	}

	user, err := usersRepo.GetByID(ctx, creds.ID)
	if err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateToken(user.ID, user.Username, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, "", fmt.Errorf("%w: signing token: %v", common.ErrInternal, err)
	}

	return user, token, nil
}

// fallback keeps the current value when the supplied one is absent or empty;
// name/username/email are never written as empty strings.
func fallback(supplied *string, current string) string {
	if supplied == nil || *supplied == "" {
		return current
	}
	return *supplied
}

package users

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/userdir/internal/server/models"
)

// InsertParams is the write-eligible subset of a users row. The id is
// store-assigned and the password arrives already hashed.
type InsertParams struct {
	Name      string
	Username  string
	Email     string
	Password  string
	Role      string
	Phone     *string
	Website   *string
	AddressID sql.NullInt64
	CompanyID sql.NullInt64
}

type Repository interface {
	GetAll(ctx context.Context) ([]*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetCredentialsByEmail(ctx context.Context, email string) (*models.Credentials, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, p InsertParams) (int64, error)
	UpdateScalars(ctx context.Context, id int64, name, username, email, phone, website string) error
	SetAddressID(ctx context.Context, id int64, addressID sql.NullInt64) error
	SetCompanyID(ctx context.Context, id int64, companyID sql.NullInt64) error
	Delete(ctx context.Context, id int64) error
}

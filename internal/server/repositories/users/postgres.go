// Package users implements the users-table repository, including the joined
// lookups that pull a user together with its address, geo, and company rows.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/userdir/internal/common"
	"github.com/dmitrijs2005/userdir/internal/dbx"
	"github.com/dmitrijs2005/userdir/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// joinedSelect is the single read shape for the directory: one flattened row
// per user, aliased <entity>_<field>, with NULL foreign keys suppressing the
// corresponding sub-entity.
const joinedSelect = `
		SELECT
			u.id AS user_id, u.name AS user_name, u.username AS user_username,
			u.email AS user_email, u.phone AS user_phone, u.website AS user_website,
			u.role AS user_role,
			a.id AS address_id, a.street AS address_street, a.suite AS address_suite,
			a.city AS address_city, a.zipcode AS address_zipcode,
			g.id AS geo_id, g.lat AS geo_lat, g.lng AS geo_lng,
			c.id AS company_id, c.name AS company_name,
			c.catch_phrase AS company_catch_phrase, c.bs AS company_bs
		FROM users u
		LEFT JOIN address a ON u.address_id = a.id
		LEFT JOIN geo g ON a.geo_id = g.id
		LEFT JOIN company c ON u.company_id = c.id`

func scanUserRow(s interface{ Scan(dest ...any) error }) (*models.UserRow, error) {
	row := &models.UserRow{}
	err := s.Scan(
		&row.UserID, &row.UserName, &row.UserUsername,
		&row.UserEmail, &row.UserPhone, &row.UserWebsite,
		&row.UserRole,
		&row.AddressID, &row.AddressStreet, &row.AddressSuite,
		&row.AddressCity, &row.AddressZipcode,
		&row.GeoID, &row.GeoLat, &row.GeoLng,
		&row.CompanyID, &row.CompanyName,
		&row.CompanyCatchPhrase, &row.CompanyBS,
	)
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	query := joinedSelect + "\n\t\tWHERE " + where

	row, err := scanUserRow(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return row.ToUser(), nil
}

// GetAll returns every user ordered by id ascending.
func (r *PostgresRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	query := joinedSelect + "\n\t\tORDER BY u.id"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.User{}
	for rows.Next() {
		row, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, row.ToUser())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, "u.id = $1", id)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, "u.username = $1", username)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "u.email = $1", email)
}

// GetCredentialsByEmail returns the authentication view of a users row,
// including the stored password digest.
func (r *PostgresRepository) GetCredentialsByEmail(ctx context.Context, email string) (*models.Credentials, error) {
	query :=
		`SELECT id, username, email, password, role FROM users
		 WHERE email = $1
		 `

	creds := &models.Credentials{}
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&creds.ID, &creds.Username, &creds.Email, &creds.Password, &creds.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return creds, nil
}

func (r *PostgresRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&count); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return count > 0, nil
}

func (r *PostgresRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(*) FROM users WHERE username = $1`, username)
}

func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(*) FROM users WHERE email = $1`, email)
}

func (r *PostgresRepository) Insert(ctx context.Context, p InsertParams) (int64, error) {
	query :=
		`INSERT INTO users (name, username, email, password, phone, website, role, address_id, company_id)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		p.Name, p.Username, p.Email, p.Password,
		dbx.NullString(p.Phone), dbx.NullString(p.Website),
		p.Role, p.AddressID, p.CompanyID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

func (r *PostgresRepository) UpdateScalars(ctx context.Context, id int64, name, username, email, phone, website string) error {
	query :=
		`UPDATE users SET name = $1, username = $2, email = $3, phone = $4, website = $5
		 WHERE id = $6
		 `

	if _, err := r.db.ExecContext(ctx, query, name, username, email, phone, website, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetAddressID(ctx context.Context, id int64, addressID sql.NullInt64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET address_id = $1 WHERE id = $2`, addressID, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetCompanyID(ctx context.Context, id int64, companyID sql.NullInt64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET company_id = $1 WHERE id = $2`, companyID, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Package addresses implements the address and geo table repositories.
package addresses

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/userdir/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, p InsertParams) (int64, error) {
	query :=
		`INSERT INTO address (street, suite, city, zipcode, geo_id)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		dbx.NullString(p.Street), dbx.NullString(p.Suite),
		dbx.NullString(p.City), dbx.NullString(p.Zipcode), p.GeoID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, street, suite, city, zipcode *string) error {
	query :=
		`UPDATE address SET street = $1, suite = $2, city = $3, zipcode = $4
		 WHERE id = $5
		 `

	_, err := r.db.ExecContext(ctx, query,
		dbx.NullString(street), dbx.NullString(suite),
		dbx.NullString(city), dbx.NullString(zipcode), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetGeoID(ctx context.Context, id, geoID int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE address SET geo_id = $1 WHERE id = $2`, geoID, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM address WHERE id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) InsertGeo(ctx context.Context, lat, lng *string) (int64, error) {
	query :=
		`INSERT INTO geo (lat, lng)
         VALUES ($1, $2)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query, dbx.NullString(lat), dbx.NullString(lng)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

func (r *PostgresRepository) UpdateGeo(ctx context.Context, id int64, lat, lng *string) error {
	query :=
		`UPDATE geo SET lat = $1, lng = $2
		 WHERE id = $3
		 `

	if _, err := r.db.ExecContext(ctx, query, dbx.NullString(lat), dbx.NullString(lng), id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteGeo(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM geo WHERE id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Package companies implements the company table repository.
package companies

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

func (r *PostgresRepository) Insert(ctx context.Context, name, catchPhrase, bs *string) (int64, error) {
	query :=
		`INSERT INTO company (name, catch_phrase, bs)
         VALUES ($1, $2, $3)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		dbx.NullString(name), dbx.NullString(catchPhrase), dbx.NullString(bs)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, name, catchPhrase, bs *string) error {
	query :=
		`UPDATE company SET name = $1, catch_phrase = $2, bs = $3
		 WHERE id = $4
		 `

	_, err := r.db.ExecContext(ctx, query,
		dbx.NullString(name), dbx.NullString(catchPhrase), dbx.NullString(bs), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM company WHERE id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

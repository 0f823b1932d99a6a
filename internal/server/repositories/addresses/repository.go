package addresses

import (
	"context"
	"database/sql"
)

// InsertParams is the write-eligible subset of an address row plus the
// optional geo link established at insert time.
type InsertParams struct {
	Street  *string
	Suite   *string
	City    *string
	Zipcode *string
	GeoID   sql.NullInt64
}

// Repository covers the address table and its owned geo rows. Geo lives here
// rather than in its own package because it never exists apart from an
// address.
type Repository interface {
	Insert(ctx context.Context, p InsertParams) (int64, error)
	Update(ctx context.Context, id int64, street, suite, city, zipcode *string) error
	SetGeoID(ctx context.Context, id, geoID int64) error
	Delete(ctx context.Context, id int64) error

	InsertGeo(ctx context.Context, lat, lng *string) (int64, error)
	UpdateGeo(ctx context.Context, id int64, lat, lng *string) error
	DeleteGeo(ctx context.Context, id int64) error
}

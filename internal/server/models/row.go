package models

import "database/sql"

// UserRow is the flattened result of the outer-joined lookup across
// users⟕address⟕geo and users⟕company. Column aliases follow the
// <entity>_<field> convention; a NULL foreign key suppresses construction
// of the corresponding sub-entity.
type UserRow struct {
	UserID       int64
	UserName     string
	UserUsername string
	UserEmail    string
	UserPhone    sql.NullString
	UserWebsite  sql.NullString
	UserRole     string

	AddressID      sql.NullInt64
	AddressStreet  sql.NullString
	AddressSuite   sql.NullString
	AddressCity    sql.NullString
	AddressZipcode sql.NullString

	GeoID  sql.NullInt64
	GeoLat sql.NullString
	GeoLng sql.NullString

	CompanyID          sql.NullInt64
	CompanyName        sql.NullString
	CompanyCatchPhrase sql.NullString
	CompanyBS          sql.NullString
}

// ToUser shapes the flattened row into a User entity. An absent address_id
// means "no address exists", never "address exists but empty"; same for
// geo_id and company_id.
func (r *UserRow) ToUser() *User {
	u := &User{
		ID:       r.UserID,
		Name:     r.UserName,
		Username: r.UserUsername,
		Email:    r.UserEmail,
		Phone:    r.UserPhone.String,
		Website:  r.UserWebsite.String,
		Role:     r.UserRole,
	}

	if r.AddressID.Valid {
		u.Address = &Address{
			ID:      r.AddressID.Int64,
			Street:  r.AddressStreet.String,
			Suite:   r.AddressSuite.String,
			City:    r.AddressCity.String,
			Zipcode: r.AddressZipcode.String,
		}
		if r.GeoID.Valid {
			u.Address.Geo = &Geo{
				ID:  r.GeoID.Int64,
				Lat: r.GeoLat.String,
				Lng: r.GeoLng.String,
			}
		}
	}

	if r.CompanyID.Valid {
		u.Company = &Company{
			ID:          r.CompanyID.Int64,
			Name:        r.CompanyName.String,
			CatchPhrase: r.CompanyCatchPhrase.String,
			BS:          r.CompanyBS.String,
		}
	}

	return u
}

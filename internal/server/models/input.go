package models

// Input bags for the write protocols. Optional fields are pointers so that
// "not supplied in this request" stays distinct from "supplied as empty";
// a nil pointer is the absent marker.

type GeoInput struct {
	Lat *string `json:"lat"`
	Lng *string `json:"lng"`
}

type AddressInput struct {
	Street  *string   `json:"street"`
	Suite   *string   `json:"suite"`
	City    *string   `json:"city"`
	Zipcode *string   `json:"zipcode"`
	Geo     *GeoInput `json:"geo"`
}

type CompanyInput struct {
	Name        *string `json:"name"`
	CatchPhrase *string `json:"catchPhrase"`
	BS          *string `json:"bs"`
}

// CreateUserInput carries a fully-formed create request. Required scalars are
// plain strings: the transport layer rejects requests missing them before the
// core is invoked, except for password whose absence the write protocol
// itself reports.
type CreateUserInput struct {
	Name     string        `json:"name"`
	Username string        `json:"username"`
	Email    string        `json:"email"`
	Password string        `json:"password"`
	Phone    *string       `json:"phone"`
	Website  *string       `json:"website"`
	Address  *AddressInput `json:"address"`
	Company  *CompanyInput `json:"company"`
}

// UpdateUserInput carries a partial update. AddressID/CompanyID are direct
// foreign-key overrides that bypass the nested sub-entity steps.
type UpdateUserInput struct {
	Name     *string       `json:"name"`
	Username *string       `json:"username"`
	Email    *string       `json:"email"`
	Phone    *string       `json:"phone"`
	Website  *string       `json:"website"`
	Address  *AddressInput `json:"address"`
	Company  *CompanyInput `json:"company"`

	AddressID *int64 `json:"address_id"`
	CompanyID *int64 `json:"company_id"`
}

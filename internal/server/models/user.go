// Package models holds the in-memory representation of the directory
// entities (User, Address, Geo, Company), the flattened joined-row DTO the
// repositories scan into, and the input bags the write protocols consume.
// No I/O lives here.
package models

// User roles. Role is stored on the users row and resolved by lookup;
// it is never embedded in token claims.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the identity record. The password digest is deliberately not part
// of the entity so it can never be serialized outward; credential lookups go
// through Credentials instead.
type User struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Website  string   `json:"website"`
	Role     string   `json:"role"`
	Address  *Address `json:"address,omitempty"`
	Company  *Company `json:"company,omitempty"`
}

// Credentials is the authentication view of a users row.
type Credentials struct {
	ID       int64
	Username string
	Email    string
	Password string
	Role     string
}

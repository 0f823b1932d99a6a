package models

// Company is referenced by a User and lives and dies with it.
type Company struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	CatchPhrase string `json:"catchPhrase"`
	BS          string `json:"bs"`
}

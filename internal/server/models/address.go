package models

// Address is owned by at most one User and optionally references one Geo.
type Address struct {
	ID      int64  `json:"id"`
	Street  string `json:"street"`
	Suite   string `json:"suite"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
	Geo     *Geo   `json:"geo,omitempty"`
}

// Geo is owned by at most one Address. Coordinates are carried as opaque
// strings end to end.
type Geo struct {
	ID  int64  `json:"id"`
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

package models

// Doctor represents a provider entry in the hospital directory.
// Directory data is read-only from the booking flow's point of view.
type Doctor struct {
	ID        string  `bson:"id" json:"id"`
	Name      string  `bson:"name" json:"name"`
	Specialty string  `bson:"specialty" json:"specialty"`
	Branch    string  `bson:"branch" json:"branch"`
	Rating    float64 `bson:"rating" json:"rating"`
}

// DoctorFilter holds the three independent directory filters. Empty query
// matches everything; "all" (or empty) specialty/branch act as identity
// filters.
type DoctorFilter struct {
	Query     string `json:"query" form:"query"`
	Specialty string `json:"specialty" form:"specialty"`
	Branch    string `json:"branch" form:"branch"`
}

package models

// Fixture is a read-only projection of an upcoming event owned by the events API.
type Fixture struct {
	Title string `json:"title"`
	Sport string `json:"sport"`
	City  string `json:"city"`
	Venue string `json:"venue"`
	When  string `json:"when"`
}

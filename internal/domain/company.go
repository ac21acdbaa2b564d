package domain

type Company struct {
	Name     string
	Verified bool     // only some portals expose it
	Rating   *float64 // nil when the portal has no rating
}

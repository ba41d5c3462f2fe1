package models

import "time"

// Favorite is a dashboard bookmark kept client-side only. AreaSlug is a copy
// taken at the time of favoriting and is not re-validated.
type Favorite struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	AreaSlug string    `json:"areaSlug"`
	AddedAt  time.Time `json:"addedAt"`
}

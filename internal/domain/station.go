package domain

import "time"

// Station is a fuel station tickets can reference. The manager is the
// administrator in charge of the station.
type Station struct {
	ID        string
	Name      string
	Code      string
	Address   string
	City      string
	Phone     string
	ManagerID *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

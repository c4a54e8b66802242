package models

// Trip represents a trip whose members share expenses.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string

	// Name is the display name of the trip (e.g., "Lisbon 2026").
	Name string

	// Members is the list of usernames currently on the trip.
	// Membership is the authority for whose balance counts.
	Members []string

	// CreatedBy is the username that created the trip.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the trip was created.
	CreatedAt int64
}

// HasMember reports whether username is currently a member of the trip.
func (t *Trip) HasMember(username string) bool {
	for _, m := range t.Members {
		if m == username {
			return true
		}
	}
	return false
}

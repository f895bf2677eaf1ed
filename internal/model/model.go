// Package model defines the domain types used across the application.
package model

import "time"

// OccupancyType is the sharing configuration of a room.
type OccupancyType string

// Supported occupancy types.
const (
	OccupancySingle OccupancyType = "Single"
	OccupancyDouble OccupancyType = "Double"
	OccupancyTriple OccupancyType = "Triple"
)

// GenderPreference restricts who may occupy a room.
type GenderPreference string

// Supported gender preferences. Unisex rooms are compatible with any
// gender selection.
const (
	GenderMale   GenderPreference = "Male"
	GenderFemale GenderPreference = "Female"
	GenderUnisex GenderPreference = "Unisex"
)

// Coordinate is a geographic point in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Room represents one rentable room record from the catalog feed.
// The engine only ever reads rooms; IDs are stable within a snapshot.
type Room struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	OwnerName        string           `json:"ownerName"`
	PhoneNumber      string           `json:"phoneNumber"`
	Price            int              `json:"price"`
	Location         string           `json:"location"`
	LocationLink     string           `json:"locationLink,omitempty"`
	Description      string           `json:"description"`
	OccupancyType    OccupancyType    `json:"occupancyType"`
	GenderPreference GenderPreference `json:"genderPreference"`
	FlatType         string           `json:"flatType"`
	Photos           []string         `json:"photos,omitempty"`
	Amenities        []string         `json:"amenities,omitempty"`
	Rules            []string         `json:"rules,omitempty"`
	Rating           float64          `json:"rating"`
	ReviewsCount     int              `json:"reviewsCount"`
	IsVerified       bool             `json:"isVerified"`
	IsAvailable      bool             `json:"isAvailable"`
	Featured         bool             `json:"featured,omitempty"`
	Coordinates      *Coordinate      `json:"coordinates,omitempty"`
}

// Criteria holds the filter state applied to the catalog on each evaluation.
// The zero value matches everything.
type Criteria struct {
	// MaxPrice excludes rooms priced above it. Zero or negative means
	// no ceiling.
	MaxPrice int
	// MinPrice is carried for client display only and is never enforced.
	MinPrice int
	// OccupancyTypes restricts results to the listed types. Empty means all.
	OccupancyTypes []OccupancyType
	// Genders restricts results to compatible rooms. Empty means all.
	// Unisex rooms pass any selection.
	Genders []GenderPreference
	// Query is matched case-insensitively against the room's text fields.
	Query string
	// NearMe switches the ordering to ascending distance from the user
	// when a user coordinate is available.
	NearMe bool
}

// RankedRoom is a Room with a transient distance attached during a single
// evaluation pass. DistanceKm is nil unless near-me ranking was active.
type RankedRoom struct {
	Room
	DistanceKm *float64 `json:"distanceKm,omitempty"`
}

// Alert is a persisted set of criteria that a Telegram chat wants to be
// notified about when matching rooms appear in the catalog.
type Alert struct {
	ID            int64
	ChatID        int64
	MaxPrice      int
	OccupancyType OccupancyType    // empty means any
	Gender        GenderPreference // empty means any
	Query         string
	IsActive      bool
	CreatedAt     time.Time
}

// Criteria converts the alert into engine criteria.
func (a Alert) Criteria() Criteria {
	c := Criteria{MaxPrice: a.MaxPrice, Query: a.Query}
	if a.OccupancyType != "" {
		c.OccupancyTypes = []OccupancyType{a.OccupancyType}
	}
	if a.Gender != "" {
		c.Genders = []GenderPreference{a.Gender}
	}
	return c
}

// ParseOccupancyType maps user input to an occupancy type.
func ParseOccupancyType(s string) (OccupancyType, bool) {
	switch s {
	case "single", "Single":
		return OccupancySingle, true
	case "double", "Double":
		return OccupancyDouble, true
	case "triple", "Triple":
		return OccupancyTriple, true
	}
	return "", false
}

// ParseGenderPreference maps user input to a gender preference.
func ParseGenderPreference(s string) (GenderPreference, bool) {
	switch s {
	case "male", "Male":
		return GenderMale, true
	case "female", "Female":
		return GenderFemale, true
	case "unisex", "Unisex":
		return GenderUnisex, true
	}
	return "", false
}

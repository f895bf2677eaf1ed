// Package filter implements the room matching predicates.
package filter

import (
	"strings"

	"pgbuddy/internal/model"
)

// Matches checks whether a room passes every active predicate in the
// criteria. Inactive predicates (zero values) pass everything.
func Matches(room model.Room, c model.Criteria) bool {
	return MatchesPrice(room, c) &&
		MatchesOccupancy(room, c) &&
		MatchesGender(room, c) &&
		MatchesQuery(room, c)
}

// MatchesPrice applies the price ceiling. There is deliberately no floor:
// MinPrice on the criteria is display-only and never excludes a room.
func MatchesPrice(room model.Room, c model.Criteria) bool {
	if c.MaxPrice <= 0 {
		return true
	}
	return room.Price <= c.MaxPrice
}

// MatchesOccupancy passes when no occupancy types are selected or the
// room's type is among the selected ones.
func MatchesOccupancy(room model.Room, c model.Criteria) bool {
	if len(c.OccupancyTypes) == 0 {
		return true
	}
	for _, t := range c.OccupancyTypes {
		if room.OccupancyType == t {
			return true
		}
	}
	return false
}

// MatchesGender applies the compatibility rule rather than equality:
// a Unisex room satisfies any gender selection, otherwise the room's
// preference must equal one of the selected genders.
func MatchesGender(room model.Room, c model.Criteria) bool {
	if len(c.Genders) == 0 {
		return true
	}
	if room.GenderPreference == model.GenderUnisex {
		return true
	}
	for _, g := range c.Genders {
		if room.GenderPreference == g {
			return true
		}
	}
	return false
}

// MatchesQuery passes when the lower-cased query is a substring of the
// room's name, location, flat type or description.
func MatchesQuery(room model.Room, c model.Criteria) bool {
	q := strings.ToLower(strings.TrimSpace(c.Query))
	if q == "" {
		return true
	}
	for _, field := range []string{room.Name, room.Location, room.FlatType, room.Description} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

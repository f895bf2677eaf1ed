// Package engine produces the ordered, filtered catalog view.
package engine

import (
	"sort"

	"pgbuddy/internal/filter"
	"pgbuddy/internal/geo"
	"pgbuddy/internal/model"
)

// unknownDistanceKm ranks rooms without resolved coordinates after every
// room with a real distance when near-me ordering is active.
const unknownDistanceKm = 9999.0

// Evaluate filters the catalog against the criteria, attaches distances when
// near-me ranking applies, and returns the composite-sorted result.
// The input slice is never mutated and identical inputs produce identical
// output.
func Evaluate(rooms []model.Room, c model.Criteria, user *model.Coordinate) []model.RankedRoom {
	result := make([]model.RankedRoom, 0, len(rooms))
	for _, room := range rooms {
		if !filter.Matches(room, c) {
			continue
		}
		result = append(result, model.RankedRoom{Room: room})
	}

	byDistance := c.NearMe && user != nil
	if byDistance {
		for i := range result {
			d := unknownDistanceKm
			if coord := result[i].Coordinates; coord != nil {
				d = geo.DistanceKm(*user, *coord)
			}
			result[i].DistanceKm = &d
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		// Available rooms always rank before occupied ones.
		if a.IsAvailable != b.IsAvailable {
			return a.IsAvailable
		}
		if byDistance && *a.DistanceKm != *b.DistanceKm {
			return *a.DistanceKm < *b.DistanceKm
		}
		// Price is the final key, so tied sentinel distances still order
		// deterministically.
		return a.Price < b.Price
	})

	return result
}

// Featured returns the promoted rooms for landing surfaces, available first.
func Featured(rooms []model.Room) []model.Room {
	var result []model.Room
	for _, room := range rooms {
		if room.Featured {
			result = append(result, room)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].IsAvailable && !result[j].IsAvailable
	})
	return result
}

package bot

import (
	"fmt"
	"strconv"
	"strings"

	"pgbuddy/internal/model"
)

// WatchArgs holds the parsed arguments of a /watch or /search command.
type WatchArgs struct {
	MaxPrice  int
	Occupancy model.OccupancyType
	Gender    model.GenderPreference
	Query     string
}

// ParseWatchArgs parses arguments for /watch and /search.
// Format: <max_price|any> [-g male|female|unisex] [-o single|double|triple] [-q text...]
func ParseWatchArgs(args string) (WatchArgs, error) {
	parts := strings.Fields(args)
	if len(parts) == 0 {
		return WatchArgs{}, fmt.Errorf("usage: <max_price|any> [-g gender] [-o occupancy] [-q text]")
	}

	var w WatchArgs
	if parts[0] != "any" {
		price, err := strconv.Atoi(parts[0])
		if err != nil || price < 0 {
			return WatchArgs{}, fmt.Errorf("invalid max price %q, use a number or \"any\"", parts[0])
		}
		w.MaxPrice = price
	}

	rest := parts[1:]
	for len(rest) > 0 {
		switch rest[0] {
		case "-g":
			if len(rest) < 2 {
				return WatchArgs{}, fmt.Errorf("-g requires a value: male, female or unisex")
			}
			g, ok := model.ParseGenderPreference(rest[1])
			if !ok {
				return WatchArgs{}, fmt.Errorf("invalid gender %q, use: male, female, unisex", rest[1])
			}
			w.Gender = g
			rest = rest[2:]
		case "-o":
			if len(rest) < 2 {
				return WatchArgs{}, fmt.Errorf("-o requires a value: single, double or triple")
			}
			o, ok := model.ParseOccupancyType(rest[1])
			if !ok {
				return WatchArgs{}, fmt.Errorf("invalid occupancy %q, use: single, double, triple", rest[1])
			}
			w.Occupancy = o
			rest = rest[2:]
		case "-q":
			if len(rest) < 2 {
				return WatchArgs{}, fmt.Errorf("-q requires a search text")
			}
			w.Query = strings.Join(rest[1:], " ")
			rest = nil
		default:
			return WatchArgs{}, fmt.Errorf("unexpected argument %q", rest[0])
		}
	}

	return w, nil
}

// ParseIDArg extracts a numeric ID from a command argument string.
func ParseIDArg(args string) (int64, error) {
	s := strings.TrimSpace(args)
	if s == "" {
		return 0, fmt.Errorf("alert ID is required")
	}
	id, err := strconv.ParseInt(strings.Fields(s)[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid alert ID %q", s)
	}
	return id, nil
}

// Package fetcher downloads the published catalog sheet and decodes its
// rows into rooms.
package fetcher

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"regexp"
	"strings"
	"time"

	"pgbuddy/internal/model"
)

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher downloads and decodes the catalog feed.
type Fetcher struct {
	client  HTTPClient
	timeout time.Duration
}

// New creates a Fetcher with the given HTTP client.
func New(client HTTPClient) *Fetcher {
	return &Fetcher{
		client:  client,
		timeout: 30 * time.Second,
	}
}

// The gviz endpoint wraps its JSON payload in a JSONP envelope.
var gvizEnvelope = regexp.MustCompile(`(?s)google\.visualization\.Query\.setResponse\((.*)\);`)

// Column layout of the published sheet. Rows are positional; the header row
// is not part of the gviz payload.
const (
	colID = iota
	colName
	colOwnerName
	colPhoneNumber
	colPrice
	colLocation
	colLocationLink
	colDescription
	colOccupancyType
	colGenderPreference
	colFlatType
	colPhotos
	colAmenities
	colRules
	colRating
	colReviewsCount
	colIsVerified
	colIsAvailable
	colFeatured
	colLat
	colLng
)

type gvizCell struct {
	V any `json:"v"`
}

type gvizRow struct {
	C []*gvizCell `json:"c"`
}

type gvizResponse struct {
	Table struct {
		Rows []gvizRow `json:"rows"`
	} `json:"table"`
}

// Fetch downloads the catalog sheet from the given URL and returns the
// decoded rooms in sheet order. Rows without a name are skipped.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]model.Room, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "PGBuddy/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return decodeRooms(body)
}

func decodeRooms(body []byte) ([]model.Room, error) {
	m := gvizEnvelope.FindSubmatch(body)
	if m == nil {
		return nil, fmt.Errorf("response is not a gviz payload")
	}

	var payload gvizResponse
	if err := json.Unmarshal(m[1], &payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	var rooms []model.Room
	for _, row := range payload.Table.Rows {
		room, ok := decodeRow(row.C)
		if !ok {
			continue
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func decodeRow(cells []*gvizCell) (model.Room, bool) {
	name := cellString(cells, colName)
	if name == "" {
		return model.Room{}, false
	}

	room := model.Room{
		ID:           cellString(cells, colID),
		Name:         name,
		OwnerName:    cellString(cells, colOwnerName),
		PhoneNumber:  cellString(cells, colPhoneNumber),
		Price:        cellInt(cells, colPrice),
		Location:     cellString(cells, colLocation),
		LocationLink: cellString(cells, colLocationLink),
		Description:  cellString(cells, colDescription),
		FlatType:     cellString(cells, colFlatType),
		Photos:       cellList(cells, colPhotos),
		Amenities:    cellList(cells, colAmenities),
		Rules:        cellList(cells, colRules),
		Rating:       cellFloat(cells, colRating),
		ReviewsCount: cellInt(cells, colReviewsCount),
		IsVerified:   cellBool(cells, colIsVerified),
		IsAvailable:  cellBool(cells, colIsAvailable),
		Featured:     cellBool(cells, colFeatured),
	}
	if room.ID == "" {
		room.ID = RoomID(room.Name, room.Location)
	}

	if t, ok := model.ParseOccupancyType(cellString(cells, colOccupancyType)); ok {
		room.OccupancyType = t
	} else {
		room.OccupancyType = model.OccupancyType(cellString(cells, colOccupancyType))
	}
	if g, ok := model.ParseGenderPreference(cellString(cells, colGenderPreference)); ok {
		room.GenderPreference = g
	} else {
		room.GenderPreference = model.GenderUnisex
	}

	// Coordinates attach only when both values are usable; the engine's
	// sentinel handles the rest.
	lat, latOK := cellCoord(cells, colLat)
	lng, lngOK := cellCoord(cells, colLng)
	if latOK && lngOK {
		room.Coordinates = &model.Coordinate{Lat: lat, Lng: lng}
	}

	return room, true
}

// RoomID returns a stable identifier for a room whose sheet row has no
// explicit id column, derived from its name and location.
func RoomID(name, location string) string {
	h := sha256.Sum256([]byte(name + "|" + location))
	return fmt.Sprintf("sha256:%x", h[:16])
}

func cellString(cells []*gvizCell, i int) string {
	if i >= len(cells) || cells[i] == nil || cells[i].V == nil {
		return ""
	}
	switch v := cells[i].V.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", v), "0"), ".")
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	}
	return ""
}

func cellFloat(cells []*gvizCell, i int) float64 {
	if i >= len(cells) || cells[i] == nil {
		return 0
	}
	if v, ok := cells[i].V.(float64); ok {
		return v
	}
	return 0
}

func cellInt(cells []*gvizCell, i int) int {
	return int(cellFloat(cells, i))
}

func cellBool(cells []*gvizCell, i int) bool {
	if i >= len(cells) || cells[i] == nil {
		return false
	}
	switch v := cells[i].V.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1":
			return true
		}
	}
	return false
}

func cellCoord(cells []*gvizCell, i int) (float64, bool) {
	if i >= len(cells) || cells[i] == nil {
		return 0, false
	}
	v, ok := cells[i].V.(float64)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func cellList(cells []*gvizCell, i int) []string {
	raw := cellString(cells, i)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pgbuddy/internal/engine"
	"pgbuddy/internal/model"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"rooms":  s.catalog.Len(),
	})
}

// handleListRooms evaluates the filter criteria from the query string
// against the current catalog snapshot.
func (s *Server) handleListRooms(c *gin.Context) {
	criteria, user, err := parseCriteria(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := engine.Evaluate(s.catalog.Snapshot(), criteria, user)
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleFeaturedRooms(c *gin.Context) {
	result := engine.Featured(s.catalog.Snapshot())
	if result == nil {
		result = []model.Room{}
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetRoom(c *gin.Context) {
	room, ok := s.catalog.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	c.JSON(http.StatusOK, room)
}

// handleListSaved returns the device's saved rooms in catalog order.
func (s *Server) handleListSaved(c *gin.Context) {
	deviceID := c.GetHeader("X-Device-ID")
	if deviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Device-ID header is required"})
		return
	}

	ids, err := s.store.ListSavedIDs(c.Request.Context(), deviceID)
	if err != nil {
		s.log.Error("list saved rooms", "device_id", deviceID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load saved rooms"})
		return
	}

	saved := make(map[string]bool, len(ids))
	for _, id := range ids {
		saved[id] = true
	}

	rooms := []model.Room{}
	for _, room := range s.catalog.Snapshot() {
		if saved[room.ID] {
			rooms = append(rooms, room)
		}
	}
	c.JSON(http.StatusOK, rooms)
}

// handleToggleSaved flips saved-set membership. A failed write degrades to
// a response with persisted=false instead of an error, so the client can
// fall back to session-only state.
func (s *Server) handleToggleSaved(c *gin.Context) {
	deviceID := c.GetHeader("X-Device-ID")
	if deviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Device-ID header is required"})
		return
	}

	roomID := c.Param("id")
	if _, ok := s.catalog.Get(roomID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	saved, err := s.store.ToggleSaved(c.Request.Context(), deviceID, roomID)
	if err != nil {
		s.log.Error("toggle saved room", "device_id", deviceID, "room_id", roomID, "error", err)
		c.JSON(http.StatusOK, gin.H{"persisted": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved, "persisted": true})
}

func parseCriteria(c *gin.Context) (model.Criteria, *model.Coordinate, error) {
	var criteria model.Criteria

	if raw := c.Query("max_price"); raw != "" {
		price, err := strconv.Atoi(raw)
		if err != nil {
			return criteria, nil, badParam("max_price", raw)
		}
		criteria.MaxPrice = price
	}
	if raw := c.Query("min_price"); raw != "" {
		price, err := strconv.Atoi(raw)
		if err != nil {
			return criteria, nil, badParam("min_price", raw)
		}
		criteria.MinPrice = price
	}

	for _, raw := range c.QueryArray("occupancy") {
		t, ok := model.ParseOccupancyType(raw)
		if !ok {
			return criteria, nil, badParam("occupancy", raw)
		}
		criteria.OccupancyTypes = append(criteria.OccupancyTypes, t)
	}
	for _, raw := range c.QueryArray("gender") {
		g, ok := model.ParseGenderPreference(raw)
		if !ok {
			return criteria, nil, badParam("gender", raw)
		}
		criteria.Genders = append(criteria.Genders, g)
	}

	criteria.Query = c.Query("q")

	if raw := c.Query("near_me"); raw != "" {
		nearMe, err := strconv.ParseBool(raw)
		if err != nil {
			return criteria, nil, badParam("near_me", raw)
		}
		criteria.NearMe = nearMe
	}

	user, err := parseUserCoordinate(c)
	if err != nil {
		return criteria, nil, err
	}
	return criteria, user, nil
}

// parseUserCoordinate reads the optional lat/lng pair. A missing pair just
// disables near-me ranking; a half-provided or malformed pair is an error.
func parseUserCoordinate(c *gin.Context) (*model.Coordinate, error) {
	rawLat, rawLng := c.Query("lat"), c.Query("lng")
	if rawLat == "" && rawLng == "" {
		return nil, nil
	}
	if rawLat == "" || rawLng == "" {
		return nil, badParam("lat/lng", "must be provided together")
	}

	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return nil, badParam("lat", rawLat)
	}
	lng, err := strconv.ParseFloat(rawLng, 64)
	if err != nil {
		return nil, badParam("lng", rawLng)
	}
	return &model.Coordinate{Lat: lat, Lng: lng}, nil
}

type paramError struct {
	name  string
	value string
}

func (e paramError) Error() string {
	return "invalid " + e.name + ": " + e.value
}

func badParam(name, value string) error {
	return paramError{name: name, value: value}
}

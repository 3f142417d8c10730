package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/mva/internal/storage"
	"github.com/your-org/mva/pkg/dto"
)

type EventHandler struct {
	db    *storage.PostgresStore
	minio *storage.MinIOStore
}

func NewEventHandler(db *storage.PostgresStore, minio *storage.MinIOStore) *EventHandler {
	return &EventHandler{db: db, minio: minio}
}

// List returns captured track snapshots for one stream, filterable by
// track_id, boundary crossed, and time range (pkg/dto.EventQuery).
func (h *EventHandler) List(c *gin.Context) {
	streamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stream id"})
		return
	}

	var from, to *time.Time
	if fromStr := c.Query("from"); fromStr != "" {
		if t, err := time.Parse(time.RFC3339, fromStr); err == nil {
			from = &t
		}
	}
	if toStr := c.Query("to"); toStr != "" {
		if t, err := time.Parse(time.RFC3339, toStr); err == nil {
			to = &t
		}
	}

	var trackID *int
	if tidStr := c.Query("track_id"); tidStr != "" {
		if id, err := strconv.Atoi(tidStr); err == nil {
			trackID = &id
		}
	}

	var bound *int
	if bStr := c.Query("bound"); bStr != "" {
		if b, err := strconv.Atoi(bStr); err == nil {
			bound = &b
		}
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	events, total, err := h.db.QueryEvents(c.Request.Context(), streamID, from, to, trackID, bound, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.EventResponse, 0, len(events))
	for _, ev := range events {
		r := dto.EventResponse{
			ID:         ev.ID,
			StreamID:   ev.StreamID,
			TrackID:    ev.TrackID,
			Timestamp:  ev.Timestamp.Format(time.RFC3339),
			FrameIndex: ev.FrameIndex,
			NormRect:   dto.RectResponse{X: ev.NormRect.X, Y: ev.NormRect.Y, W: ev.NormRect.W, H: ev.NormRect.H},
			OrigRect:   dto.RectResponse{X: ev.OrigRect.X, Y: ev.OrigRect.Y, W: ev.OrigRect.W, H: ev.OrigRect.H},
			Bound:      ev.Bound,
			CrossIn:    ev.CrossIn,
			Direction:  ev.Direction,
			CreatedAt:  ev.CreatedAt.Format(time.RFC3339),
		}
		if ev.SceneKey != "" {
			r.SceneURL = "/v1/events/" + ev.ID.String() + "/scene"
		}
		if ev.SliceKey != "" {
			r.SliceURL = "/v1/events/" + ev.ID.String() + "/slice"
		}
		if ev.MaskKey != "" {
			r.MaskURL = "/v1/events/" + ev.ID.String() + "/mask"
		}
		resp = append(resp, r)
	}

	c.JSON(http.StatusOK, dto.EventListResponse{Events: resp, Total: total})
}

// Scene proxies the full background-relative scene image (the frame at
// capture time) for one event, from MinIO.
func (h *EventHandler) Scene(c *gin.Context) {
	h.serveImage(c, func(ev *eventKeys) string { return ev.SceneKey })
}

// Slice proxies the cropped object slice image for one event, from MinIO.
func (h *EventHandler) Slice(c *gin.Context) {
	h.serveImage(c, func(ev *eventKeys) string { return ev.SliceKey })
}

// Mask proxies the foreground mask image for one event, from MinIO.
func (h *EventHandler) Mask(c *gin.Context) {
	h.serveImage(c, func(ev *eventKeys) string { return ev.MaskKey })
}

type eventKeys struct {
	SceneKey, SliceKey, MaskKey string
}

func (h *EventHandler) serveImage(c *gin.Context, pick func(*eventKeys) string) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	ev, err := h.db.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if ev == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	key := pick(&eventKeys{SceneKey: ev.SceneKey, SliceKey: ev.SliceKey, MaskKey: ev.MaskKey})
	if key == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no image for this event"})
		return
	}

	data, err := h.minio.GetObject(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}

	c.Data(http.StatusOK, "image/jpeg", data)
}

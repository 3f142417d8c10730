package dto

import "github.com/google/uuid"

// RectResponse mirrors models.RectDTO for API responses.
type RectResponse struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type EventResponse struct {
	ID         uuid.UUID    `json:"id"`
	StreamID   uuid.UUID    `json:"stream_id"`
	TrackID    int          `json:"track_id"`
	Timestamp  string       `json:"timestamp"`
	FrameIndex int32        `json:"frame_index"`
	NormRect   RectResponse `json:"norm_rect"`
	OrigRect   RectResponse `json:"orig_rect"`
	Bound      int          `json:"bound"`
	CrossIn    int          `json:"cross_in"`
	Direction  int          `json:"direction"`
	SceneURL   string       `json:"scene_url,omitempty"`
	SliceURL   string       `json:"slice_url,omitempty"`
	MaskURL    string       `json:"mask_url,omitempty"`
	CreatedAt  string       `json:"created_at"`
}

type EventListResponse struct {
	Events []EventResponse `json:"events"`
	Total  int             `json:"total"`
}

type EventQuery struct {
	StreamID string `form:"stream_id"`
	TrackID  string `form:"track_id"`
	Bound    string `form:"bound"`
	From     string `form:"from"`
	To       string `form:"to"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}

// WSEvent is a WebSocket message for real-time event/status delivery.
type WSEvent struct {
	Type     string        `json:"type"` // track_event, stream_status
	StreamID uuid.UUID     `json:"stream_id"`
	Data     EventResponse `json:"data,omitempty"`
	Status   string        `json:"status,omitempty"`
}

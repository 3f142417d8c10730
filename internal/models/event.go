package models

import (
	"time"

	"github.com/google/uuid"
)

// RectDTO is the wire/storage shape of a frame.Rect, kept as a plain
// struct here instead of importing internal/frame so the storage/
// transport layer doesn't depend on the core's geometry package.
type RectDTO struct {
	X, Y, W, H int
}

// Event is the persisted row for one captured track snapshot: the output
// of a track's SnapshotHistory, one row per emitted snapshot.Record.
// Scene/slice/mask images are stored in MinIO under the *Key fields when
// the stream's save_mode requested them.
type Event struct {
	ID         uuid.UUID `json:"id" db:"id"`
	StreamID   uuid.UUID `json:"stream_id" db:"stream_id"`
	TrackID    int       `json:"track_id" db:"track_id"`
	Timestamp  time.Time `json:"timestamp" db:"timestamp"`
	FrameIndex int32     `json:"frame_index" db:"frame_index"`
	NormRect   RectDTO   `json:"norm_rect" db:"-"`
	OrigRect   RectDTO   `json:"orig_rect" db:"-"`
	Bound      int       `json:"bound" db:"bound"`
	CrossIn    int       `json:"cross_in" db:"cross_in"`
	Direction  int       `json:"direction" db:"direction"`
	SceneKey   string    `json:"scene_key,omitempty" db:"scene_key"`
	SliceKey   string    `json:"slice_key,omitempty" db:"slice_key"`
	MaskKey    string    `json:"mask_key,omitempty" db:"mask_key"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// FrameTask is the message published to NATS for worker processing:
// one ingested frame awaiting background/blob/tracker processing.
type FrameTask struct {
	StreamID  uuid.UUID `json:"stream_id"`
	FrameID   uuid.UUID `json:"frame_id"`
	Timestamp time.Time `json:"timestamp"`
	FrameRef  string    `json:"frame_ref"` // MinIO object key
	Width     int       `json:"width"`
	Height    int       `json:"height"`
}

// TrackEventMsg is the message a tracking worker publishes to NATS for
// each snapshot a finalized track emits; the API service consumes it,
// persists it as an Event row, and broadcasts it over the WebSocket hub.
type TrackEventMsg struct {
	StreamID   uuid.UUID `json:"stream_id"`
	TrackID    int       `json:"track_id"`
	Timestamp  time.Time `json:"timestamp"`
	FrameIndex int32     `json:"frame_index"`
	NormRect   RectDTO   `json:"norm_rect"`
	OrigRect   RectDTO   `json:"orig_rect"`
	Bound      int       `json:"bound"`
	CrossIn    int       `json:"cross_in"`
	Direction  int       `json:"direction"`
	SceneKey   string    `json:"scene_key,omitempty"`
	SliceKey   string    `json:"slice_key,omitempty"`
	MaskKey    string    `json:"mask_key,omitempty"`
}

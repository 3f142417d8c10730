package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/your-org/mva/internal/config"
	"github.com/your-org/mva/internal/models"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(cfg config.DatabaseConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Streams ---

func (s *PostgresStore) CreateStream(ctx context.Context, st *models.Stream) error {
	st.ID = uuid.New()
	st.Status = models.StreamStatusStopped
	if st.Config == nil {
		st.Config = json.RawMessage("{}")
	}
	return s.pool.QueryRow(ctx,
		`INSERT INTO streams (id, url, stream_type, fps, status, config)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at, updated_at`,
		st.ID, st.URL, st.StreamType, st.FPS, st.Status, st.Config,
	).Scan(&st.CreatedAt, &st.UpdatedAt)
}

func (s *PostgresStore) GetStream(ctx context.Context, id uuid.UUID) (*models.Stream, error) {
	st := &models.Stream{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, url, stream_type, fps, status, config, error_message, created_at, updated_at
		 FROM streams WHERE id = $1`, id,
	).Scan(&st.ID, &st.URL, &st.StreamType, &st.FPS, &st.Status,
		&st.Config, &st.ErrorMessage, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get stream: %w", err)
	}
	return st, nil
}

func (s *PostgresStore) ListStreams(ctx context.Context) ([]models.Stream, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, url, stream_type, fps, status, config, error_message, created_at, updated_at
		 FROM streams ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list streams: %w", err)
	}
	defer rows.Close()

	var streams []models.Stream
	for rows.Next() {
		var st models.Stream
		if err := rows.Scan(&st.ID, &st.URL, &st.StreamType, &st.FPS, &st.Status,
			&st.Config, &st.ErrorMessage, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stream: %w", err)
		}
		streams = append(streams, st)
	}
	return streams, nil
}

func (s *PostgresStore) UpdateStreamStatus(ctx context.Context, id uuid.UUID, status models.StreamStatus, errMsg string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE streams SET status = $1, error_message = $2 WHERE id = $3`,
		status, errMsg, id)
	return err
}

func (s *PostgresStore) DeleteStream(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM streams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stream: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("stream not found")
	}
	return nil
}

// --- Events (captured track snapshots) ---

func (s *PostgresStore) CreateEvent(ctx context.Context, ev *models.Event) error {
	ev.ID = uuid.New()
	ev.CreatedAt = time.Now()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO events (id, stream_id, track_id, timestamp, frame_index,
		                      norm_x, norm_y, norm_w, norm_h,
		                      orig_x, orig_y, orig_w, orig_h,
		                      bound, cross_in, direction,
		                      scene_key, slice_key, mask_key, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		ev.ID, ev.StreamID, ev.TrackID, ev.Timestamp, ev.FrameIndex,
		ev.NormRect.X, ev.NormRect.Y, ev.NormRect.W, ev.NormRect.H,
		ev.OrigRect.X, ev.OrigRect.Y, ev.OrigRect.W, ev.OrigRect.H,
		ev.Bound, ev.CrossIn, ev.Direction,
		ev.SceneKey, ev.SliceKey, ev.MaskKey, ev.CreatedAt)
	return err
}

// QueryEvents lists events for one stream, optionally filtered by track
// and/or boundary crossed, newest first.
func (s *PostgresStore) QueryEvents(ctx context.Context, streamID uuid.UUID, from, to *time.Time, trackID *int, bound *int, limit, offset int) ([]models.Event, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	baseWhere := "WHERE stream_id = $1"
	args := []interface{}{streamID}
	argIdx := 2

	if from != nil {
		baseWhere += fmt.Sprintf(" AND timestamp >= $%d", argIdx)
		args = append(args, *from)
		argIdx++
	}
	if to != nil {
		baseWhere += fmt.Sprintf(" AND timestamp <= $%d", argIdx)
		args = append(args, *to)
		argIdx++
	}
	if trackID != nil {
		baseWhere += fmt.Sprintf(" AND track_id = $%d", argIdx)
		args = append(args, *trackID)
		argIdx++
	}
	if bound != nil {
		baseWhere += fmt.Sprintf(" AND bound = $%d", argIdx)
		args = append(args, *bound)
		argIdx++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM events " + baseWhere
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT id, stream_id, track_id, timestamp, frame_index,
		        norm_x, norm_y, norm_w, norm_h, orig_x, orig_y, orig_w, orig_h,
		        bound, cross_in, direction, scene_key, slice_key, mask_key, created_at
		 FROM events %s ORDER BY timestamp DESC LIMIT $%d OFFSET $%d`,
		baseWhere, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var ev models.Event
		if err := rows.Scan(&ev.ID, &ev.StreamID, &ev.TrackID, &ev.Timestamp, &ev.FrameIndex,
			&ev.NormRect.X, &ev.NormRect.Y, &ev.NormRect.W, &ev.NormRect.H,
			&ev.OrigRect.X, &ev.OrigRect.Y, &ev.OrigRect.W, &ev.OrigRect.H,
			&ev.Bound, &ev.CrossIn, &ev.Direction,
			&ev.SceneKey, &ev.SliceKey, &ev.MaskKey, &ev.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, ev)
	}
	return events, total, nil
}

// GetEvent returns a single event by ID.
func (s *PostgresStore) GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var ev models.Event
	err := s.pool.QueryRow(ctx,
		`SELECT id, stream_id, track_id, timestamp, frame_index,
		        norm_x, norm_y, norm_w, norm_h, orig_x, orig_y, orig_w, orig_h,
		        bound, cross_in, direction, scene_key, slice_key, mask_key, created_at
		 FROM events WHERE id = $1`, id).
		Scan(&ev.ID, &ev.StreamID, &ev.TrackID, &ev.Timestamp, &ev.FrameIndex,
			&ev.NormRect.X, &ev.NormRect.Y, &ev.NormRect.W, &ev.NormRect.H,
			&ev.OrigRect.X, &ev.OrigRect.Y, &ev.OrigRect.W, &ev.OrigRect.H,
			&ev.Bound, &ev.CrossIn, &ev.Direction,
			&ev.SceneKey, &ev.SliceKey, &ev.MaskKey, &ev.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &ev, nil
}

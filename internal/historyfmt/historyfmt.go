// Package historyfmt renders finished TrackUpdates into two fixed-width
// text reports: one row per emitted snapshot in an object-info table, and
// one "Vehicle Count/ID/Size" block per track's quantitative history.
// Both are plain, append-only text formats meant for offline review, not
// an API payload; the API/WS JSON representation of emitted snapshots
// (EventResponse) lives in pkg/dto.
package historyfmt

import (
	"fmt"
	"io"

	"github.com/your-org/mva/internal/tracker"
)

// ObjectInfoHeader is the fixed column header written once at the top of
// the object-info file.
const ObjectInfoHeader = "      ID        Time       Count       X       Y       W       H"

// WriteObjectInfo appends one row per snapshot record across every final
// TrackUpdate in updates (tracks without a snapshot history contribute no
// rows), using a fixed setw(8)/(12)/(12)/(8x4) column layout.
func WriteObjectInfo(w io.Writer, updates []tracker.TrackUpdate) error {
	for _, u := range updates {
		if !u.IsFinal {
			continue
		}
		for j, snap := range u.Snapshots {
			_, err := fmt.Fprintf(w, "%8d%12d%12d%8d%8d%8d%8d\n",
				u.ID, snap.TimeMs, j,
				snap.NormRect.X, snap.NormRect.Y, snap.NormRect.W, snap.NormRect.H)
			if err != nil {
				return fmt.Errorf("historyfmt: write object info row: %w", err)
			}
		}
	}
	return nil
}

// WriteHistoryBlock appends one "Vehicle Count/ID/Size" block for u when
// its quantitative history is non-empty; it does not check IsFinal.
// vehicleCount is written as given: the running count across the session
// is kept by the caller (WriteAllHistoryBlocks increments it once per
// block it writes).
func WriteHistoryBlock(w io.Writer, vehicleCount int, u tracker.TrackUpdate) error {
	if len(u.History) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "Vehicle Count: %d\n", vehicleCount); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "ID:            %d\n", u.ID); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Size:          %d\n", len(u.History)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "Frame Count Time Stamp       x       y       w       h"); err != nil {
		return err
	}
	for _, rec := range u.History {
		_, err := fmt.Fprintf(w, "%11d%11d%8d%8d%8d%8d\n",
			rec.FrameIndex, rec.TimeMs, rec.Rect.X, rec.Rect.Y, rec.Rect.W, rec.Rect.H)
		if err != nil {
			return fmt.Errorf("historyfmt: write history row: %w", err)
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// WriteAllHistoryBlocks writes one block per final track in updates with a
// non-empty history, incrementing vehicleCount for each. Returns the
// updated running count for the caller to persist across calls.
func WriteAllHistoryBlocks(w io.Writer, vehicleCount int, updates []tracker.TrackUpdate) (int, error) {
	for _, u := range updates {
		if !u.IsFinal || len(u.History) == 0 {
			continue
		}
		vehicleCount++
		if err := WriteHistoryBlock(w, vehicleCount, u); err != nil {
			return vehicleCount, err
		}
	}
	return vehicleCount, nil
}

package blob

import "github.com/your-org/mva/internal/frame"

// RectInfo is the stable-rectangle detector's bookkeeping record (spec
// §3): it tracks how many consecutive frames a candidate rectangle has
// matched closely enough to be considered part of the static scene (e.g.
// a parked car), independent of the per-track association in
// internal/tracker.
type RectInfo struct {
	Rect       frame.Rect
	MatchCount int
	MissCount  int
}

// stableTracker maintains the RectInfo list across calls to Process.
type stableTracker struct {
	infos []*RectInfo
	cfg   Config
}

func newStableTracker(cfg Config) *stableTracker {
	return &stableTracker{cfg: cfg}
}

// update matches this frame's rects against the RectInfo list, advancing
// match/miss counts, and returns the rectangles currently considered
// stable (match_count > StableMatchStable).
func (s *stableTracker) update(rects []frame.Rect) []frame.Rect {
	matched := make([]bool, len(rects))

	for _, info := range s.infos {
		best := -1
		bestIoU := 0.0
		threshold := s.cfg.StableIoUSmall
		if info.Rect.Area() >= s.cfg.StableSizeThreshold {
			threshold = s.cfg.StableIoULarge
		}
		for i, r := range rects {
			if matched[i] {
				continue
			}
			iou := info.Rect.IoU(r)
			if iou >= threshold && iou > bestIoU {
				best = i
				bestIoU = iou
			}
		}
		if best >= 0 {
			matched[best] = true
			info.Rect = rects[best]
			info.MatchCount++
			info.MissCount = 0
		} else {
			info.MissCount++
		}
	}

	kept := s.infos[:0]
	for _, info := range s.infos {
		if info.MissCount <= s.cfg.StableMissLimit {
			kept = append(kept, info)
		}
	}
	s.infos = kept

	for i, r := range rects {
		if !matched[i] {
			s.infos = append(s.infos, &RectInfo{Rect: r})
		}
	}

	var stable []frame.Rect
	for _, info := range s.infos {
		if info.MatchCount > s.cfg.StableMatchStable {
			stable = append(stable, info.Rect)
		}
	}
	return stable
}

// Package tracker associates BlobExtractor's rectangles across frames
// into identity-bearing tracks, delegating per-track history bookkeeping
// to QuantHistory and per-track capture decisions to the snapshot
// package.
package tracker

import (
	"math"
	"sort"

	"github.com/your-org/mva/internal/frame"
	"github.com/your-org/mva/internal/geometry"
	"github.com/your-org/mva/internal/imageops"
	"github.com/your-org/mva/internal/tracker/snapshot"
)

const idWrapAt = 1_000_000

// Tracker runs the per-frame association/lifecycle state machine over a
// shared ROI and (depending on RecordMode) a cross loop or cross line.
type Tracker struct {
	cfg    Config
	roi    *geometry.RegionOfInterest
	loop   *geometry.VirtualLoop
	line   *geometry.LineSegment
	tracks []*Track
	nextID int
}

func New(cfg Config, roi *geometry.RegionOfInterest, loop *geometry.VirtualLoop, line *geometry.LineSegment) *Tracker {
	return &Tracker{cfg: cfg, roi: roi, loop: loop, line: line, nextID: 1}
}

// NewStaticTracker builds a tracker for stationary-object detection
// (parked vehicles, abandoned objects): direction-reversal deletion and
// the multi-candidate regression tie-break are always disabled, since a
// genuinely static object has no trajectory to reverse or regress.
func NewStaticTracker(cfg Config, roi *geometry.RegionOfInterest) *Tracker {
	cfg.CheckTurnAround = false
	cfg.MaxHistoryForDistMatch = math.MaxInt
	return New(cfg, roi, nil, nil)
}

// Process runs one frame through the association algorithm and returns
// the TrackUpdates to emit, ordered by track ID. gradDiffMeans is parallel
// to rects (pass nil for all-zero).
func (t *Tracker) Process(timeMs int64, frameIndex int32, rects []frame.Rect, gradDiffMeans []float64, scene *frame.Frame, fore imageops.Mask) []TrackUpdate {
	rects, gradDiffMeans = t.filterToROI(rects, gradDiffMeans)
	sceneProxy := snapshot.NewSceneProxy(scene)
	foreProxy := snapshot.NewForeProxy(fore)

	if t.cfg.CheckTurnAround {
		for _, tr := range t.tracks {
			if tr.Quant.CheckTurnAround() {
				tr.ToBeDeleted = true
			}
		}
	}

	candidatesByTrack := map[int][]int{}
	var newCandidates []int

	for ri, r := range rects {
		bestTrack, bestDist := t.nearestTrack(r)
		if bestTrack < 0 {
			newCandidates = append(newCandidates, ri)
			continue
		}
		toSelf, toBlob := t.tracks[bestTrack].CurrentRect.OverlapRatios(r)
		if bestDist > t.cfg.MaxDistRectAndBlob && toSelf < t.cfg.MinRatioIntersectToSelf && toBlob < t.cfg.MinRatioIntersectToBlob {
			newCandidates = append(newCandidates, ri)
		} else {
			candidatesByTrack[bestTrack] = append(candidatesByTrack[bestTrack], ri)
		}
	}

	chosen := map[int]int{}
	for ti, rectIdxs := range candidatesByTrack {
		if len(rectIdxs) == 1 {
			chosen[ti] = rectIdxs[0]
			continue
		}
		best, unchosen := t.resolveMultiMatch(t.tracks[ti], rects, rectIdxs)
		chosen[ti] = best
		newCandidates = append(newCandidates, unchosen...)
	}

	for ti, ri := range chosen {
		tr := t.tracks[ti]
		r := rects[ri]
		if !t.roi.Intersects(r) {
			tr.ToBeDeleted = true
			continue
		}
		prevCenter := tr.CurrentRect.Center()
		tr.CurrentRect = r
		origRect := t.scaleToOrig(r)
		tr.Quant.PushRecord(r, origRect, gradIdx(gradDiffMeans, ri), timeMs, frameIndex)
		tr.Snapshot.Update(prevCenter, r.Center(), r, origRect, timeMs, frameIndex, sceneProxy, foreProxy)
	}
	for ti, tr := range t.tracks {
		if _, ok := chosen[ti]; !ok {
			tr.ToBeDeleted = true
		}
	}

	for _, ri := range newCandidates {
		r := rects[ri]
		id := t.nextTrackID()
		tr := newTrack(id, r, t.newSnapshotHistory())
		tr.Quant.PushRecord(r, t.scaleToOrig(r), gradIdx(gradDiffMeans, ri), timeMs, frameIndex)
		t.tracks = append(t.tracks, tr)
	}

	return t.collectUpdates(false)
}

// Final flushes every remaining track as a final TrackUpdate (end of
// video / stream teardown).
func (t *Tracker) Final() []TrackUpdate {
	updates := t.collectUpdates(true)
	t.tracks = nil
	return updates
}

func (t *Tracker) collectUpdates(flushAll bool) []TrackUpdate {
	var updates []TrackUpdate
	remaining := t.tracks[:0]
	for _, tr := range t.tracks {
		final := flushAll || tr.ToBeDeleted
		if final {
			if len(tr.Quant.Records) >= t.cfg.MinHistorySizeForOutput {
				updates = append(updates, TrackUpdate{
					ID: tr.ID, CurrentRect: tr.CurrentRect, IsFinal: true,
					History: tr.Quant.Records, Snapshots: tr.Snapshot.Output(),
				})
			}
			continue
		}
		updates = append(updates, TrackUpdate{ID: tr.ID, CurrentRect: tr.CurrentRect, IsFinal: false})
		remaining = append(remaining, tr)
	}
	if !flushAll {
		t.tracks = remaining
	}
	sort.Slice(updates, func(i, j int) bool { return updates[i].ID < updates[j].ID })
	return updates
}

func (t *Tracker) filterToROI(rects []frame.Rect, grad []float64) ([]frame.Rect, []float64) {
	outR := rects[:0]
	var outG []float64
	for i, r := range rects {
		if !t.roi.Intersects(r) {
			continue
		}
		outR = append(outR, r)
		if grad != nil {
			outG = append(outG, grad[i])
		}
	}
	return outR, outG
}

func (t *Tracker) nearestTrack(r frame.Rect) (int, float64) {
	best, bestDist := -1, math.MaxFloat64
	for ti, tr := range t.tracks {
		if tr.ToBeDeleted {
			continue
		}
		d := centerDistance(tr.CurrentRect.Center(), r.Center())
		if d < bestDist {
			bestDist, best = d, ti
		}
	}
	return best, bestDist
}

// resolveMultiMatch decides which of a track's several candidate
// rectangles this frame it actually matches, returning the chosen index
// into rects and the rest as new-track candidates.
func (t *Tracker) resolveMultiMatch(tr *Track, rects []frame.Rect, candIdxs []int) (int, []int) {
	useDistance := len(tr.Quant.Records) < t.cfg.MaxHistoryForDistMatch

	allSmall := true
	for _, ri := range candIdxs {
		_, toBlob := tr.CurrentRect.OverlapRatios(rects[ri])
		if toBlob >= 0.2 {
			allSmall = false
			break
		}
	}

	var fit LinearFit
	meanErrHigh := false
	if !useDistance {
		centers := make([]frame.Point, len(tr.Quant.Records))
		for i, rec := range tr.Quant.Records {
			centers[i] = rec.Center
		}
		fit = LinearRegres(centers)
		meanErrHigh = fit.MeanError > 15
	}

	pickByDistance := useDistance || meanErrHigh || allSmall
	best := candIdxs[0]
	if pickByDistance {
		bestD := centerDistance(tr.CurrentRect.Center(), rects[best].Center())
		for _, ri := range candIdxs[1:] {
			d := centerDistance(tr.CurrentRect.Center(), rects[ri].Center())
			if d < bestD {
				bestD, best = d, ri
			}
		}
	} else {
		bestD := fit.DistanceToLine(rects[best].Center())
		for _, ri := range candIdxs[1:] {
			d := fit.DistanceToLine(rects[ri].Center())
			if d < bestD {
				bestD, best = d, ri
			}
		}
	}

	var unchosen []int
	for _, ri := range candIdxs {
		if ri != best {
			unchosen = append(unchosen, ri)
		}
	}
	return best, unchosen
}

func (t *Tracker) newSnapshotHistory() *snapshot.History {
	switch t.cfg.RecordMode {
	case RecordCrossTriBound:
		return snapshot.NewCrossTriBound(t.loop)
	case RecordCrossBottom:
		return snapshot.NewCrossBottom(t.loop)
	case RecordCrossLine:
		return snapshot.NewCrossLine(t.line)
	case RecordMultiRecord:
		return snapshot.NewMultiRecord(t.cfg.MultiRecordNum, t.cfg.MultiRecordPeriod, t.cfg.FrameW, t.cfg.FrameH)
	default:
		return snapshot.NewNone()
	}
}

func (t *Tracker) nextTrackID() int {
	for {
		id := t.nextID
		t.nextID++
		if t.nextID > idWrapAt {
			t.nextID = 0
		}
		inUse := false
		for _, tr := range t.tracks {
			if tr.ID == id {
				inUse = true
				break
			}
		}
		if !inUse {
			return id
		}
	}
}

func (t *Tracker) scaleToOrig(r frame.Rect) frame.Rect {
	if t.cfg.OrigW == 0 || t.cfg.OrigH == 0 {
		return r
	}
	return r.Scale(t.cfg.FrameW, t.cfg.FrameH, t.cfg.OrigW, t.cfg.OrigH)
}

func centerDistance(a, b frame.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

func gradIdx(grad []float64, i int) float64 {
	if grad == nil || i >= len(grad) {
		return 0
	}
	return grad[i]
}

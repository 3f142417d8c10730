// Package snapshot implements the four SnapshotHistory strategies that
// decide, per track, when to capture an image and which captured image
// ultimately gets reported. The original represents these as sibling
// subclasses of one virtual base; here they are one tagged variant
// dispatched by Kind, not an interface/vtable.
package snapshot

import (
	"github.com/your-org/mva/internal/frame"
	"github.com/your-org/mva/internal/geometry"
	"github.com/your-org/mva/internal/imageops"
)

// Kind selects which strategy a History uses.
type Kind int

const (
	KindNone Kind = iota
	KindCrossTriBound
	KindCrossBottom
	KindCrossLine
	KindMultiRecord
)

// Bound identifies which loop side a CrossTriBound/CrossBottom record
// fired on: -1 means no crossing was observed (the auxiliary record).
const (
	BoundNone   = -1
	BoundLeft   = 1
	BoundRight  = 2
	BoundBottom = 3
)

// Direction encodes the inferred direction of travel; -1 means unknown.
const (
	DirUnknown      = -1
	DirLeftToRight  = 1
	DirRightToLeft  = 2
	DirTopToBottom  = 3
	DirBottomToTop  = 4
)

// maxDistToRecord is CrossLine's capture-distance threshold, in pixels.
const maxDistToRecord = 15.0

// Record is one captured (or about-to-be-captured) snapshot.
type Record struct {
	NormRect   frame.Rect
	OrigRect   frame.Rect
	TimeMs     int64
	FrameIndex int32
	Bound      int
	CrossIn    int
	Direction  int
	Scene      *frame.Frame
	Mask       *imageops.Mask
}

// History is the tagged-variant SnapshotHistory. Construct one of the
// Kind-specific constructors below; Update/Output dispatch on Kind.
type History struct {
	kind Kind

	loop *geometry.VirtualLoop
	line *geometry.LineSegment

	left, right, bottom *Record
	aux                 *Record

	lineRecord *Record
	lineDist   float64
	lineTicks  int

	maxNum, interval, frameW, frameH, inset int
	tick                                    int
	bag                                     []*Record
}

func NewCrossTriBound(loop *geometry.VirtualLoop) *History {
	return &History{kind: KindCrossTriBound, loop: loop}
}

func NewCrossBottom(loop *geometry.VirtualLoop) *History {
	return &History{kind: KindCrossBottom, loop: loop}
}

func NewCrossLine(line *geometry.LineSegment) *History {
	return &History{kind: KindCrossLine, line: line}
}

func NewMultiRecord(maxNum, interval, frameW, frameH int) *History {
	return &History{kind: KindMultiRecord, maxNum: maxNum, interval: interval, frameW: frameW, frameH: frameH, inset: 5}
}

func NewNone() *History { return &History{kind: KindNone} }

// Update feeds one frame's worth of track state to the strategy. prev/cur
// are the track's center in consecutive frames (used by the crossing
// strategies); scene/fore are lazy proxies materialized only if the
// strategy decides to keep this frame's snapshot.
func (h *History) Update(prev, cur frame.Point, normRect, origRect frame.Rect, timeMs int64, frameIndex int32, scene *SceneProxy, fore *ForeProxy) {
	switch h.kind {
	case KindCrossTriBound:
		h.updateTriBound(prev, cur, normRect, origRect, timeMs, frameIndex, scene, fore, true)
	case KindCrossBottom:
		h.updateTriBound(prev, cur, normRect, origRect, timeMs, frameIndex, scene, fore, false)
	case KindCrossLine:
		h.updateCrossLine(cur, normRect, origRect, timeMs, frameIndex, scene, fore)
	case KindMultiRecord:
		h.updateMultiRecord(normRect, origRect, timeMs, frameIndex, scene, fore)
	}
}

// Output returns the record(s) this track should emit at final().
func (h *History) Output() []Record {
	switch h.kind {
	case KindCrossTriBound, KindCrossBottom:
		return h.outputTriBound()
	case KindCrossLine:
		if h.lineRecord != nil {
			return []Record{*h.lineRecord}
		}
		return nil
	case KindMultiRecord:
		out := make([]Record, 0, len(h.bag))
		for _, r := range h.bag {
			out = append(out, *r)
		}
		return out
	default:
		return nil
	}
}

func (h *History) updateTriBound(prev, cur frame.Point, normRect, origRect frame.Rect, timeMs int64, frameIndex int32, scene *SceneProxy, fore *ForeProxy, includeLeftRight bool) {
	build := func(bound, crossIn, direction int) *Record {
		return &Record{
			NormRect: normRect, OrigRect: origRect, TimeMs: timeMs, FrameIndex: frameIndex,
			Bound: bound, CrossIn: crossIn, Direction: direction,
			Scene: scene.Get(), Mask: fore.Get(),
		}
	}

	if includeLeftRight {
		if h.left == nil && h.loop.LeftOfLeft(prev) != h.loop.LeftOfLeft(cur) {
			crossIn, dir := -1, DirRightToLeft
			if h.loop.LeftOfLeft(cur) {
				crossIn, dir = -1, DirRightToLeft
			} else {
				crossIn, dir = 1, DirLeftToRight
			}
			h.left = build(BoundLeft, crossIn, dir)
		}
		if h.right == nil && h.loop.RightOfRight(prev) != h.loop.RightOfRight(cur) {
			crossIn, dir := 1, DirLeftToRight
			if h.loop.RightOfRight(cur) {
				crossIn, dir = 1, DirLeftToRight
			} else {
				crossIn, dir = -1, DirRightToLeft
			}
			h.right = build(BoundRight, crossIn, dir)
		}
	}
	if h.bottom == nil && h.loop.BelowBottom(prev) != h.loop.BelowBottom(cur) {
		crossIn, dir := 1, DirTopToBottom
		if !h.loop.BelowBottom(cur) {
			crossIn, dir = -1, DirBottomToTop
		}
		h.bottom = build(BoundBottom, crossIn, dir)
	}

	if h.aux == nil || normRect.Area() > h.aux.NormRect.Area() {
		h.aux = build(BoundNone, 0, DirUnknown)
	}
}

func (h *History) outputTriBound() []Record {
	var candidates []*Record
	for _, r := range []*Record{h.left, h.right, h.bottom} {
		if r != nil {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		if h.aux != nil {
			return []Record{*h.aux}
		}
		return nil
	}
	best := candidates[0]
	for _, r := range candidates[1:] {
		if r.TimeMs < best.TimeMs {
			best = r
		}
	}
	return []Record{*best}
}

func (h *History) updateCrossLine(cur frame.Point, normRect, origRect frame.Rect, timeMs int64, frameIndex int32, scene *SceneProxy, fore *ForeProxy) {
	dist := h.line.Distance(cur)
	if dist >= maxDistToRecord {
		return
	}
	if h.lineRecord == nil {
		h.lineRecord = &Record{
			NormRect: normRect, OrigRect: origRect, TimeMs: timeMs, FrameIndex: frameIndex,
			Bound: BoundNone, CrossIn: 0, Direction: DirUnknown,
			Scene: scene.Get(), Mask: fore.Get(),
		}
		h.lineDist = dist
		h.lineTicks = 1
		return
	}
	h.lineTicks++
	if h.lineTicks%3 == 0 && dist < h.lineDist {
		h.lineRecord = &Record{
			NormRect: normRect, OrigRect: origRect, TimeMs: timeMs, FrameIndex: frameIndex,
			Bound: BoundNone, CrossIn: 0, Direction: DirUnknown,
			Scene: scene.Get(), Mask: fore.Get(),
		}
		h.lineDist = dist
	}
}

func (h *History) updateMultiRecord(normRect, origRect frame.Rect, timeMs int64, frameIndex int32, scene *SceneProxy, fore *ForeProxy) {
	h.tick++
	if h.interval > 0 && h.tick%h.interval != 0 {
		return
	}
	candidate := &Record{
		NormRect: normRect, OrigRect: origRect, TimeMs: timeMs, FrameIndex: frameIndex,
		Bound: BoundNone, CrossIn: 0, Direction: DirUnknown,
	}
	isInterior := func(r frame.Rect) bool {
		return r.X >= h.inset && r.Y >= h.inset && r.Right() <= h.frameW-h.inset && r.Bottom() <= h.frameH-h.inset
	}
	materialize := func() {
		candidate.Scene = scene.Get()
		candidate.Mask = fore.Get()
	}

	if len(h.bag) < h.maxNum {
		materialize()
		h.bag = append(h.bag, candidate)
		return
	}

	allInterior := true
	for _, r := range h.bag {
		if !isInterior(r.NormRect) {
			allInterior = false
			break
		}
	}

	if allInterior {
		if !isInterior(normRect) {
			return
		}
		smallest := 0
		for i, r := range h.bag {
			if r.NormRect.Area() < h.bag[smallest].NormRect.Area() {
				smallest = i
			}
		}
		if candidate.NormRect.Area() > h.bag[smallest].NormRect.Area() {
			materialize()
			h.bag[smallest] = candidate
		}
		return
	}

	if isInterior(normRect) {
		for i, r := range h.bag {
			if !isInterior(r.NormRect) {
				materialize()
				h.bag[i] = candidate
				return
			}
		}
		return
	}

	smallestBorder := -1
	for i, r := range h.bag {
		if isInterior(r.NormRect) {
			continue
		}
		if smallestBorder < 0 || r.NormRect.Area() < h.bag[smallestBorder].NormRect.Area() {
			smallestBorder = i
		}
	}
	if smallestBorder >= 0 && candidate.NormRect.Area() > h.bag[smallestBorder].NormRect.Area() {
		materialize()
		h.bag[smallestBorder] = candidate
	}
}

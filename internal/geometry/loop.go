package geometry

import (
	"math"

	"github.com/your-org/mva/internal/frame"
)

// lineEq is a 2D line in one of two canonical forms, chosen by axis: for
// near-vertical sides (left/right) x = k*y + b; for near-horizontal sides
// (top/bottom) y = k*x + b.
type lineEq struct {
	k, b     float64
	vertical bool // true: x = k*y + b, false: y = k*x + b
}

func newLineEqVertical(p0, p1 frame.Point) lineEq {
	dy := float64(p1.Y - p0.Y)
	if dy == 0 {
		dy = 1e-9
	}
	k := float64(p1.X-p0.X) / dy
	b := float64(p0.X) - k*float64(p0.Y)
	return lineEq{k: k, b: b, vertical: true}
}

func newLineEqHorizontal(p0, p1 frame.Point) lineEq {
	dx := float64(p1.X - p0.X)
	if dx == 0 {
		dx = 1e-9
	}
	k := float64(p1.Y-p0.Y) / dx
	b := float64(p0.Y) - k*float64(p0.X)
	return lineEq{k: k, b: b, vertical: false}
}

// signedOffset returns p's signed distance (in the line's own axis) from
// the line: positive means p is to the "high" side (right of a vertical
// line, below a horizontal one).
func (l lineEq) signedOffset(p frame.Point) float64 {
	if l.vertical {
		expectedX := l.k*float64(p.Y) + l.b
		return float64(p.X) - expectedX
	}
	expectedY := l.k*float64(p.X) + l.b
	return float64(p.Y) - expectedY
}

// VirtualLoop is a quadrilateral named by corner role (left-top,
// left-bottom, right-bottom, right-top), with four precomputed line
// equations answering half-plane and distance queries in O(1).
type VirtualLoop struct {
	LT, LB, RB, RT frame.Point
	left, right    lineEq // vertical-form: x = k*y + b
	top, bottom    lineEq // horizontal-form: y = k*x + b
}

// NewVirtualLoop builds a loop from its four vertices in
// left-top, left-bottom, right-bottom, right-top order.
func NewVirtualLoop(lt, lb, rb, rt frame.Point) *VirtualLoop {
	return &VirtualLoop{
		LT: lt, LB: lb, RB: rb, RT: rt,
		left:   newLineEqVertical(lt, lb),
		right:  newLineEqVertical(rt, rb),
		top:    newLineEqHorizontal(lt, rt),
		bottom: newLineEqHorizontal(lb, rb),
	}
}

// Side identifies which of the loop's four sides was crossed.
type Side int

const (
	SideNone Side = iota
	SideLeft
	SideRight
	SideTop
	SideBottom
)

func (v *VirtualLoop) AboveTop(p frame.Point) bool    { return v.top.signedOffset(p) < 0 }
func (v *VirtualLoop) BelowBottom(p frame.Point) bool { return v.bottom.signedOffset(p) > 0 }
func (v *VirtualLoop) LeftOfLeft(p frame.Point) bool  { return v.left.signedOffset(p) < 0 }
func (v *VirtualLoop) RightOfRight(p frame.Point) bool {
	return v.right.signedOffset(p) > 0
}

// DistanceTo returns the perpendicular distance from p to the named side's
// line (not clamped to the segment; callers combine with the half-plane
// tests above for line-equation based bookkeeping).
func (v *VirtualLoop) DistanceTo(side Side, p frame.Point) float64 {
	var l lineEq
	switch side {
	case SideLeft:
		l = v.left
	case SideRight:
		l = v.right
	case SideTop:
		l = v.top
	case SideBottom:
		l = v.bottom
	default:
		return 0
	}
	// signedOffset is measured along the line's own axis; scale it to the normal.
	return math.Abs(l.signedOffset(p)) / math.Sqrt(1+l.k*l.k)
}

// Crossed reports which side of the loop a point crossed, comparing its
// position this frame (p) against last frame (prev). Only one crossing is
// reported per call, in left/right/top/bottom priority order.
func (v *VirtualLoop) Crossed(prev, cur frame.Point) Side {
	if v.LeftOfLeft(prev) != v.LeftOfLeft(cur) {
		return SideLeft
	}
	if v.RightOfRight(prev) != v.RightOfRight(cur) {
		return SideRight
	}
	if v.AboveTop(prev) != v.AboveTop(cur) {
		return SideTop
	}
	if v.BelowBottom(prev) != v.BelowBottom(cur) {
		return SideBottom
	}
	return SideNone
}

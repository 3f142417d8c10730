package geometry

import (
	"math"

	"github.com/your-org/mva/internal/frame"
)

// LineSegment is a directed line segment used for the CrossLine snapshot
// trigger: internally a normalized line equation ax+by+c=0 (a²+b²=1), a
// thickened interior strip between the two parallel lines through the
// endpoints, and a sign remembering which half-plane was named "begin
// side".
type LineSegment struct {
	P0, P1     frame.Point
	a, b, c    float64
	beginSign  float64 // sign of a*x+b*y+c at the beginSidePoint given to NewLineSegment
}

// NewLineSegment builds a directed segment from p0 to p1. beginSidePoint
// picks which half-plane is "begin" (e.g. outside the loop).
func NewLineSegment(p0, p1, beginSidePoint frame.Point) *LineSegment {
	dx := float64(p1.X - p0.X)
	dy := float64(p1.Y - p0.Y)
	norm := math.Hypot(dx, dy)
	if norm == 0 {
		norm = 1e-9
	}
	// Line direction (dx, dy); normal is (-dy, dx)/norm.
	a := -dy / norm
	b := dx / norm
	c := -(a*float64(p0.X) + b*float64(p0.Y))
	sign := a*float64(beginSidePoint.X) + b*float64(beginSidePoint.Y) + c
	return &LineSegment{P0: p0, P1: p1, a: a, b: b, c: c, beginSign: signOf(sign)}
}

func signOf(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// Side returns +1 if p is on the "begin" side, -1 otherwise, 0 exactly on
// the line.
func (l *LineSegment) Side(p frame.Point) float64 {
	v := l.a*float64(p.X) + l.b*float64(p.Y) + l.c
	if v == 0 {
		return 0
	}
	return signOf(v) * l.beginSign
}

// Distance returns the distance from p to the segment: the perpendicular
// distance from the infinite line when p's projection falls within the
// thickened interior strip between P0 and P1, else the distance to the
// nearer endpoint.
func (l *LineSegment) Distance(p frame.Point) float64 {
	dx := float64(l.P1.X - l.P0.X)
	dy := float64(l.P1.Y - l.P0.Y)
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(float64(p.X-l.P0.X), float64(p.Y-l.P0.Y))
	}
	t := (float64(p.X-l.P0.X)*dx + float64(p.Y-l.P0.Y)*dy) / lenSq
	if t < 0 {
		return math.Hypot(float64(p.X-l.P0.X), float64(p.Y-l.P0.Y))
	}
	if t > 1 {
		return math.Hypot(float64(p.X-l.P1.X), float64(p.Y-l.P1.Y))
	}
	return math.Abs(l.a*float64(p.X) + l.b*float64(p.Y) + l.c)
}

// CrossingInward reports whether the segment from prev to cur crosses this
// line moving from the "begin" side to the other side (cross_in = 1) or
// the reverse (cross_in = -1); 0 means no crossing this step.
func (l *LineSegment) CrossingInward(prev, cur frame.Point) int {
	ps, cs := l.Side(prev), l.Side(cur)
	if ps == cs {
		return 0
	}
	if ps > 0 && cs < 0 {
		return 1
	}
	return -1
}

// Package geometry implements the region-of-interest, virtual-loop and
// line-segment primitives: a region-of-interest mask for O(1) point
// membership, a virtual loop described by four precomputed line
// equations, and a directed line segment with half-plane tests.
package geometry

import (
	"math"

	"github.com/your-org/mva/internal/frame"
)

// Polygon is an ordered list of vertices (pixel coordinates).
type Polygon []frame.Point

// RegionOfInterest is a binary mask at processing resolution, built from a
// union of include polygons or the complement of a union of exclude
// polygons. Rectangle membership is answered by an 11x11 sampled
// intersection test.
type RegionOfInterest struct {
	w, h    int
	mask    []bool // true = inside ROI
	exclude bool   // true if built from exclude polygons
}

// NewInclude builds a ROI that is the union of the given polygons.
func NewInclude(w, h int, polys []Polygon) *RegionOfInterest {
	r := &RegionOfInterest{w: w, h: h, mask: make([]bool, w*h)}
	for _, p := range polys {
		r.stampPolygon(p, true)
	}
	return r
}

// NewExclude builds a ROI that is the complement of the union of the
// given polygons.
func NewExclude(w, h int, polys []Polygon) *RegionOfInterest {
	r := &RegionOfInterest{w: w, h: h, mask: make([]bool, w*h), exclude: true}
	for i := range r.mask {
		r.mask[i] = true
	}
	for _, p := range polys {
		r.stampPolygon(p, false)
	}
	return r
}

// NewLine builds a degenerate two-point "region": a line segment
// thickened by a 40px ellipse structuring element.
func NewLine(w, h int, a, b frame.Point) *RegionOfInterest {
	r := &RegionOfInterest{w: w, h: h, mask: make([]bool, w*h)}
	const thickness = 40
	radius := thickness / 2
	steps := maxInt(absInt(b.X-a.X), absInt(b.Y-a.Y)) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		cx := int(float64(a.X) + t*float64(b.X-a.X))
		cy := int(float64(a.Y) + t*float64(b.Y-a.Y))
		stampEllipse(r.mask, w, h, cx, cy, radius, radius)
	}
	return r
}

// stampPolygon scanline-fills the polygon into the mask with value `set`.
// Edge pixels are included in the ROI as a consistent boundary-inclusion
// choice.
func (r *RegionOfInterest) stampPolygon(p Polygon, set bool) {
	if len(p) < 3 {
		return
	}
	minY, maxY := p[0].Y, p[0].Y
	for _, v := range p {
		if v.Y < minY {
			minY = v.Y
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}
	if minY < 0 {
		minY = 0
	}
	if maxY > r.h-1 {
		maxY = r.h - 1
	}
	for y := minY; y <= maxY; y++ {
		xs := scanlineIntersections(p, y)
		for i := 0; i+1 < len(xs); i += 2 {
			x0, x1 := xs[i], xs[i+1]
			if x0 > x1 {
				x0, x1 = x1, x0
			}
			if x0 < 0 {
				x0 = 0
			}
			if x1 > r.w-1 {
				x1 = r.w - 1
			}
			for x := x0; x <= x1; x++ {
				r.mask[y*r.w+x] = set
			}
		}
	}
	// The scanline spans are half-open in y, so rasterize every edge too.
	for i := range p {
		a, b := p[i], p[(i+1)%len(p)]
		steps := maxInt(absInt(b.X-a.X), absInt(b.Y-a.Y))
		for s := 0; s <= steps; s++ {
			t := 0.0
			if steps > 0 {
				t = float64(s) / float64(steps)
			}
			x := int(float64(a.X) + t*float64(b.X-a.X) + 0.5)
			y := int(float64(a.Y) + t*float64(b.Y-a.Y) + 0.5)
			if x >= 0 && y >= 0 && x < r.w && y < r.h {
				r.mask[y*r.w+x] = set
			}
		}
	}
}

// scanlineIntersections returns sorted x crossings of polygon edges with
// horizontal line y (even-odd rule). Each edge counts over the half-open
// y range [min, max) of its endpoints; stampPolygon fills the edges
// themselves separately.
func scanlineIntersections(p Polygon, y int) []int {
	var xs []int
	n := len(p)
	fy := float64(y)
	for i := 0; i < n; i++ {
		a := p[i]
		b := p[(i+1)%n]
		ay, by := float64(a.Y), float64(b.Y)
		if ay == by {
			continue
		}
		if (fy >= ay && fy < by) || (fy >= by && fy < ay) {
			t := (fy - ay) / (by - ay)
			x := float64(a.X) + t*float64(b.X-a.X)
			xs = append(xs, int(x+0.5))
		}
	}
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
	return xs
}

func stampEllipse(mask []bool, w, h, cx, cy, rx, ry int) {
	for dy := -ry; dy <= ry; dy++ {
		y := cy + dy
		if y < 0 || y >= h {
			continue
		}
		fy := float64(dy) / float64(ry)
		rem := 1 - fy*fy
		if rem < 0 {
			rem = 0
		}
		dxMax := int(float64(rx) * math.Sqrt(rem))
		x0, x1 := cx-dxMax, cx+dxMax
		if x0 < 0 {
			x0 = 0
		}
		if x1 > w-1 {
			x1 = w - 1
		}
		for x := x0; x <= x1; x++ {
			mask[y*w+x] = true
		}
	}
}

// Contains reports whether pixel (x, y) is inside the ROI.
func (r *RegionOfInterest) Contains(x, y int) bool {
	if x < 0 || y < 0 || x >= r.w || y >= r.h {
		return false
	}
	return r.mask[y*r.w+x]
}

// Intersects reports whether rect overlaps the ROI, sampled at an 11x11
// grid over the rectangle.
func (r *RegionOfInterest) Intersects(rect frame.Rect) bool {
	if rect.W <= 0 || rect.H <= 0 {
		return false
	}
	const n = 11
	for j := 0; j < n; j++ {
		fy := float64(j) / float64(n-1)
		y := rect.Y + int(fy*float64(rect.H-1))
		for i := 0; i < n; i++ {
			fx := float64(i) / float64(n-1)
			x := rect.X + int(fx*float64(rect.W-1))
			if r.Contains(x, y) {
				return true
			}
		}
	}
	return false
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

package background

import (
	"math"

	"github.com/your-org/mva/internal/frame"
)

// k is the number of Gaussian slots per pixel.
const k = 4

// vT is the squared Mahalanobis-like match threshold, (2.5)^2.
const vT = 6.25

// bgWeightThreshold (T) is the cumulative-weight cutoff for the
// "background prefix" of sorted slots.
const bgWeightThreshold = 0.7

// epsWeight is the floor below which a slot is treated as unused.
const epsWeight = 1e-4

// newSlotWeight is the initial weight assigned to a freshly replaced slot.
const newSlotWeight = 0.05

// MixSlot is one Gaussian component of a pixel's mixture: a weight, a mean
// and (diagonal) variance per channel, and a cached sort_key = weight /
// sqrt(trace(var)) used to keep the k slots sorted most-likely-background
// first.
type MixSlot struct {
	SortKey float32
	Weight  float32
	Mean    [3]float32
	Var     [3]float32
}

// Mog is the Mixture-of-Gaussians background model: k slots per pixel,
// updated online with a learning rate that anneals as 1/frameCount
// (capped), with a per-pixel slot array as the backing state.
type Mog struct {
	w, h, c    int
	slots      []MixSlot
	frameCount int
	params     Params
}

// NewMog builds a Mog engine using the given parameter regime. Call Init
// before the first Update.
func NewMog(params Params) *Mog {
	return &Mog{params: params}
}

func (m *Mog) Init(f *frame.Frame) error {
	m.w, m.h, m.c = f.W, f.H, f.C
	m.slots = make([]MixSlot, m.w*m.h*k)
	m.frameCount = 0
	return nil
}

func (m *Mog) Reset() {
	for i := range m.slots {
		m.slots[i] = MixSlot{}
	}
	m.frameCount = 0
}

func (m *Mog) FrameCount() int { return m.frameCount }

func (m *Mog) Update(f *frame.Frame, freeze []frame.Rect) ([]byte, *frame.Frame, error) {
	if err := frame.CheckShape(f, m.w, m.h, m.c); err != nil {
		return nil, nil, err
	}
	if m.frameCount < 1000 {
		m.frameCount++
	}
	alpha := float32(1.0 / float64(m.frameCount))
	freezeMask := buildFreezeMask(m.w, m.h, freeze)

	fg := make([]byte, m.w*m.h)
	back := make([]byte, m.w*m.h*m.c)

	for idx := 0; idx < m.w*m.h; idx++ {
		x := pixelAt(f, idx)
		base := idx * k
		slots := m.slots[base : base+k]
		frozen := freezeMask != nil && freezeMask[idx]

		if isForeground(slots, x, m.c, alpha, frozen, m.params) {
			fg[idx] = 255
		}
		for ch := 0; ch < m.c; ch++ {
			back[idx*m.c+ch] = clampByte(slots[0].Mean[ch])
		}
	}

	return fg, &frame.Frame{Pixels: back, W: m.w, H: m.h, C: m.c, TimeMs: f.TimeMs, FrameIndex: f.FrameIndex}, nil
}

// isForeground runs the per-pixel match/update/reorder/renormalize cycle
// and returns whether the pixel is classified foreground this frame.
func isForeground(slots []MixSlot, x [3]float32, c int, alpha float32, frozen bool, p Params) bool {
	hit := matchSlot(slots, x, c)
	if hit < 0 {
		if !frozen {
			replaceLowest(slots, x, c, p)
			bubbleUp(slots, k-1)
			renormalize(slots)
		}
		return true
	}
	if !frozen {
		updateSlot(&slots[hit], x, c, alpha, p)
		bubbleUp(slots, hit)
		renormalize(slots)
	}
	return hit > backgroundPrefix(slots)
}

// matchSlot scans the slots in (already sorted) order and returns the
// index of the first one whose Gaussian the pixel falls within, or -1 if
// none match before weight drops below epsWeight.
func matchSlot(slots []MixSlot, x [3]float32, c int) int {
	for i := 0; i < k; i++ {
		if slots[i].Weight < epsWeight {
			break
		}
		var d2, varSum float32
		for ch := 0; ch < c; ch++ {
			diff := x[ch] - slots[i].Mean[ch]
			d2 += diff * diff
			varSum += slots[i].Var[ch]
		}
		if d2 < vT*varSum {
			return i
		}
	}
	return -1
}

func updateSlot(s *MixSlot, x [3]float32, c int, alpha float32, p Params) {
	s.Weight += alpha * (1 - s.Weight)
	var varSum float32
	for ch := 0; ch < c; ch++ {
		s.Mean[ch] += alpha * (x[ch] - s.Mean[ch])
		diff := x[ch] - s.Mean[ch]
		s.Var[ch] = maxF32(s.Var[ch]+alpha*(diff*diff-s.Var[ch]), p.MinVar)
		varSum += s.Var[ch]
	}
	s.SortKey = s.Weight / sqrtF32(varSum)
}

// bubbleUp restores descending sort_key order after slots[i] changed,
// moving it toward the front one swap at a time.
func bubbleUp(slots []MixSlot, i int) {
	for i > 0 && slots[i].SortKey > slots[i-1].SortKey {
		slots[i], slots[i-1] = slots[i-1], slots[i]
		i--
	}
}

// replaceLowest overwrites the last (lowest sort_key) slot with a fresh
// Gaussian centered on the unmatched pixel.
func replaceLowest(slots []MixSlot, x [3]float32, c int, p Params) {
	s := &slots[k-1]
	s.Weight = newSlotWeight
	for ch := 0; ch < c; ch++ {
		s.Mean[ch] = x[ch]
		s.Var[ch] = p.InitVar
	}
	s.SortKey = newSlotWeight / p.InitStd
}

// renormalize rescales weights (and sort_keys, which scale identically)
// so they sum to 1 across all k slots.
func renormalize(slots []MixSlot) {
	var sum float32
	for i := 0; i < k; i++ {
		sum += slots[i].Weight
	}
	if sum <= 0 {
		return
	}
	for i := 0; i < k; i++ {
		slots[i].Weight /= sum
		slots[i].SortKey /= sum
	}
}

// backgroundPrefix returns the smallest index k* such that the cumulative
// weight of slots[0..k*] exceeds bgWeightThreshold.
func backgroundPrefix(slots []MixSlot) int {
	var cum float32
	for i := 0; i < k; i++ {
		cum += slots[i].Weight
		if cum > bgWeightThreshold {
			return i
		}
	}
	return k - 1
}

func pixelAt(f *frame.Frame, idx int) [3]float32 {
	var x [3]float32
	base := idx * f.C
	for ch := 0; ch < f.C; ch++ {
		x[ch] = float32(f.Pixels[base+ch])
	}
	return x
}

func clampByte(v float32) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v + 0.5)
}

func maxF32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func sqrtF32(v float32) float32 {
	if v <= 0 {
		return 1e-6
	}
	return float32(math.Sqrt(float64(v)))
}

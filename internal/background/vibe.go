package background

import (
	"math/rand"

	"github.com/your-org/mva/internal/frame"
)

// n is the number of samples kept per pixel.
const n = 20

// subSampleInterval is the 1-in-subSampleInterval chance of propagating an
// update to self or a neighbor on any given background classification.
const subSampleInterval = 16

// minMatches is the number of samples a pixel must resemble to count as
// background.
const minMatches = 2

// bgMeanDecay is the exponential-decay rate for the extended variant's
// running background-color estimate.
const bgMeanDecay = 0.02

var neighborOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// ViBe is the sample-based background model: each pixel keeps n color
// samples; a pixel is background if it resembles at least
// minMatches of them. Matching samples occasionally propagate to the
// pixel itself or a random 8-neighbor, diffusing the model spatially
// (BackModel/ExtendedViBe.cpp).
type ViBe struct {
	w, h, c    int
	domain     ViBeDomain
	extended   bool
	samples    []byte // w*h*n*c
	bgMean     []float32
	frameCount int

	rngSelfIdx     *rand.Rand
	rngNeighborDir *rand.Rand
	rngNeighborIdx *rand.Rand
	rngSubSelf     *rand.Rand
	rngSubNeighbor *rand.Rand
}

// NewViBe builds a ViBe engine for the given distance domain. extended
// enables the exponential-decay background-color mean used for the
// reconstructed background image; seed makes sample propagation
// reproducible.
func NewViBe(domain ViBeDomain, extended bool, seed int64) *ViBe {
	return &ViBe{
		domain:         domain,
		extended:       extended,
		rngSelfIdx:     rand.New(rand.NewSource(seed + 1)),
		rngNeighborDir: rand.New(rand.NewSource(seed + 2)),
		rngNeighborIdx: rand.New(rand.NewSource(seed + 3)),
		rngSubSelf:     rand.New(rand.NewSource(seed + 4)),
		rngSubNeighbor: rand.New(rand.NewSource(seed + 5)),
	}
}

func (v *ViBe) Init(f *frame.Frame) error {
	v.w, v.h, v.c = f.W, f.H, f.C
	v.samples = make([]byte, v.w*v.h*n*v.c)
	v.bgMean = make([]float32, v.w*v.h*v.c)
	v.frameCount = 0

	for y := 0; y < v.h; y++ {
		for x := 0; x < v.w; x++ {
			idx := y*v.w + x
			for s := 0; s < n; s++ {
				sy, sx := y, x
				if dir := v.rngNeighborDir.Intn(9); dir > 0 {
					off := neighborOffsets[dir-1]
					sy = clamp(y+off[1], 0, v.h-1)
					sx = clamp(x+off[0], 0, v.w-1)
				}
				src := (sy*v.w + sx) * v.c
				dst := (idx*n + s) * v.c
				copy(v.samples[dst:dst+v.c], f.Pixels[src:src+v.c])
			}
			for ch := 0; ch < v.c; ch++ {
				v.bgMean[idx*v.c+ch] = float32(f.Pixels[idx*v.c+ch])
			}
		}
	}
	return nil
}

func (v *ViBe) Reset() {
	for i := range v.samples {
		v.samples[i] = 0
	}
	for i := range v.bgMean {
		v.bgMean[i] = 0
	}
	v.frameCount = 0
}

func (v *ViBe) FrameCount() int { return v.frameCount }

func (v *ViBe) Update(f *frame.Frame, freeze []frame.Rect) ([]byte, *frame.Frame, error) {
	if err := frame.CheckShape(f, v.w, v.h, v.c); err != nil {
		return nil, nil, err
	}
	if v.frameCount < 1000 {
		v.frameCount++
	}
	freezeMask := buildFreezeMask(v.w, v.h, freeze)
	minDist := v.domain.MinMatchDist()

	fg := make([]byte, v.w*v.h)
	back := make([]byte, v.w*v.h*v.c)

	for y := 0; y < v.h; y++ {
		for x := 0; x < v.w; x++ {
			idx := y*v.w + x
			px := f.Pixels[idx*v.c : idx*v.c+v.c]
			frozen := freezeMask != nil && freezeMask[idx]

			isBG := v.matches(idx, px, minDist)
			if !isBG {
				fg[idx] = 255
			}

			if isBG && !frozen {
				v.maybeUpdate(idx, x, y, px)
			}
			if v.extended {
				if isBG && !frozen {
					for ch := 0; ch < v.c; ch++ {
						o := idx*v.c + ch
						v.bgMean[o] += bgMeanDecay * (float32(px[ch]) - v.bgMean[o])
					}
				}
				for ch := 0; ch < v.c; ch++ {
					back[idx*v.c+ch] = clampByte(v.bgMean[idx*v.c+ch])
				}
			} else {
				rep := v.samples[(idx*n)*v.c : (idx*n)*v.c+v.c]
				copy(back[idx*v.c:idx*v.c+v.c], rep)
			}
		}
	}
	return fg, &frame.Frame{Pixels: back, W: v.w, H: v.h, C: v.c, TimeMs: f.TimeMs, FrameIndex: f.FrameIndex}, nil
}

// matches reports whether px resembles at least minMatches of the pixel's
// samples under an L1 distance, summed across channels.
func (v *ViBe) matches(idx int, px []byte, minDist int) bool {
	count := 0
	base := idx * n * v.c
	for s := 0; s < n; s++ {
		d := 0
		off := base + s*v.c
		for ch := 0; ch < v.c; ch++ {
			diff := int(px[ch]) - int(v.samples[off+ch])
			if diff < 0 {
				diff = -diff
			}
			d += diff
		}
		if d < minDist {
			count++
			if count >= minMatches {
				return true
			}
		}
	}
	return false
}

// maybeUpdate probabilistically replaces one of this pixel's own samples
// and, independently, one sample of a random 8-neighbor, with px.
func (v *ViBe) maybeUpdate(idx, x, y int, px []byte) {
	if v.rngSubSelf.Intn(subSampleInterval) == 0 {
		s := v.rngSelfIdx.Intn(n)
		off := (idx*n + s) * v.c
		copy(v.samples[off:off+v.c], px)
	}
	if v.rngSubNeighbor.Intn(subSampleInterval) == 0 {
		dir := v.rngNeighborDir.Intn(8)
		off := neighborOffsets[dir]
		ny := clamp(y+off[1], 0, v.h-1)
		nx := clamp(x+off[0], 0, v.w-1)
		nIdx := ny*v.w + nx
		s := v.rngNeighborIdx.Intn(n)
		dst := (nIdx*n + s) * v.c
		copy(v.samples[dst:dst+v.c], px)
	}
}

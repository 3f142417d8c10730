package background

// Params holds the MoG numerical constants. Two regimes are offered,
// exposed as selectable config: "relaxed" is looser about what counts as
// background noise, "strict" halves every constant.
type Params struct {
	InitStd float32
	InitVar float32
	MinStd  float32
	MinVar  float32
}

var RelaxedParams = Params{InitStd: 30, InitVar: 900, MinStd: 15, MinVar: 225}

var StrictParams = Params{InitStd: 15, InitVar: 450, MinStd: 7.5, MinVar: 112.5}

// ViBeDomain selects which of the three distance-parameter regimes (spec
// §4.B) a ViBe instance uses.
type ViBeDomain int

const (
	DomainColor ViBeDomain = iota
	DomainGray
	DomainGradient
)

// MinMatchDist returns the L1 distance threshold for this domain.
func (d ViBeDomain) MinMatchDist() int {
	switch d {
	case DomainColor:
		return 40
	case DomainGradient:
		return 40
	default:
		return 10
	}
}

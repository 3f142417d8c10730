package tracker

import "github.com/your-org/mva/internal/frame"

// checkDirStep is the frame stride at which a new direction sign is
// sampled.
const checkDirStep = 4

// reversalCheckInterval is how often (in pushed records) the tracker
// re-evaluates direction-reversal.
const reversalCheckInterval = 5

// QuantRecord is one sample in a track's quantitative history.
type QuantRecord struct {
	Rect         frame.Rect
	OrigRect     frame.Rect
	Center       frame.Point
	Top, Bottom  int
	GradDiffMean float64
	TimeMs       int64
	FrameIndex   int32
}

// QuantHistory is the per-track time series of QuantRecords plus the
// direction-sign streams used for turn-around detection and regression
// tie-breaking.
type QuantHistory struct {
	Records       []QuantRecord
	DirX, DirY    []int8
	sinceLastSign int
}

func (q *QuantHistory) PushRecord(rect, origRect frame.Rect, gradDiffMean float64, timeMs int64, frameIndex int32) {
	rec := QuantRecord{
		Rect: rect, OrigRect: origRect, Center: rect.Center(),
		Top: rect.Y, Bottom: rect.Bottom(),
		GradDiffMean: gradDiffMean, TimeMs: timeMs, FrameIndex: frameIndex,
	}
	q.Records = append(q.Records, rec)

	q.sinceLastSign++
	if q.sinceLastSign >= checkDirStep && len(q.Records) > checkDirStep {
		prev := q.Records[len(q.Records)-1-checkDirStep]
		q.DirX = append(q.DirX, signOf(rec.Center.X-prev.Center.X))
		q.DirY = append(q.DirY, signOf(rec.Center.Y-prev.Center.Y))
		q.sinceLastSign = 0
	}
}

// CheckTurnAround flags a track for deletion if one axis' direction-sign
// stream has its first half dominated (>=70%) by one sign and its last
// 30% dominated by the opposite sign.
func (q *QuantHistory) CheckTurnAround() bool {
	if len(q.Records)%reversalCheckInterval != 0 {
		return false
	}
	return reversed(q.DirX) || reversed(q.DirY)
}

func reversed(signs []int8) bool {
	n := len(signs)
	if n < 5 {
		return false
	}
	first := signs[:n/2]
	last := signs[n-n*3/10:]
	if len(first) == 0 || len(last) == 0 {
		return false
	}

	var posFirst, negFirst int
	for _, s := range first {
		if s > 0 {
			posFirst++
		} else if s < 0 {
			negFirst++
		}
	}
	var dominant int8
	if float64(posFirst)/float64(len(first)) >= 0.7 {
		dominant = 1
	} else if float64(negFirst)/float64(len(first)) >= 0.7 {
		dominant = -1
	} else {
		return false
	}

	var posLast, negLast int
	for _, s := range last {
		if s > 0 {
			posLast++
		} else if s < 0 {
			negLast++
		}
	}
	if dominant > 0 {
		return float64(negLast)/float64(len(last)) > 0.5
	}
	return float64(posLast)/float64(len(last)) > 0.5
}

// CheckStability walks backward windowMs (or a fixed stride of 5 records
// if the window is longer than the whole history) and requires the
// endpoint rectangles to have high IoU with low gradient-difference at
// both ends.
func (q *QuantHistory) CheckStability(windowMs int64) bool {
	n := len(q.Records)
	if n < 2 {
		return false
	}
	end := n - 1
	start := end
	for start > 0 && q.Records[end].TimeMs-q.Records[start].TimeMs < windowMs {
		start--
	}
	if start == 0 && q.Records[end].TimeMs-q.Records[0].TimeMs < windowMs {
		start = end - 5
		if start < 0 {
			start = 0
		}
	}

	a, b := q.Records[start], q.Records[end]
	threshold := 0.9
	if a.Rect.Area() < 2500 {
		threshold = 0.8
	}
	return a.Rect.IoU(b.Rect) >= threshold && a.GradDiffMean < 5 && b.GradDiffMean < 5
}

func signOf(v int) int8 {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}

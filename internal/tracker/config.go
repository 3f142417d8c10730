package tracker

// RecordMode selects which snapshot.History variant new tracks get.
type RecordMode int

const (
	RecordNone RecordMode = iota
	RecordCrossTriBound
	RecordCrossBottom
	RecordCrossLine
	RecordMultiRecord
)

// Config holds the tracker's tunables.
type Config struct {
	MaxDistRectAndBlob      float64
	MinRatioIntersectToSelf float64
	MinRatioIntersectToBlob float64
	MaxHistoryForDistMatch  int
	CheckTurnAround         bool
	MinHistorySizeForOutput int

	RecordMode        RecordMode
	MultiRecordNum    int
	MultiRecordPeriod int
	FrameW, FrameH    int // normalized (processing) resolution
	OrigW, OrigH      int // 0 means identical to FrameW/FrameH (no scaling)
}

func DefaultConfig() Config {
	return Config{
		MaxDistRectAndBlob:      15,
		MinRatioIntersectToSelf: 0.6,
		MinRatioIntersectToBlob: 0.6,
		MaxHistoryForDistMatch:  0,
		CheckTurnAround:         true,
		MinHistorySizeForOutput: 1,
		RecordMode:              RecordNone,
		MultiRecordNum:          4,
		MultiRecordPeriod:       2,
		FrameW:                  320,
		FrameH:                  240,
	}
}

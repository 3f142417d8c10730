// Package pipeline wires the per-stream stages (background subtraction,
// gradient augmentation, blob extraction, tracking) into the single
// cooperative per-frame call the worker process drives. Each Pipeline owns
// exactly one stream's state and is never called concurrently with
// itself; the worker serializes frames per stream the same way a single
// camera's detect/embed/track chain is serialized upstream.
package pipeline

import (
	"fmt"

	"github.com/your-org/mva/internal/background"
	"github.com/your-org/mva/internal/blob"
	"github.com/your-org/mva/internal/frame"
	"github.com/your-org/mva/internal/geometry"
	"github.com/your-org/mva/internal/imageops"
	"github.com/your-org/mva/internal/tracker"
	"github.com/your-org/mva/internal/visualinfo"
)

// Config bundles the per-stream configuration needed to build a Pipeline.
// FrameW/FrameH is the processing resolution frames are normalized to
// before background modeling; OrigW/OrigH is the source stream's native
// resolution, used only to scale rectangles back out for storage/display.
type Config struct {
	FrameW, FrameH int
	OrigW, OrigH   int

	Background     background.Params
	UseViBe        bool
	ViBeDomain     background.ViBeDomain
	ViBeExtended   bool
	ViBeSeed       int64

	// UpdateBackInterval paces how often a processed frame is "full"
	// (background model learns, VisualInfo's background gradient is
	// refreshed) versus freeze-only (read-only classification against
	// the existing model). Zero means every frame is full.
	UpdateBackInterval int
	// BuildBackCount is how many processed frames the background model
	// warms up on before the extractor/tracker run at all. Zero means
	// no warm-up.
	BuildBackCount int
	// ProcessEveryNFrame decimates the incoming frame stream: only every
	// Nth frame (by arrival order) reaches the pipeline at all. Zero or
	// one processes every frame.
	ProcessEveryNFrame int

	Blob    blob.Config
	CharReg []frame.Rect

	Tracker tracker.Config
	ROI     *geometry.RegionOfInterest
	Loop    *geometry.VirtualLoop
	Line    *geometry.LineSegment
}

// Pipeline runs one video stream's frames through background subtraction,
// visual-info augmentation, blob extraction, and tracking, in that order,
// on every call.
type Pipeline struct {
	cfg Config

	bg background.Model
	vi *visualinfo.VisualInfo
	ex *blob.Extractor
	tr *tracker.Tracker

	initialized  bool
	arrivals     int
	processed    int
	stableFreeze []frame.Rect
}

// New builds a Pipeline. The background model is not yet initialized;
// call Process with the first frame to size it.
func New(cfg Config) *Pipeline {
	var bg background.Model
	if cfg.UseViBe {
		bg = background.NewViBe(cfg.ViBeDomain, cfg.ViBeExtended, cfg.ViBeSeed)
	} else {
		bg = background.NewMog(cfg.Background)
	}

	cfg.Tracker.FrameW, cfg.Tracker.FrameH = cfg.FrameW, cfg.FrameH
	cfg.Tracker.OrigW, cfg.Tracker.OrigH = cfg.OrigW, cfg.OrigH

	return &Pipeline{
		cfg: cfg,
		bg:  bg,
		vi:  visualinfo.New(),
		ex:  blob.NewExtractor(cfg.Blob, cfg.CharReg),
		tr:  tracker.New(cfg.Tracker, cfg.ROI, cfg.Loop, cfg.Line),
	}
}

// Process runs one already-resized frame (cfg.FrameW x cfg.FrameH) through
// the full stage chain and returns the track updates emitted this frame.
// freeze lists rectangles the caller wants excluded from background model
// updates this frame (e.g. a UI-drawn privacy mask).
func (p *Pipeline) Process(f *frame.Frame, freeze []frame.Rect) ([]tracker.TrackUpdate, error) {
	if err := frame.CheckShape(f, p.cfg.FrameW, p.cfg.FrameH, f.C); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	p.arrivals++
	decimation := p.cfg.ProcessEveryNFrame
	if decimation > 1 && (p.arrivals-1)%decimation != 0 {
		return nil, nil
	}

	if !p.initialized {
		if err := p.bg.Init(f); err != nil {
			return nil, fmt.Errorf("pipeline: init background model: %w", err)
		}
		p.initialized = true
	}
	p.processed++

	full := p.cfg.UpdateBackInterval <= 1 || p.processed%p.cfg.UpdateBackInterval == 1

	bgFreeze := freeze
	if !full {
		// Freeze-only frame: the whole frame is read-only classification
		// against the existing model, no learning.
		bgFreeze = []frame.Rect{{X: 0, Y: 0, W: f.W, H: f.H}}
	} else if len(p.stableFreeze) > 0 {
		bgFreeze = append(append([]frame.Rect{}, freeze...), p.stableFreeze...)
	}

	fgBytes, bg, err := p.bg.Update(f, bgFreeze)
	if err != nil {
		return nil, fmt.Errorf("pipeline: update background model: %w", err)
	}
	fgMask := imageops.Mask{Pixels: fgBytes, W: f.W, H: f.H}

	gray := imageops.Mask{Pixels: imageops.Gray(f.Pixels, f.W, f.H, f.C), W: f.W, H: f.H}
	bgGray := imageops.Mask{Pixels: imageops.Gray(bg.Pixels, bg.W, bg.H, bg.C), W: bg.W, H: bg.H}
	augmented, gradDiff := p.vi.Augment(gray, bgGray, fgMask, full)

	if p.processed <= p.cfg.BuildBackCount {
		// Still warming up: the background model keeps learning above,
		// but no rectangle is extracted or tracked yet.
		return nil, nil
	}

	var curColor, bgColor *frame.Frame
	if f.C == 3 {
		curColor, bgColor = f, bg
	}
	result := p.ex.Process(augmented, curColor, bgColor, gradDiff)
	p.stableFreeze = result.StableRects

	gradMeans := make([]float64, len(result.Rects))
	for i, r := range result.Rects {
		gradMeans[i] = meanInRect(gradDiff, r)
	}

	updates := p.tr.Process(f.TimeMs, f.FrameIndex, result.Rects, gradMeans, f, augmented)
	return updates, nil
}

// Final flushes every remaining track as a final TrackUpdate (stream
// teardown).
func (p *Pipeline) Final() []tracker.TrackUpdate {
	return p.tr.Final()
}

func meanInRect(m imageops.Mask, r frame.Rect) float64 {
	if r.Area() == 0 {
		return 0
	}
	var sum, n int
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			sum += int(m.At(x, y))
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

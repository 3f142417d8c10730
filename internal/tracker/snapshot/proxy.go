package snapshot

import (
	"github.com/your-org/mva/internal/frame"
	"github.com/your-org/mva/internal/imageops"
)

// SceneProxy defers copying the processed-resolution scene frame until
// the first SnapshotHistory actually asks for it, and hands every later
// caller within the same frame the same copy: a lazy deep-copy proxy.
type SceneProxy struct {
	src  *frame.Frame
	copy *frame.Frame
}

func NewSceneProxy(src *frame.Frame) *SceneProxy { return &SceneProxy{src: src} }

func (p *SceneProxy) Get() *frame.Frame {
	if p.src == nil {
		return nil
	}
	if p.copy == nil {
		cp := *p.src
		cp.Pixels = append([]byte(nil), p.src.Pixels...)
		p.copy = &cp
	}
	return p.copy
}

// ForeProxy is SceneProxy's counterpart for the binary foreground mask.
type ForeProxy struct {
	src  imageops.Mask
	copy *imageops.Mask
}

func NewForeProxy(src imageops.Mask) *ForeProxy { return &ForeProxy{src: src} }

func (p *ForeProxy) Get() *imageops.Mask {
	if p.src.Pixels == nil {
		return nil
	}
	if p.copy == nil {
		cp := imageops.Mask{W: p.src.W, H: p.src.H, Pixels: append([]byte(nil), p.src.Pixels...)}
		p.copy = &cp
	}
	return p.copy
}

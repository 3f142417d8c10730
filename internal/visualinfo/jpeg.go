package visualinfo

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"github.com/your-org/mva/internal/frame"
)

// DecodeJPEGFrame decodes a JPEG byte buffer (as produced by the FFmpeg
// frame extractor) into a 3-channel frame.Frame at the image's native
// resolution. This is the boundary between the ingest pipeline's raw
// bytes and the pipeline's pixel buffers.
func DecodeJPEGFrame(data []byte, timeMs int64, frameIndex int32) (*frame.Frame, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode jpeg: %w", err)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, w*h*3)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pixels[i], pixels[i+1], pixels[i+2] = c.R, c.G, c.B
			i += 3
		}
	}
	return &frame.Frame{Pixels: pixels, W: w, H: h, C: 3, TimeMs: timeMs, FrameIndex: frameIndex}, nil
}

// EncodeJPEG renders f (1 or 3 channel) as a JPEG byte buffer for
// snapshot persistence.
func EncodeJPEG(f *frame.Frame, quality int) ([]byte, error) {
	img := toImage(f)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeMaskJPEG renders a binary mask as a grayscale JPEG.
func EncodeMaskJPEG(pixels []byte, w, h int, quality int) ([]byte, error) {
	img := image.NewGray(image.Rect(0, 0, w, h))
	copy(img.Pix, pixels)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode mask jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// CropRect returns the sub-frame of f bounded by r, clamped to f's
// dimensions. Used to derive a tight per-track crop (a "slice") from a
// wider captured scene image.
func CropRect(f *frame.Frame, r frame.Rect) *frame.Frame {
	x0, y0 := max(r.X, 0), max(r.Y, 0)
	x1, y1 := min(r.X+r.W, f.W), min(r.Y+r.H, f.H)
	if x1 <= x0 || y1 <= y0 {
		return &frame.Frame{Pixels: []byte{}, W: 0, H: 0, C: f.C, TimeMs: f.TimeMs, FrameIndex: f.FrameIndex}
	}
	w, h := x1-x0, y1-y0
	pixels := make([]byte, w*h*f.C)
	for y := 0; y < h; y++ {
		srcOff := ((y0+y)*f.W + x0) * f.C
		dstOff := y * w * f.C
		copy(pixels[dstOff:dstOff+w*f.C], f.Pixels[srcOff:srcOff+w*f.C])
	}
	return &frame.Frame{Pixels: pixels, W: w, H: h, C: f.C, TimeMs: f.TimeMs, FrameIndex: f.FrameIndex}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

package visualinfo

import (
	"image"
	"image/draw"

	ximgdraw "golang.org/x/image/draw"

	"github.com/your-org/mva/internal/frame"
)

// NormalizeFrameSize resamples f to targetW x targetH, the fixed
// processing resolution every background/blob stage operates at. A
// bilinear resampler approximates area averaging well enough for the
// modest resize ratios this pipeline sees.
func NormalizeFrameSize(f *frame.Frame, targetW, targetH int) *frame.Frame {
	if f.W == targetW && f.H == targetH {
		return f
	}
	src := toImage(f)
	dstBounds := image.Rect(0, 0, targetW, targetH)
	var dst draw.Image
	if f.C == 1 {
		dst = image.NewGray(dstBounds)
	} else {
		dst = image.NewNRGBA(dstBounds)
	}
	ximgdraw.BiLinear.Scale(dst, dstBounds, src, src.Bounds(), ximgdraw.Over, nil)
	return fromImage(dst, targetW, targetH, f.C, f.TimeMs, f.FrameIndex)
}

func toImage(f *frame.Frame) image.Image {
	if f.C == 1 {
		img := image.NewGray(image.Rect(0, 0, f.W, f.H))
		copy(img.Pix, f.Pixels)
		return img
	}
	img := image.NewNRGBA(image.Rect(0, 0, f.W, f.H))
	for i := 0; i < f.W*f.H; i++ {
		si := i * f.C
		di := i * 4
		for ch := 0; ch < 3 && ch < f.C; ch++ {
			img.Pix[di+ch] = f.Pixels[si+ch]
		}
		img.Pix[di+3] = 255
	}
	return img
}

func fromImage(img draw.Image, w, h, c int, timeMs int64, frameIndex int32) *frame.Frame {
	pixels := make([]byte, w*h*c)
	switch im := img.(type) {
	case *image.Gray:
		copy(pixels, im.Pix)
	case *image.NRGBA:
		for i := 0; i < w*h; i++ {
			si := i * 4
			di := i * c
			for ch := 0; ch < c && ch < 3; ch++ {
				pixels[di+ch] = im.Pix[si+ch]
			}
		}
	}
	return &frame.Frame{Pixels: pixels, W: w, H: h, C: c, TimeMs: timeMs, FrameIndex: frameIndex}
}

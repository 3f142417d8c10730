package imageops

// Gray converts an interleaved c-channel image to single-channel
// grayscale by unweighted channel averaging (c==1 is a no-op copy).
func Gray(pixels []byte, w, h, c int) []byte {
	out := make([]byte, w*h)
	if c == 1 {
		copy(out, pixels)
		return out
	}
	for i := 0; i < w*h; i++ {
		var sum int
		base := i * c
		for ch := 0; ch < c; ch++ {
			sum += int(pixels[base+ch])
		}
		out[i] = byte(sum / c)
	}
	return out
}

// scharrX/scharrY are the 3x3 Scharr kernels, a higher-rotational-accuracy
// alternative to Sobel for gradient estimation.
var scharrX = [3][3]int{{-3, 0, 3}, {-10, 0, 10}, {-3, 0, 3}}
var scharrY = [3][3]int{{-3, -10, -3}, {0, 0, 0}, {3, 10, 3}}

// GradientMagnitude computes a Scharr gradient magnitude image, clamped to
// [0,255], used by VisualInfo to augment the foreground mask with edges.
func GradientMagnitude(gray Mask) Mask {
	out := NewMask(gray.W, gray.H)
	for y := 0; y < gray.H; y++ {
		for x := 0; x < gray.W; x++ {
			var gx, gy int
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					// Replicate the border: out-of-image taps read the
					// nearest edge pixel, so a flat image has no gradient.
					nx, ny := x+dx, y+dy
					if nx < 0 {
						nx = 0
					} else if nx >= gray.W {
						nx = gray.W - 1
					}
					if ny < 0 {
						ny = 0
					} else if ny >= gray.H {
						ny = gray.H - 1
					}
					v := int(gray.At(nx, ny))
					gx += scharrX[dy+1][dx+1] * v
					gy += scharrY[dy+1][dx+1] * v
				}
			}
			mag := abs(gx) + abs(gy)
			if mag > 255 {
				mag = 255
			}
			out.Pixels[y*gray.W+x] = byte(mag)
		}
	}
	return out
}

// Threshold produces a binary mask: 255 where v >= t, else 0.
func Threshold(m Mask, t byte) Mask {
	out := NewMask(m.W, m.H)
	for i, v := range m.Pixels {
		if v >= t {
			out.Pixels[i] = 255
		}
	}
	return out
}

// AndNot returns a & ^b (pixelwise), used to remove background-gradient
// edges from the foreground gradient mask.
func AndNot(a, b Mask) Mask {
	out := NewMask(a.W, a.H)
	for i := range a.Pixels {
		if a.Pixels[i] != 0 && b.Pixels[i] == 0 {
			out.Pixels[i] = 255
		}
	}
	return out
}

// Or returns a | b (pixelwise binary union).
func Or(a, b Mask) Mask {
	out := NewMask(a.W, a.H)
	for i := range a.Pixels {
		if a.Pixels[i] != 0 || b.Pixels[i] != 0 {
			out.Pixels[i] = 255
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

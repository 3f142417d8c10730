// Package imageops holds the small set of pixel-level primitives the blob
// and visual-info stages need: morphological filtering, gradient
// magnitude, connected-component bounding boxes. These mirror a classic
// OpenCV-based blob pipeline's median blur, elliptical dilate/erode, and
// external-contour bounding rects, reimplemented without OpenCV.
package imageops

// Mask is a single-channel image, one byte per pixel (0 or 255 for binary
// masks, 0-255 for grayscale).
type Mask struct {
	Pixels []byte
	W, H   int
}

func NewMask(w, h int) Mask { return Mask{Pixels: make([]byte, w*h), W: w, H: h} }

func (m Mask) At(x, y int) byte {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return 0
	}
	return m.Pixels[y*m.W+x]
}

// structuringElement is the set of (dx,dy) offsets covered by an ellipse
// inscribed in a (2rx+1)x(2ry+1) box, matching OpenCV's
// MORPH_ELLIPSE kernel shape.
func structuringElement(rx, ry int) [][2]int {
	var offsets [][2]int
	for dy := -ry; dy <= ry; dy++ {
		for dx := -rx; dx <= rx; dx++ {
			nx := float64(dx) / float64(rx+1)
			ny := float64(dy) / float64(ry+1)
			if nx*nx+ny*ny <= 1.0 {
				offsets = append(offsets, [2]int{dx, dy})
			}
		}
	}
	return offsets
}

// DilateEllipse grows the set of 255-valued pixels by the elliptical
// structuring element of half-width rx, half-height ry.
func DilateEllipse(m Mask, rx, ry int) Mask {
	se := structuringElement(rx, ry)
	out := NewMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			hit := byte(0)
			for _, o := range se {
				if m.At(x+o[0], y+o[1]) != 0 {
					hit = 255
					break
				}
			}
			out.Pixels[y*m.W+x] = hit
		}
	}
	return out
}

// ErodeEllipse shrinks the set of 255-valued pixels: a pixel survives only
// if every structuring-element neighbor is also 255 (pixels outside the
// image count as 0, so the border erodes too).
func ErodeEllipse(m Mask, rx, ry int) Mask {
	se := structuringElement(rx, ry)
	out := NewMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			all := byte(255)
			for _, o := range se {
				if m.At(x+o[0], y+o[1]) == 0 {
					all = 0
					break
				}
			}
			out.Pixels[y*m.W+x] = all
		}
	}
	return out
}

// BoxBlur3x3 replaces each pixel with the unweighted mean of its 3x3
// neighborhood (out-of-bounds neighbors are excluded, not zero-padded).
// VisualInfo uses this to denoise grayscale/background frames before
// gradient estimation, matching a classic blur-then-Scharr pipeline.
func BoxBlur3x3(m Mask) Mask {
	out := NewMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			var sum, n int
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= m.W || ny >= m.H {
						continue
					}
					sum += int(m.At(nx, ny))
					n++
				}
			}
			out.Pixels[y*m.W+x] = byte(sum / n)
		}
	}
	return out
}

// MedianBlur replaces each pixel with the median of its (2r+1)x(2r+1)
// neighborhood. Used both to denoise binary foreground masks before
// contour extraction and to smooth VisualInfo's gradient mask.
func MedianBlur(m Mask, r int) Mask {
	out := NewMask(m.W, m.H)
	window := make([]byte, 0, (2*r+1)*(2*r+1))
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			window = window[:0]
			for dy := -r; dy <= r; dy++ {
				for dx := -r; dx <= r; dx++ {
					window = append(window, m.At(x+dx, y+dy))
				}
			}
			out.Pixels[y*m.W+x] = median(window)
		}
	}
	return out
}

func median(vals []byte) byte {
	// Small fixed-size windows: insertion sort is plenty fast and avoids
	// pulling in sort.Slice for a byte copy.
	cp := make([]byte, len(vals))
	copy(cp, vals)
	for i := 1; i < len(cp); i++ {
		v := cp[i]
		j := i - 1
		for j >= 0 && cp[j] > v {
			cp[j+1] = cp[j]
			j--
		}
		cp[j+1] = v
	}
	return cp[len(cp)/2]
}

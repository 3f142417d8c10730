package imageops

import "github.com/your-org/mva/internal/frame"

// BoundingRects finds the 8-connected components of non-zero pixels in m
// and returns each one's bounding rectangle, in no particular order. This
// stands in for cv::findContours + boundingRect over external contours:
// the blob extractor only ever needs the bounding box of each foreground
// blob, not its boundary polygon.
func BoundingRects(m Mask) []frame.Rect {
	visited := make([]bool, len(m.Pixels))
	var rects []frame.Rect
	stack := make([]int, 0, 64)

	for start := 0; start < len(m.Pixels); start++ {
		if m.Pixels[start] == 0 || visited[start] {
			continue
		}
		visited[start] = true
		stack = append(stack[:0], start)
		minX, minY := m.W, m.H
		maxX, maxY := -1, -1

		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := idx%m.W, idx/m.W
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= m.W || ny >= m.H {
						continue
					}
					nIdx := ny*m.W + nx
					if m.Pixels[nIdx] == 0 || visited[nIdx] {
						continue
					}
					visited[nIdx] = true
					stack = append(stack, nIdx)
				}
			}
		}

		rects = append(rects, frame.Rect{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1})
	}
	return rects
}

package analysis

import "strings"

// ArgandToASCII draws the valid samples as points (Re Ω, Im Ω) with the axes
// where they cross the visible area.
func ArgandToASCII(samples []Sample, width, height int) string {
	pts := Valid(samples)
	if len(pts) == 0 || width <= 1 || height <= 1 {
		return ""
	}

	minX, maxX := real(pts[0].Omega), real(pts[0].Omega)
	minY, maxY := imag(pts[0].Omega), imag(pts[0].Omega)
	for _, p := range pts {
		x, y := real(p.Omega), imag(p.Omega)
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range pts {
		col := int((real(p.Omega) - minX) / rangeX * float64(width-1))
		row := height - 1 - int((imag(p.Omega)-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int(-minX / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int(-minY/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

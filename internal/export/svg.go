package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/rigidsim/internal/sim"
)

var palette = []string{"#00ff88", "#00ccff", "#ff00ff", "#ffcc00", "#ff4444", "#8888ff"}

// TrailsSVG draws the recorded path of every body as one polyline each, in
// world orientation (y grows downwards). Bodies with a single sample are
// drawn as dots.
func TrailsSVG(samples []sim.Sample, width, height int) string {
	if len(samples) == 0 {
		return ""
	}

	order := make([]string, 0)
	paths := make(map[string][]sim.Sample)
	minX, maxX := samples[0].X, samples[0].X
	minY, maxY := samples[0].Y, samples[0].Y
	for _, s := range samples {
		if _, ok := paths[s.Body]; !ok {
			order = append(order, s.Body)
		}
		paths[s.Body] = append(paths[s.Body], s)
		if s.X < minX {
			minX = s.X
		}
		if s.X > maxX {
			maxX = s.X
		}
		if s.Y < minY {
			minY = s.Y
		}
		if s.Y > maxY {
			maxY = s.Y
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	project := func(s sim.Sample) (float64, float64) {
		return (s.X - minX) / rangeX * float64(width), (s.Y - minY) / rangeY * float64(height)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i, name := range order {
		color := palette[i%len(palette)]
		pts := paths[name]
		if len(pts) == 1 {
			x, y := project(pts[0])
			sb.WriteString(fmt.Sprintf(`<circle id="%s" cx="%.1f" cy="%.1f" r="2" fill="%s"/>
`, name, x, y, color))
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path id="%s" fill="none" stroke="%s" stroke-width="1.5" d="M`, name, color))
		for j, p := range pts {
			x, y := project(p)
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

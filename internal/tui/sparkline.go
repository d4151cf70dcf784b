package tui

import (
	"strings"

	"crypto-nexus/internal/domain"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders the price series as rows of block characters. height
// is the number of rows; one column per point.
func Sparkline(points []domain.ChartPoint, height int) string {
	if len(points) == 0 || height <= 0 {
		return ""
	}

	minP, maxP := points[0].Price, points[0].Price
	for _, p := range points {
		if p.Price < minP {
			minP = p.Price
		}
		if p.Price > maxP {
			maxP = p.Price
		}
	}

	span := maxP - minP
	levels := height * len(sparkRunes)
	cols := make([]int, len(points))
	for i, p := range points {
		level := levels - 1
		if span > 0 {
			level = int((p.Price - minP) / span * float64(levels-1))
		}
		cols[i] = level
	}

	var rows []string
	for row := height - 1; row >= 0; row-- {
		var sb strings.Builder
		base := row * len(sparkRunes)
		for _, level := range cols {
			switch {
			case level >= base+len(sparkRunes):
				sb.WriteRune(sparkRunes[len(sparkRunes)-1])
			case level < base:
				sb.WriteRune(' ')
			default:
				sb.WriteRune(sparkRunes[level-base])
			}
		}
		rows = append(rows, sb.String())
	}
	return strings.Join(rows, "\n")
}

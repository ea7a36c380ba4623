package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/cartwin/internal/analysis"
)

var ErrTooFewPoints = errors.New("need at least two points")

const DefaultStroke = "#00ff87"

// PortraitSVG draws the portrait as a single polyline, in sample order,
// with both axis names as labels.
func PortraitSVG(w io.Writer, p *analysis.Portrait, width, height int, stroke string) error {
	if p == nil || len(p.Points) < 2 {
		return ErrTooFewPoints
	}
	if stroke == "" {
		stroke = DefaultStroke
	}

	minX, maxX, minY, maxY := p.Bounds()

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

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, stroke)

	for i, pt := range p.Points {
		x := (pt.X - minX) / rangeX * float64(width)
		y := float64(height) - (pt.Y-minY)/rangeY*float64(height)

		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString("\"/>\n")
	fmt.Fprintf(&sb, `<text x="%d" y="%d" fill="#888888" font-size="12" text-anchor="end">%s</text>
`, width-6, height-6, p.XField)
	fmt.Fprintf(&sb, `<text x="6" y="16" fill="#888888" font-size="12">%s</text>
`, p.YField)
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

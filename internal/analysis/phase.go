package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/cartwin/internal/sim"
)

type Point struct {
	X, Y float64
}

// Portrait is a scatter of one telemetry field against another.
type Portrait struct {
	XField, YField string
	Points         []Point
}

func NewPortrait(samples []sim.Sample, xField, yField string) (*Portrait, error) {
	fx, err := Field(xField)
	if err != nil {
		return nil, err
	}
	fy, err := Field(yField)
	if err != nil {
		return nil, err
	}

	p := &Portrait{
		XField: xField,
		YField: yField,
		Points: make([]Point, 0, len(samples)),
	}
	for _, s := range samples {
		p.Points = append(p.Points, Point{X: fx(s), Y: fy(s)})
	}
	return p, nil
}

// Bounds returns the data extent without padding.
func (p *Portrait) Bounds() (minX, maxX, minY, maxY float64) {
	if len(p.Points) == 0 {
		return 0, 0, 0, 0
	}
	minX, maxX = math.Inf(1), math.Inf(-1)
	minY, maxY = math.Inf(1), math.Inf(-1)
	for _, pt := range p.Points {
		minX = math.Min(minX, pt.X)
		maxX = math.Max(maxX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxY = math.Max(maxY, pt.Y)
	}
	return minX, maxX, minY, maxY
}

// ASCII renders the scatter; early points are drawn lighter than late ones.
func (p *Portrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
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
	minX -= rangeX * 0.05
	maxX += rangeX * 0.05
	minY -= rangeY * 0.05
	maxY += rangeY * 0.05
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	n := len(p.Points)
	for i, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		if row < 0 || row >= height || col < 0 || col >= width {
			continue
		}
		switch {
		case i < n/3:
			canvas[row][col] = '.'
		case i < 2*n/3:
			canvas[row][col] = 'o'
		default:
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

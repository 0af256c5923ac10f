package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/odeint/internal/dynamo"
)

type Point struct{ X, Y float64 }

// PhasePortrait is the projection of a sampled trajectory onto two components.
type PhasePortrait struct {
	XIndex, YIndex int
	Points         []Point
}

func NewPhasePortrait(states []dynamo.State, xIdx, yIdx int) (*PhasePortrait, error) {
	if err := checkIndices(states, xIdx, yIdx); err != nil {
		return nil, err
	}
	p := &PhasePortrait{XIndex: xIdx, YIndex: yIdx, Points: make([]Point, len(states))}
	for i, s := range states {
		p.Points[i] = Point{X: s[xIdx], Y: s[yIdx]}
	}
	return p, nil
}

func checkIndices(states []dynamo.State, idx ...int) error {
	if len(states) == 0 {
		return fmt.Errorf("analysis: no samples")
	}
	for _, i := range idx {
		if i < 0 || i >= len(states[0]) {
			return fmt.Errorf("analysis: component %d out of range for state of length %d", i, len(states[0]))
		}
	}
	return nil
}

// ASCII plots the portrait on a width x height character grid, drawing the
// axes where they fall inside the padded bounds.
func (p *PhasePortrait) ASCII(width, height int) string {
	return plotPoints(p.Points, width, height)
}

func plotPoints(points []Point, width, height int) string {
	if len(points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX, rangeY := maxX-minX, maxY-minY
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
	rangeX, rangeY = maxX-minX, maxY-minY

	canvas := newCanvas(width, height)
	for _, p := range points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
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
	return render(canvas)
}

func newCanvas(width, height int) [][]rune {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}
	return canvas
}

func render(canvas [][]rune) string {
	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// PoincareSection holds the points where a trajectory crosses a threshold
// upwards in one component.
type PoincareSection struct {
	Times  []float64
	Points []Point
}

// NewPoincareSection records (recordX, recordY) at every upward crossing of
// threshold by component crossIdx, interpolating linearly between samples.
func NewPoincareSection(times []float64, states []dynamo.State, crossIdx int, threshold float64, recordX, recordY int) (*PoincareSection, error) {
	if err := checkIndices(states, crossIdx, recordX, recordY); err != nil {
		return nil, err
	}
	if len(times) != len(states) {
		return nil, fmt.Errorf("analysis: %d times for %d states", len(times), len(states))
	}

	section := &PoincareSection{}
	for i := 1; i < len(states); i++ {
		prev, curr := states[i-1][crossIdx], states[i][crossIdx]
		if !(prev < threshold && curr >= threshold) {
			continue
		}
		frac := (threshold - prev) / (curr - prev)
		lerp := func(j int) float64 {
			return states[i-1][j] + frac*(states[i][j]-states[i-1][j])
		}
		section.Times = append(section.Times, times[i-1]+frac*(times[i]-times[i-1]))
		section.Points = append(section.Points, Point{X: lerp(recordX), Y: lerp(recordY)})
	}
	return section, nil
}

func (s *PoincareSection) ASCII(width, height int) string {
	if len(s.Points) == 0 {
		return "No crossings detected"
	}
	return plotPoints(s.Points, width, height)
}

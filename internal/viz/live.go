package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/odeint/internal/dynamo"
	"github.com/san-kum/odeint/internal/experiment"
)

const (
	canvasWidth     = 60
	canvasHeight    = 20
	historyCapacity = 2000
	frameRate       = time.Second / 30
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// stepLog records log10 of every accepted step size.
type stepLog struct{ values []float64 }

func (s *stepLog) OnStep(_, h float64, _ dynamo.State) {
	s.values = append(s.values, math.Log10(math.Abs(h)))
	if len(s.values) > historyCapacity {
		s.values = s.values[1:]
	}
}

// Live advances an experiment one output interval at a time and draws it.
type Live struct {
	exp     *experiment.Experiment
	y0      dynamo.State
	xIdx    int
	yIdx    int
	window  float64
	k       int
	perTick int

	xs, ys []float64
	energy []float64
	steps  *stepLog

	theme   Theme
	styles  styles
	canvas  *Canvas
	running bool
	err     error
}

// NewLive plots components xIdx and yIdx of exp's state. When the state has
// a single component it is plotted against time.
func NewLive(exp *experiment.Experiment, xIdx, yIdx int) (*Live, error) {
	y0 := exp.Driver().State()
	if xIdx < 0 || xIdx >= len(y0) || yIdx < 0 || yIdx >= len(y0) {
		return nil, fmt.Errorf("viz: components %d, %d out of range for state of length %d", xIdx, yIdx, len(y0))
	}
	cfg := exp.Config()
	l := &Live{
		exp:     exp,
		y0:      y0,
		xIdx:    xIdx,
		yIdx:    yIdx,
		window:  (cfg.T1 - cfg.T0) / float64(cfg.Intervals),
		perTick: 1,
		steps:   &stepLog{},
		theme:   Themes[0],
		styles:  newStyles(Themes[0]),
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		running: true,
	}
	exp.AddObserver(l.steps)
	l.record(cfg.T0, y0)
	return l, nil
}

func (l *Live) Init() tea.Cmd { return tick() }

func (l *Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return l, tea.Quit
		case " ":
			l.running = !l.running
		case "r":
			l.restart()
		case "t":
			l.theme = l.theme.next()
			l.styles = newStyles(l.theme)
		case "+", "=":
			l.perTick = min(l.perTick*2, 1024)
		case "-", "_":
			l.perTick = max(l.perTick/2, 1)
		}
	case TickMsg:
		if l.running {
			l.advance()
		}
		return l, tick()
	}
	return l, nil
}

// Done reports whether the run reached T1 or failed.
func (l *Live) Done() bool { return l.err != nil || l.k >= l.exp.Config().Intervals }

func (l *Live) Err() error { return l.err }

func (l *Live) advance() {
	cfg := l.exp.Config()
	for i := 0; i < l.perTick && !l.Done(); i++ {
		l.k++
		t := cfg.T0 + float64(l.k)*l.window
		if l.k == cfg.Intervals {
			t = cfg.T1
		}
		y, err := l.exp.Driver().Advance(t)
		if err != nil {
			l.err = err
			l.running = false
			return
		}
		l.record(t, y)
	}
	if l.Done() {
		l.running = false
	}
}

func (l *Live) record(t float64, y dynamo.State) {
	x := y[l.xIdx]
	if len(y) == 1 {
		x = t
	}
	l.xs = append(l.xs, x)
	l.ys = append(l.ys, y[l.yIdx])
	if h, ok := l.exp.Model().(dynamo.Hamiltonian); ok {
		l.energy = append(l.energy, h.Energy(y))
	}
	if len(l.xs) > historyCapacity {
		l.xs, l.ys = l.xs[1:], l.ys[1:]
	}
	if len(l.energy) > historyCapacity {
		l.energy = l.energy[1:]
	}
}

func (l *Live) restart() {
	cfg := l.exp.Config()
	if err := l.exp.Driver().Reset(cfg.T0, l.y0); err != nil {
		l.err = err
		return
	}
	l.k, l.err, l.running = 0, nil, true
	l.xs, l.ys, l.energy = l.xs[:0], l.ys[:0], l.energy[:0]
	l.steps.values = l.steps.values[:0]
	l.record(cfg.T0, l.y0)
}

func (l *Live) statusLine() string {
	switch {
	case l.err != nil:
		return l.styles.status["failed"].Render("FAILED")
	case l.Done():
		return l.styles.status["paused"].Render("REACHED")
	case !l.running:
		return l.styles.status["paused"].Render("PAUSED")
	}
	return l.styles.status["running"].Render("RUNNING")
}

func (l *Live) View() string {
	cfg := l.exp.Config()
	d := l.exp.Driver()
	stats := d.Stats()
	s := l.styles

	l.canvas.Clear()
	l.canvas.Plot(l.xs, l.ys)

	row := func(label, value string) string {
		return s.label.Render(label) + s.value.Render(value) + "\n"
	}

	var b strings.Builder
	b.WriteString(s.header.Render(strings.ToUpper(cfg.Model)+" · "+cfg.Stepper) + "\n")
	b.WriteString(l.statusLine() + "\n\n")
	b.WriteString(s.progressBar(float64(l.k)/float64(cfg.Intervals), 30) + "\n\n")
	b.WriteString(row("Time", fmt.Sprintf("%.6g / %g", d.Time(), cfg.T1)))
	b.WriteString(row("Step", fmt.Sprintf("%.3e", d.Step())))
	b.WriteString(row("Accepted", fmt.Sprint(stats.Steps)))
	b.WriteString(row("Rejected", fmt.Sprint(stats.Rejected)))
	b.WriteString(row("Evals", fmt.Sprintf("%d f, %d J", stats.Evaluations, stats.JacobianEvaluations)))
	b.WriteString(row("Speed", fmt.Sprintf("%d/frame", l.perTick)))
	if n := len(l.energy); n > 0 {
		b.WriteString(row("Energy", fmt.Sprintf("%.6g", l.energy[n-1])))
		b.WriteString(row("", sparkline(l.energy, 30)))
	}
	if len(l.steps.values) > 1 {
		chart := asciigraph.Plot(l.steps.values,
			asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("log10 step"))
		b.WriteString(s.graph.Render(chart) + "\n")
	}
	if l.err != nil {
		b.WriteString(s.status["failed"].Render(wrap(l.err.Error(), 40)) + "\n")
	}
	b.WriteString(s.help.Render("SP:Pause R:Restart T:Theme\n+/-:Speed Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Padding(1, 2).Render(l.canvas.String()), s.panel.Render(b.String()))
}

func wrap(text string, width int) string {
	var b strings.Builder
	n := 0
	for _, word := range strings.Fields(text) {
		if n > 0 && n+len(word) >= width {
			b.WriteByte('\n')
			n = 0
		} else if n > 0 {
			b.WriteByte(' ')
			n++
		}
		b.WriteString(word)
		n += len(word)
	}
	return b.String()
}

// RunLive runs the view until the user quits.
func RunLive(l *Live) error {
	_, err := tea.NewProgram(l, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	return l.err
}

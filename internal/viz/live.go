package viz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/bubblechart/internal/anim"
	"github.com/san-kum/bubblechart/internal/chart"
	"github.com/san-kum/bubblechart/internal/dataset"
	"github.com/san-kum/bubblechart/internal/scene"
	"go.uber.org/zap"
)

const (
	defaultCols = 80
	defaultRows = 24
	panelWidth  = 44
	headerRows  = 2
	// canvasTop is the screen row of the first canvas row, below the
	// header and the y axis title.
	canvasTop = headerRows + 1
	tickLen     = 6
)

var errNoFPS = errors.New("viz: fps must be positive")

type (
	frameMsg  int
	animMsg   time.Time
	reloadMsg dataset.Reload
)

type LiveOptions struct {
	Interval   time.Duration
	Transition time.Duration
	FPS        int
	Theme      string
	Title      string
	Logger     *zap.Logger
	// Watch, when set, feeds dataset reloads into the view.
	Watch *dataset.Watcher
	// Now replaces the wall clock, for tests.
	Now func() time.Time
}

// Model is the live terminal chart. The animation controller picks the
// frame; the scene interpolates circles between frames on the wall clock.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	ds     *dataset.Dataset
	chart  *chart.Chart
	scene  *scene.Scene
	ctrl   *anim.Controller
	frames chan int
	watch  *dataset.Watcher

	epoch time.Time
	now   func() time.Time
	fps   int

	cols, rows int
	theme      Theme
	st         styles
	title      string
	showHelp   bool
	reloadErr  error
	warned     map[dataset.Continent]bool
	log        *zap.Logger
}

func NewModel(c *chart.Chart, ds *dataset.Dataset, opts LiveOptions) (Model, error) {
	if opts.FPS <= 0 {
		return Model{}, errNoFPS
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	frames := make(chan int, 1)
	ctrl, err := anim.New(ds.Len(), opts.Interval, func(i int) { handoff(frames, i) }, anim.WithLogger(log))
	if err != nil {
		return Model{}, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	theme := GetTheme(opts.Theme)
	title := opts.Title
	if title == "" {
		title = "bubblechart"
	}
	return Model{
		ctx:    ctx,
		cancel: cancel,
		ds:     ds,
		chart:  c,
		scene:  scene.New(c, opts.Transition),
		ctrl:   ctrl,
		frames: frames,
		watch:  opts.Watch,
		epoch:  now(),
		now:    now,
		fps:    opts.FPS,
		cols:   defaultCols,
		rows:   defaultRows,
		theme:  theme,
		st:     newStyles(theme),
		title:  title,
		warned: make(map[dataset.Continent]bool),
		log:    log,
	}, nil
}

// handoff keeps only the newest frame index, so a slow UI never blocks the
// controller.
func handoff(ch chan int, i int) {
	for {
		select {
		case ch <- i:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Start begins the animation and the dataset watcher.
func (m Model) Start() error {
	if m.watch != nil {
		if err := m.watch.Start(m.ctx); err != nil {
			return err
		}
	}
	return m.ctrl.Start(m.ctx)
}

// Close stops the animation and the watcher.
func (m Model) Close() {
	m.cancel()
	m.ctrl.Stop()
	if m.watch != nil {
		if err := m.watch.Close(); err != nil {
			m.log.Warn("close watcher", zap.Error(err))
		}
	}
}

func (m Model) clock() time.Duration { return m.now().Sub(m.epoch) }

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitFrame(m.ctx, m.frames), m.animTick()}
	if m.watch != nil {
		cmds = append(cmds, waitReload(m.ctx, m.watch.Reloads()))
	}
	return tea.Batch(cmds...)
}

func waitFrame(ctx context.Context, ch <-chan int) tea.Cmd {
	return func() tea.Msg {
		select {
		case i := <-ch:
			return frameMsg(i)
		case <-ctx.Done():
			return nil
		}
	}
}

func waitReload(ctx context.Context, ch <-chan dataset.Reload) tea.Cmd {
	return func() tea.Msg {
		select {
		case r := <-ch:
			return reloadMsg(r)
		case <-ctx.Done():
			return nil
		}
	}
}

func (m Model) animTick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return animMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.showHelp || msg.Action != tea.MouseActionMotion {
			return m, nil
		}
		x, y := m.viewport().FromCell(msg.X, msg.Y-canvasTop)
		m.scene.HoverAt(x, y, m.clock())
	case tea.WindowSizeMsg:
		m.cols = max(20, msg.Width-panelWidth-1)
		m.rows = max(8, msg.Height-canvasTop-1)
	case frameMsg:
		m.applyFrame(int(msg))
		return m, waitFrame(m.ctx, m.frames)
	case animMsg:
		return m, m.animTick()
	case reloadMsg:
		m.reload(dataset.Reload(msg))
		return m, waitReload(m.ctx, m.watch.Reloads())
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.Close()
		return m, tea.Quit
	case " ":
		if m.ctrl.State() == anim.Animating {
			m.ctrl.Stop()
		} else if err := m.ctrl.Start(m.ctx); err != nil {
			m.log.Warn("resume animation", zap.Error(err))
		}
	case "]", "right":
		m.ctrl.Seek(m.ctrl.Index() + 1)
	case "[", "left":
		m.ctrl.Seek(m.ctrl.Index() - 1)
	case "home":
		m.ctrl.Seek(0)
	case "tab":
		m.scene.HoverNext(1, m.clock())
	case "shift+tab":
		m.scene.HoverNext(-1, m.clock())
	case "esc":
		m.scene.Unhover()
	case "t":
		m.theme = NextTheme(m.theme)
		m.st = newStyles(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) applyFrame(i int) {
	if i < 0 || i >= m.ds.Len() {
		return
	}
	v := m.chart.Frame(m.ds.Frames[i])
	plan := m.scene.Apply(v, m.clock())
	m.log.Debug("frame applied",
		zap.Int("year", v.Year),
		zap.Int("enter", len(plan.Enter)),
		zap.Int("update", len(plan.Update)),
		zap.Int("exit", len(plan.Exit)))
	for _, p := range v.Points {
		if p.Continent.Known() || m.warned[p.Continent] {
			continue
		}
		m.warned[p.Continent] = true
		m.log.Warn("unknown continent",
			zap.String("continent", string(p.Continent)),
			zap.String("country", p.Key),
			zap.Int("year", v.Year))
	}
}

func (m *Model) reload(r dataset.Reload) {
	if r.Err != nil {
		m.reloadErr = r.Err
		return
	}
	c, err := chart.New(m.chart.Layout, m.chart.Options(), r.Dataset)
	if err != nil {
		m.reloadErr = err
		return
	}
	if err := m.ctrl.Resize(r.Dataset.Len()); err != nil {
		m.reloadErr = err
		return
	}
	m.reloadErr = nil
	m.ds = r.Dataset
	m.chart = c
	m.scene.SetChart(c)
	m.ctrl.Seek(m.ctrl.Index())
}

func (m Model) viewport() Viewport {
	l := m.chart.Layout
	return Fit(l.OuterWidth(), l.OuterHeight(), l.Margins.Left, l.Margins.Top, m.cols, m.rows)
}

func (m Model) View() string {
	at := m.clock()
	header := m.st.header.Render(strings.ToUpper(m.title) + "  " + m.st.year.Render(fmt.Sprint(m.scene.Year())))
	xt, yt := m.chart.Titles()
	plot := lipgloss.JoinVertical(lipgloss.Left,
		m.st.axis.Render(yt.Text),
		m.drawCanvas(at),
		m.st.axis.Width(m.cols).Align(lipgloss.Center).Render(xt.Text))
	main := lipgloss.JoinHorizontal(lipgloss.Top, plot, m.st.panel.Render(m.panel()))
	view := header + "\n" + main
	if m.showHelp {
		return m.st.help.Render(helpText) + "\n" + view
	}
	return view
}

const helpText = `KEYBOARD SHORTCUTS

Space       Pause / resume
[ ]  ← →    Previous / next year
Home        First year
Tab         Inspect next country
Shift+Tab   Inspect previous country
Esc         Hide tooltip
T           Cycle themes
?           Toggle this help
Q           Quit`

func (m Model) drawCanvas(at time.Duration) string {
	cv := NewCanvas(m.cols, m.rows)
	vp := m.viewport()
	l := m.chart.Layout
	axis := m.theme.Axis

	line := func(x0, y0, x1, y1 float64) {
		ax, ay := vp.ToSub(x0, y0)
		bx, by := vp.ToSub(x1, y1)
		cv.DrawLine(int(ax), int(ay), int(bx), int(by), axis)
	}
	line(0, l.Height, l.Width, l.Height)
	line(0, 0, 0, l.Height)

	hovered, _ := m.scene.Hovered()
	for _, st := range m.scene.Sample(at) {
		x, y := vp.ToSub(st.X, st.Y)
		col := lipgloss.Color(chart.ColorFor(st.Continent))
		if st.Key == hovered {
			col = m.theme.Highlight
		}
		cv.FillCircle(x, y, st.R*vp.Scale, col)
	}

	for _, t := range m.chart.XAxis().Ticks {
		line(t.Pos, l.Height, t.Pos, l.Height+tickLen)
		c, r := vp.ToCell(t.Pos, l.Height)
		cv.Text(c-len(t.Label)/2, r+1, t.Label, m.theme.Text)
	}
	for _, t := range m.chart.YAxis().Ticks {
		line(-tickLen, t.Pos, 0, t.Pos)
		c, r := vp.ToCell(0, t.Pos)
		cv.Text(c-len(t.Label)-1, r, t.Label, m.theme.Text)
	}
	return cv.Render(lipgloss.NewStyle())
}

func (m Model) panel() string {
	var s strings.Builder

	status := m.st.status.Render("PLAYING")
	if m.ctrl.State() != anim.Animating {
		status = m.st.paused.Render("PAUSED")
	}
	idx, n := m.ctrl.Index(), m.ctrl.Frames()
	s.WriteString(fmt.Sprintf("%s  %d/%d\n", status, idx+1, n))
	progress := 0.0
	if n > 1 {
		progress = float64(idx) / float64(n-1)
	}
	s.WriteString(ProgressBar(progress, panelWidth-6, m.st.year) + "\n\n")

	counts := make(map[dataset.Continent]int)
	unknown := 0
	for _, st := range m.scene.Sample(m.clock()) {
		if st.Exiting {
			continue
		}
		if st.Continent.Known() {
			counts[st.Continent]++
		} else {
			unknown++
		}
	}
	for _, c := range dataset.Continents {
		s.WriteString(Swatch(lipgloss.Color(chart.ColorFor(c)), m.st.label.Render(string(c))) + m.st.value.Render(fmt.Sprint(counts[c])) + "\n")
	}
	if unknown > 0 {
		s.WriteString(Swatch(lipgloss.Color(chart.UnknownColor), m.st.label.Render("Unknown")) + m.st.warning.Render(fmt.Sprint(unknown)) + "\n")
	}
	s.WriteString("\n")

	if tip, ok := m.scene.Tooltip(); ok {
		var body strings.Builder
		for i, ln := range tip.Lines {
			if i > 0 {
				body.WriteByte('\n')
			}
			body.WriteString(m.st.label.Render(ln.Label) + m.st.value.Render(ln.Value))
		}
		s.WriteString(m.st.tooltip.Render(body.String()) + "\n")
		key, _ := m.scene.Hovered()
		s.WriteString(m.history(key))
	} else {
		s.WriteString(m.st.hint.Render("tab to inspect a country") + "\n")
	}

	if m.reloadErr != nil {
		s.WriteString("\n" + m.st.err.Render("reload failed: "+m.reloadErr.Error()) + "\n")
	}
	s.WriteString("\n" + m.st.hint.Render("space pause  [ ] step  t theme  ? help  q quit"))
	return s.String()
}

// history plots the life expectancy of country up to the current year.
func (m Model) history(country string) string {
	year := m.scene.Year()
	values := make([]float64, 0)
	for _, p := range m.ds.History(country) {
		if p.Year > year {
			break
		}
		values = append(values, p.LifeExp)
	}
	if len(values) < 2 {
		return ""
	}
	plot := asciigraph.Plot(values,
		asciigraph.Height(5),
		asciigraph.Width(panelWidth-14),
		asciigraph.Precision(0),
		asciigraph.Caption("Life expectancy"))
	return m.st.graph.Render(plot) + "\n"
}

// Run starts the animation and blocks until the user quits or ctx is done.
func Run(ctx context.Context, m Model, opts ...tea.ProgramOption) error {
	if err := m.Start(); err != nil {
		return err
	}
	defer m.Close()

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/omnes/internal/analysis"
	"github.com/san-kum/omnes/internal/config"
	"github.com/san-kum/omnes/internal/omnes"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

var presetInfo = map[string]string{
	"pipi-p1": "ππ P-wave, I=1 (ρ)",
	"pipi-d0": "ππ D-wave, I=0 (f₂)",
}

type state int

const (
	stateMenu state = iota
	stateConfig
	stateExplore
)

type model struct {
	state    state
	cursor   int
	presets  []string
	selected string

	params      map[string]float64
	paramNames  []string
	paramCursor int
	editing     bool
	editBuf     string

	factor  *omnes.Factor
	samples []analysis.Sample
	pos     int
	stride  int
	watson  float64
	err     error

	logger *zap.Logger
	width  int
	height int
}

// NewExplorer returns the interactive Omnès explorer.
func NewExplorer(logger *zap.Logger) tea.Model {
	return newModel(logger)
}

func newModel(logger *zap.Logger) model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return model{
		state:   stateMenu,
		presets: config.ListPresets(),
		params: map[string]float64{
			"order":     omnes.DefaultOrder,
			"reference": config.DefaultReference,
			"s_max":     4.0,
			"points":    161,
		},
		paramNames: []string{"order", "reference", "s_max", "points"},
		stride:     1,
		logger:     logger,
		width:      80,
		height:     24,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateExplore:
		return m.exploreKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.presets[m.cursor]
		m.state = stateConfig
		m.paramCursor = 0
		m.err = nil
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%g", &val); err == nil {
				m.params[m.paramNames[m.paramCursor]] = val
			}
			m.editing = false
			m.editBuf = ""
		case "esc":
			m.editing = false
			m.editBuf = ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == 'e' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.paramNames)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing = true
		m.editBuf = fmt.Sprintf("%g", m.params[m.paramNames[m.paramCursor]])
	case "left", "h":
		m.nudge(-1)
	case "right", "l":
		m.nudge(1)
	case "s":
		if err := m.solve(); err != nil {
			m.err = err
			return m, nil
		}
		m.state = stateExplore
		return m, tea.ClearScreen
	}
	return m, nil
}

func (m *model) nudge(dir float64) {
	name := m.paramNames[m.paramCursor]
	switch name {
	case "order", "points":
		m.params[name] = math.Max(1, m.params[name]+dir)
	default:
		m.params[name] += 0.1 * dir
	}
}

// solve builds the selected preset with the edited settings and scans it.
func (m *model) solve() error {
	cfg := config.GetPreset(m.selected)
	if cfg == nil {
		return fmt.Errorf("unknown preset %q", m.selected)
	}
	cfg.Order = int(m.params["order"])
	cfg.Reference = m.params["reference"]

	f, _, err := cfg.Build(m.logger)
	if err != nil {
		return err
	}
	grid, err := analysis.Linspace(0, m.params["s_max"], int(m.params["points"]))
	if err != nil {
		return err
	}

	m.factor = f
	m.samples = analysis.ScanParallel(f, grid, 0, 32)
	m.watson = analysis.WatsonDeviation(m.samples, f.Partition().Threshold())
	m.pos = 0
	m.stride = 1
	m.err = nil
	return nil
}

func (m model) exploreKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
		return m, tea.ClearScreen
	case "c":
		m.state = stateConfig
		return m, tea.ClearScreen
	case "left", "h":
		m.pos = max(0, m.pos-m.stride)
	case "right", "l":
		m.pos = min(len(m.samples)-1, m.pos+m.stride)
	case "up", "k":
		m.stride = min(m.stride*2, max(1, len(m.samples)/4))
	case "down", "j":
		m.stride = max(1, m.stride/2)
	case "home":
		m.pos = 0
	case "end":
		m.pos = len(m.samples) - 1
	}
	return m, nil
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateExplore:
		return m.viewExplore()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("             " + cyan.Render("o m n è s") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-12s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-12s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter configure   q quit") + "\n")

	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(m.selected) + "  " + dim.Render(presetInfo[m.selected]) + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 30)) + "\n\n")

	for i, name := range m.paramNames {
		val := fmt.Sprintf("%8.3f", m.params[name])
		if m.editing && i == m.paramCursor {
			val = fmt.Sprintf("%8s", m.editBuf+"▋")
		}
		if i == m.paramCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-10s", name)) + magenta.Render(val) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-10s", name)) + dim.Render(val) + "\n")
		}
	}

	if m.err != nil {
		b.WriteString("\n      " + red.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select  ←→ adjust  enter edit  s solve  esc back") + "\n")

	return b.String()
}

func (m model) viewExplore() string {
	var b strings.Builder
	if len(m.samples) == 0 {
		return ""
	}

	cw := max(40, m.width-14)
	ch := max(6, m.height-16)

	b.WriteString("\n   " + cyan.Render(m.selected) + "  " +
		dim.Render(fmt.Sprintf("order %d  residual %.3g  watson %.2g",
			m.factor.Order(), m.factor.Residual(), m.watson)) + "\n\n")

	mod := make([]float64, len(m.samples))
	arg := make([]float64, len(m.samples))
	for i, s := range m.samples {
		mod[i], arg[i] = math.NaN(), math.NaN()
		if s.Err == nil {
			mod[i], arg[i] = s.Modulus(), s.Arg()
		}
	}
	b.WriteString(asciigraph.Plot(mod,
		asciigraph.Height(ch),
		asciigraph.Width(cw),
		asciigraph.Caption("|Ω(s)|")))
	b.WriteString("\n\n")

	b.WriteString("   " + dim.Render("arg Ω ") + m.sparkline(arg, cw) + "\n\n")

	s := m.samples[m.pos]
	b.WriteString(fmt.Sprintf("   %s %s\n", dim.Render("s     "), white.Render(fmt.Sprintf("%.5f GeV²", s.S))))
	if s.Err != nil {
		b.WriteString(fmt.Sprintf("   %s %s\n", dim.Render("Ω     "), red.Render(s.Err.Error())))
	} else {
		b.WriteString(fmt.Sprintf("   %s %s\n", dim.Render("Ω     "),
			green.Render(fmt.Sprintf("%+.6f %+.6fi", real(s.Omega), imag(s.Omega)))))
		b.WriteString(fmt.Sprintf("   %s %s   %s %s\n",
			dim.Render("|Ω|   "), white.Render(fmt.Sprintf("%.6f", s.Modulus())),
			dim.Render("arg Ω"), white.Render(fmt.Sprintf("%+.6f", s.Arg()))))
	}
	if s.S > m.factor.Partition().Threshold() {
		b.WriteString(fmt.Sprintf("   %s %s\n", dim.Render("δ(s)  "), magenta.Render(fmt.Sprintf("%+.6f", s.Phase))))
	}

	b.WriteString("\n" + dim.Render(fmt.Sprintf("   ←→ move (step %d)  ↑↓ step  c config  q menu", m.stride)) + "\n")

	return b.String()
}

// sparkline renders data with the cursor column highlighted.
func (m model) sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for _, v := range data {
		if !math.IsNaN(v) {
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
	}
	rang := maxVal - minVal
	if rang == 0 || math.IsInf(rang, 0) {
		rang = 1
	}
	step := max(1, len(data)/width)

	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		v := data[i*step]
		c := ' '
		if !math.IsNaN(v) {
			idx := min(7, max(0, int((v-minVal)/rang*7)))
			c = chars[idx]
		}
		if m.pos/step == i {
			sb.WriteString(magenta.Render(string(c)))
		} else {
			sb.WriteString(cyan.Render(string(c)))
		}
	}
	return sb.String()
}

// Run starts the explorer in the alternate screen.
func Run(logger *zap.Logger) error {
	p := tea.NewProgram(NewExplorer(logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Package tui is the interactive piano: a clickable key grid over a
// live piano-roll view of the recording buffer.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zvodd/PyGame-Midi-Instrument/internal/instrument"
	"github.com/zvodd/PyGame-Midi-Instrument/internal/pianoroll"
	"github.com/zvodd/PyGame-Midi-Instrument/internal/smfexport"
)

const (
	pressVelocity = 100

	// Key grid geometry in terminal cells, used for mouse hit-testing.
	gridTop   = 5 // lines above the first key row
	gridLeft  = 1
	cellWidth = 5 // 4 label chars + 1 gap
	rowStride = 2 // key line + gap line

	rollRows = 12

	// Terminals report key presses but not releases, so notes played
	// from the keyboard are released after a fixed hold.
	keyboardHold = 250 * time.Millisecond
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	whiteKeyStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#FFFFFF")).
			Foreground(lipgloss.Color("#000000"))

	blackKeyStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#444444")).
			Foreground(lipgloss.Color("#FFFFFF"))

	pressedKeyStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#00FF00")).
			Foreground(lipgloss.Color("#000000"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// One octave from middle C on the home row, accidentals on the row above.
var keyboardNotes = map[string]uint8{
	"a": 60, "w": 61, "s": 62, "e": 63, "d": 64, "f": 65,
	"t": 66, "g": 67, "y": 68, "h": 69, "u": 70, "j": 71, "k": 72,
}

type frameMsg time.Time

func frameTick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

type keyOffMsg uint8

func scheduleKeyOff(note uint8) tea.Cmd {
	return tea.Tick(keyboardHold, func(time.Time) tea.Msg {
		return keyOffMsg(note)
	})
}

// Model is the bubbletea model for the piano.
type Model struct {
	emitter  *instrument.Emitter
	layout   *instrument.Layout
	sinkName string

	kbHeld  map[uint8]bool // notes held via keyboard bindings
	message string
	isError bool
	width   int
	height  int
}

// NewModel builds the piano UI over an emitter and key layout.
func NewModel(em *instrument.Emitter, layout *instrument.Layout, sinkName string) *Model {
	return &Model{
		emitter:  em,
		layout:   layout,
		sinkName: sinkName,
		kbHeld:   make(map[uint8]bool),
	}
}

func (m *Model) Init() tea.Cmd {
	return frameTick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case frameMsg:
		// The view re-reads the buffer each frame; nothing to do here
		// beyond keeping the ticker alive.
		return m, frameTick()

	case keyOffMsg:
		note := uint8(msg)
		if m.kbHeld[note] {
			delete(m.kbHeld, note)
			m.emit(note, 0)
		}
		return m, nil

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m, nil
}

func (m *Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		row, col, ok := m.keyAt(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		if note, ok := m.layout.Press(row, col); ok {
			m.emit(note, pressVelocity)
		}

	case tea.MouseActionRelease:
		// Release everything held by the mouse, not just the key under
		// the cursor, so a drag off a key cannot leave it sounding.
		for _, note := range m.layout.ReleaseAll() {
			m.emit(note, 0)
		}
	}

	return m, nil
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "q", "ctrl+c", "esc":
		m.silence()
		return m, tea.Quit

	case "ctrl+s":
		m.save()
		return m, nil
	}

	if note, ok := keyboardNotes[key]; ok {
		if m.kbHeld[note] {
			return m, nil
		}
		m.kbHeld[note] = true
		m.emit(note, pressVelocity)
		return m, scheduleKeyOff(note)
	}

	return m, nil
}

// keyAt maps a terminal cell position to a grid key.
func (m *Model) keyAt(x, y int) (row, col int, ok bool) {
	if y < gridTop || x < gridLeft {
		return 0, 0, false
	}
	if (y-gridTop)%rowStride != 0 {
		return 0, 0, false // gap line between rows
	}
	if (x-gridLeft)%cellWidth == cellWidth-1 {
		return 0, 0, false // gap between keys
	}
	row = (y - gridTop) / rowStride
	col = (x - gridLeft) / cellWidth
	if row >= m.layout.Rows || col >= m.layout.Cols {
		return 0, 0, false
	}
	return row, col, true
}

func (m *Model) emit(note, velocity uint8) {
	if err := m.emitter.Emit(note, velocity); err != nil {
		m.message = fmt.Sprintf("MIDI send failed: %v", err)
		m.isError = true
	}
}

// silence releases every held note before quitting.
func (m *Model) silence() {
	for _, note := range m.layout.ReleaseAll() {
		m.emit(note, 0)
	}
	for note := range m.kbHeld {
		m.emit(note, 0)
	}
	m.kbHeld = make(map[uint8]bool)
}

func (m *Model) save() {
	name := smfexport.DefaultFilename(time.Now())
	err := smfexport.WriteFile(m.emitter.Buffer(), name)
	switch {
	case errors.Is(err, smfexport.ErrEmptyBuffer):
		m.message = "No events to save"
		m.isError = true
	case err != nil:
		m.message = fmt.Sprintf("Error saving: %v", err)
		m.isError = true
	default:
		m.message = fmt.Sprintf("Saved recording to %s", name)
		m.isError = false
	}
}

func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("MIDI Piano") + "\n\n")
	b.WriteString(subtitleStyle.Render("Output: ") + m.sinkName + "\n")

	buf := m.emitter.Buffer()
	status := fmt.Sprintf("Buffer: %d events in the last 30s", buf.Len())
	if m.message != "" {
		if m.isError {
			status += "  " + errorStyle.Render(m.message)
		} else {
			status += "  " + m.message
		}
	}
	b.WriteString(subtitleStyle.Render(status) + "\n\n")

	m.viewKeyGrid(&b)

	b.WriteString("\n")
	b.WriteString(m.viewRoll())
	b.WriteString("\n" + helpStyle.Render("click or a..k: play • ctrl+s: save MIDI • q: quit"))

	return b.String()
}

func (m *Model) viewKeyGrid(b *strings.Builder) {
	for row := 0; row < m.layout.Rows; row++ {
		b.WriteString(" ")
		for col := 0; col < m.layout.Cols; col++ {
			k := m.layout.Key(row, col)
			if k == nil {
				break
			}
			style := whiteKeyStyle
			if k.Black {
				style = blackKeyStyle
			}
			if k.Pressed {
				style = pressedKeyStyle
			}
			b.WriteString(style.Render(fmt.Sprintf("%-4s", k.Label)))
			b.WriteString(" ")
		}
		b.WriteString("\n\n")
	}
}

// viewRoll renders the last ten seconds of the buffer as a piano roll,
// consuming the renderer's draw commands into terminal cells.
func (m *Model) viewRoll() string {
	cols := m.width - 2
	if cols < 20 {
		cols = 20
	}
	if cols > 120 {
		cols = 120
	}

	cfg := pianoroll.DefaultConfig()
	cfg.NoteHeight = 1
	vp := pianoroll.Viewport{Width: float64(cols), Height: float64(rollRows)}
	frame := cfg.Render(m.emitter.Buffer(), vp, m.emitter.Buffer().Now())

	return rasterize(frame, cols, rollRows)
}

type rollCell struct {
	ch    rune
	color pianoroll.Color
}

// rasterize paints a frame into a cols x rows character grid in draw
// order: grid lines, note bars, playhead.
func rasterize(frame pianoroll.Frame, cols, rows int) string {
	grid := make([][]rollCell, rows)
	for y := range grid {
		grid[y] = make([]rollCell, cols)
		for x := range grid[y] {
			grid[y][x] = rollCell{ch: ' '}
		}
	}

	paint := func(x, y int, ch rune, c pianoroll.Color) {
		if y < 0 || y >= rows || x < 0 || x >= cols {
			return
		}
		grid[y][x] = rollCell{ch: ch, color: c}
	}

	for _, line := range frame.Grid {
		y := int(line.Y1)
		for x := 0; x < cols; x++ {
			paint(x, y, '─', line.Color)
		}
	}

	for _, bar := range frame.Notes {
		y := int(bar.Y)
		x0 := int(bar.X)
		x1 := int(bar.X + bar.W)
		if x1 <= x0 {
			x1 = x0 + 1
		}
		for x := x0; x < x1; x++ {
			paint(x, y, '█', bar.Color)
		}
	}

	for y := 0; y < rows; y++ {
		paint(cols-1, y, '│', frame.Playhead.Color)
	}

	var b strings.Builder
	styles := make(map[pianoroll.Color]lipgloss.Style)
	for _, rowCells := range grid {
		for _, c := range rowCells {
			if c.ch == ' ' {
				b.WriteRune(' ')
				continue
			}
			style, ok := styles[c.color]
			if !ok {
				hex := fmt.Sprintf("#%02X%02X%02X", c.color.R, c.color.G, c.color.B)
				style = lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
				styles[c.color] = style
			}
			b.WriteString(style.Render(string(c.ch)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Package tui implements the interactive "lazycopy watch" screen: a live
// view of pool occupancy as pages are touched one at a time, in place of the
// reference CLI's installer wizard and menu screens.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lazycopy/lazycopy/internal/lazycopy"
)

// WatchModel drives a single three-page lazy copy, one page-touch per Step
// key press, rendering pool occupancy after each.
type WatchModel struct {
	keys   WatchKeyMap
	help   help.Model
	width  int
	src    *lazycopy.Region
	dst    *lazycopy.Region
	pages  int
	next   int // next page index to touch, 0-based
	log    []string
	copied bool
}

func NewWatchModel() (WatchModel, error) {
	lazycopy.Init()
	pageSize := lazycopy.PageSize()
	size := 3 * pageSize

	src, err := lazycopy.NewRegion(size)
	if err != nil {
		return WatchModel{}, err
	}
	dst, err := lazycopy.NewRegion(size)
	if err != nil {
		return WatchModel{}, err
	}
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i)
	}
	if _, err := src.Fill(data); err != nil {
		return WatchModel{}, err
	}

	return WatchModel{
		keys:  DefaultWatchKeyMap(),
		help:  help.New(),
		src:   src,
		dst:   dst,
		pages: 3,
		log:   []string{"ready: press enter to issue the lazy copy"},
	}, nil
}

func (m WatchModel) Init() tea.Cmd { return nil }

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Reset):
			lazycopy.Reset()
			m.next = 0
			m.copied = false
			m.log = append(m.log, "reset: pool drained, protections restored")
			return m, nil
		case key.Matches(msg, m.keys.Step):
			m.step()
			return m, nil
		}
	}
	return m, nil
}

func (m *WatchModel) step() {
	if !m.copied {
		if err := lazycopy.LazyCopy(m.dst, m.src, 0, m.src.Size()); err != nil {
			m.log = append(m.log, fmt.Sprintf("LazyCopy error: %v", err))
			return
		}
		m.copied = true
		st := lazycopy.GetStats()
		m.log = append(m.log, fmt.Sprintf("LazyCopy issued: InUse=%d ChainLen=%d", st.InUse, st.ChainLen))
		return
	}
	if m.next >= m.pages {
		m.log = append(m.log, "all pages already materialized")
		return
	}
	offset := m.next*lazycopy.PageSize() + 1
	if _, err := m.dst.Byte(offset); err != nil {
		m.log = append(m.log, fmt.Sprintf("touch error: %v", err))
		return
	}
	st := lazycopy.GetStats()
	m.log = append(m.log, fmt.Sprintf("touched page %d: InUse=%d ChainLen=%d", m.next, st.InUse, st.ChainLen))
	m.next++
}

func (m WatchModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("lazycopy watch"))
	b.WriteString("\n")

	st := lazycopy.GetStats()
	b.WriteString("dst pages: ")
	for i := 0; i < m.pages; i++ {
		// Before LazyCopy, dst is ordinary writable memory. After, every
		// page sits at ModeNone until its touch materializes it back to
		// ModeReadWrite (protect.go) — this loop mirrors that directly.
		mode := lazycopy.ModeReadWrite
		if m.copied && i >= m.next {
			mode = lazycopy.ModeNone
		}
		b.WriteString(ModeStyle(mode).Render(fmt.Sprintf("[%d]", i)))
	}
	b.WriteString(fmt.Sprintf(" (%d/%d materialized)\n", m.next, m.pages))

	pressureLine := fmt.Sprintf("pool: InUse=%d Capacity=%d ChainLen=%d pressure=%s",
		st.InUse, st.Capacity, st.ChainLen, st.Pressure())
	b.WriteString(PressureStyle(st.Pressure()).Render(pressureLine))
	b.WriteString("\n\n")

	start := 0
	if len(m.log) > 8 {
		start = len(m.log) - 8
	}
	for _, line := range m.log[start:] {
		b.WriteString(StyleDim.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleHelpBar.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return b.String()
}

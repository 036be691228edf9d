package tui

import (
	"fmt"
	"strings"

	"github.com/aurora-stream/aurora/icon"
	"github.com/aurora-stream/aurora/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
)

const paddingX = 2

var paddingStyle = lipgloss.NewStyle().Padding(1, paddingX)

func (b *bubble) View() string {
	switch b.state {
	case loadingState:
		return b.viewLoading()
	case playingState:
		return b.viewPlaying()
	case errorState:
		return b.viewError()
	default:
		return ""
	}
}

func (b *bubble) header() string {
	title := style.Title(b.snapshot.Title)
	if b.snapshot.Intro() {
		title += " " + style.Badge("Intro")
	}
	return style.Truncate(b.contentWidth())(title)
}

func (b *bubble) viewLoading() string {
	return b.renderLines(true, []string{
		b.header(),
		"",
		b.spinnerC.View() + " " + b.snapshot.LoadingText(),
	})
}

func (b *bubble) viewPlaying() string {
	s := b.snapshot
	lines := []string{b.header(), ""}

	if !s.ControlsVisible {
		return b.renderLines(false, lines)
	}

	status := icon.Get(icon.Pause)
	if s.Playing {
		status = icon.Get(icon.Play)
	}
	timing := fmt.Sprintf("%s / %s", s.Elapsed(), s.Total())

	volume := fmt.Sprintf("%s %d%%", icon.Get(icon.Volume), int(s.Volume*100+0.5))
	if s.Muted {
		volume = icon.Get(icon.Muted) + " muted"
	}

	indicators := []string{status, volume}
	if s.Fullscreen {
		indicators = append(indicators, icon.Get(icon.Fullscreen))
	}

	lines = append(lines,
		b.progressC.ViewAs(s.Progress())+" "+timing,
		"",
		strings.Join(indicators, "  "),
		style.Faint("-"+s.Remaining()),
	)
	return b.renderLines(true, lines)
}

func (b *bubble) viewError() string {
	message := style.Fg(style.ErrorColor)(b.snapshot.Error)
	return b.renderLines(true, []string{
		style.ErrorTitle("Error"),
		"",
		icon.Get(icon.Fail) + " Playback stopped:",
		"",
		wrap.String(message, b.contentWidth()),
	})
}

func (b *bubble) contentWidth() int {
	return max(b.width-paddingX*2, 0)
}

func (b *bubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h+3 {
			l += strings.Repeat("\n", b.height-h-3)
		}
		l += "\n" + b.helpC.View(b.keymap)
	}
	return paddingStyle.Render(l)
}

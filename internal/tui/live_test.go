package tui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/shallvtalk/chaospendulum/internal/config"
)

func newTestModel() Model {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return *NewModel(config.DefaultConfig(), log)
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestMenuListsPresets(t *testing.T) {
	view := newTestModel().View()
	for _, p := range config.Presets {
		if !strings.Contains(view, p.Slug()) {
			t.Errorf("menu missing preset %s", p.Slug())
		}
	}
}

func TestStartAndStep(t *testing.T) {
	m := newTestModel()
	m = press(m, "down")
	m = press(m, "enter")

	if m.screen != screenSim || m.name != "small-angle" {
		t.Fatalf("expected small-angle session, got screen %d name %q", m.screen, m.name)
	}

	next, _ := m.Update(tickMsg{})
	m = next.(Model)
	if m.sim.Steps() == 0 {
		t.Error("tick should advance the simulation")
	}
	if m.trail.Len() != 1 {
		t.Errorf("expected one trail point, got %d", m.trail.Len())
	}
	if !strings.Contains(m.View(), "small-angle") {
		t.Error("view should name the running preset")
	}
}

func TestPauseResetAndSpeed(t *testing.T) {
	m := press(newTestModel(), "enter")

	m = press(m, " ")
	steps := m.sim.Steps()
	next, _ := m.Update(tickMsg{})
	m = next.(Model)
	if m.sim.Steps() != steps {
		t.Error("paused model should not step")
	}

	m = press(m, " ")
	next, _ = m.Update(tickMsg{})
	m = next.(Model)
	m = press(m, "r")
	if m.sim.Steps() != 0 || m.sim.System().State != config.DefaultConfig().State {
		t.Error("reset should restore the initial state")
	}

	m = press(m, "+")
	m = press(m, "+")
	if m.speed != 4 {
		t.Errorf("expected speed 4, got %d", m.speed)
	}
	m = press(m, "-")
	if m.speed != 2 {
		t.Errorf("expected speed 2, got %d", m.speed)
	}

	m = press(m, "m")
	if m.screen != screenMenu {
		t.Error("m should return to the menu")
	}
}

func TestSparkline(t *testing.T) {
	if got := sparkline(nil, 10); got != "" {
		t.Errorf("expected empty sparkline, got %q", got)
	}
	got := sparkline([]float64{0, 7, 7, 0}, 4)
	if got != "▁██▁" {
		t.Errorf("unexpected sparkline %q", got)
	}
}

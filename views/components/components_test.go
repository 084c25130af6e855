package components

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giftwheel/internal/viewmodel"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, c.Render(context.Background(), &b))
	return b.String()
}

func TestWheelFragment(t *testing.T) {
	html := renderString(t, WheelFragment(viewmodel.WheelFragment{
		GameID: "g1",
		Segments: []viewmodel.Segment{
			{Index: 0, Label: "<b>Mug</b>", Kind: "prize", Burned: true, MidDeg: 45},
			{Index: 1, Label: "Steal a prize", Kind: "bonus", Active: true, MidDeg: 135},
		},
		Gradient:     "conic-gradient(#f94144 0deg 90deg, #277da1 90deg 360deg)",
		Rotation:     12.5,
		TransitionMs: 400,
		Spinning:     true,
		Notice:       "Ann & Bob",
	}))

	assert.Contains(t, html, `<section id="wheel" class="wheel-panel" data-spinning="true">`)
	assert.Contains(t, html, `transform: rotate(12.500deg); transition: transform 400ms cubic-bezier(0.15, 0.7, 0.2, 1);`)
	assert.Contains(t, html, `<span class="slice slice-prize burned" data-index="0" style="transform: rotate(45.000deg);">`)
	assert.Contains(t, html, `<span class="slice slice-bonus active" data-index="1"`)
	assert.Contains(t, html, `<em>&lt;b&gt;Mug&lt;/b&gt;</em>`)
	assert.Contains(t, html, `<p class="notice" role="status">Ann &amp; Bob</p>`)
	assert.NotContains(t, html, "<b>")

	idle := renderString(t, WheelFragment(viewmodel.WheelFragment{}))
	assert.Contains(t, idle, `transition: none;`)
	assert.NotContains(t, idle, `class="notice"`)
}

func TestTurnFragment(t *testing.T) {
	swap := viewmodel.TurnFragment{
		GameID:        "g1",
		Status:        "pending",
		Action:        "resolve",
		CurrentPlayer: "Bob",
		ConfirmAtMs:   1700,
		Remaining:     1,
		Total:         2,
		Pending: &viewmodel.Pending{
			Kind:    "swap",
			Title:   "Steal a prize",
			Message: "Bob may take a prize.",
			Targets: []string{"Ann"},
		},
	}

	t.Run("host gets target buttons", func(t *testing.T) {
		data := swap
		data.IsHost = true
		html := renderString(t, TurnFragment(data))
		assert.Contains(t, html, `<section id="turn" class="turn-panel status-pending">`)
		assert.Contains(t, html, `<p class="remaining">1 of 2 prizes left</p>`)
		assert.Contains(t, html, `<div class="pending pending-swap"><h2>Steal a prize</h2>`)
		assert.Contains(t, html, `<form method="post" action="/game/g1/swap" class="action" data-action><input type="hidden" name="target" value="Ann">`)
		assert.Contains(t, html, `<button type="submit" class="option" data-confirm-at="1700">Take from Ann</button>`)
	})

	t.Run("spectator sees the effect only", func(t *testing.T) {
		html := renderString(t, TurnFragment(swap))
		assert.Contains(t, html, "Bob may take a prize.")
		assert.NotContains(t, html, "<form")
	})

	t.Run("spin", func(t *testing.T) {
		html := renderString(t, TurnFragment(viewmodel.TurnFragment{
			GameID: "g1", IsHost: true, Action: "spin", CurrentPlayer: "<Ann>",
		}))
		assert.Contains(t, html, `<h2>&lt;Ann&gt;, your turn!</h2>`)
		assert.Contains(t, html, `action="/game/g1/spin"`)
		assert.Contains(t, html, `<p class="action-error" hidden></p>`)
	})

	t.Run("finished", func(t *testing.T) {
		html := renderString(t, TurnFragment(viewmodel.TurnFragment{GameID: "g1", IsHost: true, Action: "done"}))
		assert.Contains(t, html, "All prizes have been handed out.")
		assert.NotContains(t, html, "<form")
	})
}

func TestBoardFragment(t *testing.T) {
	html := renderString(t, BoardFragment(viewmodel.BoardFragment{
		Players: []viewmodel.PlayerRow{
			{Name: "Ann", Status: "won", Prize: "Mug"},
			{Name: "Bob", Status: "waiting", Current: true},
		},
		BurnedPrizes: []string{"Mug"},
		Remaining:    1,
		Total:        2,
	}))

	assert.Contains(t, html, `<tr class="player status-won"><td>Ann</td><td>Mug</td></tr>`)
	assert.Contains(t, html, `<tr class="player status-waiting current"><td>Bob</td><td>-</td></tr>`)
	assert.Contains(t, html, `<p class="remaining">1 / 2 prizes left</p>`)
	assert.Contains(t, html, `<div class="chips"><h3>Gone</h3><span class="chip chip-prize">Mug</span></div>`)
	assert.NotContains(t, html, "Used")
}

// Package term previews animations as progress bars on a terminal.
package term

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/cellfx/fx"
)

// BarSlot is an fx.Slot that draws the eased position as a horizontal bar on
// one row of a screen. The bar colour blends from one colour to another as
// it fills.
type BarSlot struct {
	fx.Toggle

	screen tcell.Screen
	row    int
	label  string
	from   colorful.Color
	to     colorful.Color
}

// NewBarSlot creates a bar drawn on row of screen.
func NewBarSlot(screen tcell.Screen, row int, label string, from, to colorful.Color) *BarSlot {
	b := new(BarSlot)
	b.screen = screen
	b.row = row
	b.label = label
	b.from = from
	b.to = to
	return b
}

// Setup clears the row.
func (b *BarSlot) Setup(config any) {
	if !b.Active() {
		return
	}
	width, _ := b.screen.Size()
	for x := 0; x < width; x++ {
		b.screen.SetContent(x, b.row, ' ', nil, tcell.StyleDefault)
	}
}

// Render draws the bar for value and shows the screen.
func (b *BarSlot) Render(value float64) error {
	if !b.Active() {
		return nil
	}
	width, _ := b.screen.Size()
	labelWidth := len(b.label) + 1
	barWidth := width - labelWidth
	if barWidth <= 0 {
		return nil
	}

	for i, r := range b.label {
		b.screen.SetContent(i, b.row, r, nil, tcell.StyleDefault)
	}

	filled := int(clamp(value) * float64(barWidth))
	r, g, bl := b.from.BlendLab(b.to, clamp(value)).Clamped().RGB255()
	fill := tcell.StyleDefault.Background(tcell.NewRGBColor(int32(r), int32(g), int32(bl)))
	for x := 0; x < barWidth; x++ {
		style := tcell.StyleDefault
		if x < filled {
			style = fill
		}
		b.screen.SetContent(labelWidth+x, b.row, ' ', nil, style)
	}
	b.screen.Show()
	return nil
}

// Finish ends a once activation.
func (b *BarSlot) Finish(config any) {
	b.Release()
}

// Dispose leaves the screen to its owner.
func (b *BarSlot) Dispose() error {
	return nil
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// VoiceBubble is the play control of a voice message: a tappable chip
// with a progress fill, a play/pause glyph and the clip duration
type VoiceBubble struct {
	widget.BaseWidget
	Duration string
	OnToggle func()

	playing  bool
	hovered  bool
	progress float64
}

// NewVoiceBubble creates a bubble for one voice message
func NewVoiceBubble(duration string, onToggle func()) *VoiceBubble {
	b := &VoiceBubble{
		Duration: duration,
		OnToggle: onToggle,
	}
	b.ExtendBaseWidget(b)
	return b
}

// SetPlayback updates the bubble's playing flag and progress fill
func (b *VoiceBubble) SetPlayback(playing bool, progress float64) {
	b.playing = playing
	b.progress = progress
	b.Refresh()
}

// SetDuration refines the duration label once clip metadata is known
func (b *VoiceBubble) SetDuration(duration string) {
	b.Duration = duration
	b.Refresh()
}

// CreateRenderer implements fyne.Widget
func (b *VoiceBubble) CreateRenderer() fyne.WidgetRenderer {
	glyph := canvas.NewText(b.glyph(), theme.ForegroundColor())
	glyph.Alignment = fyne.TextAlignCenter

	duration := canvas.NewText(b.Duration, theme.ForegroundColor())
	duration.Alignment = fyne.TextAlignTrailing
	duration.TextSize = theme.CaptionTextSize()

	bg := canvas.NewRectangle(theme.ButtonColor())
	progressBar := canvas.NewRectangle(theme.PrimaryColor())

	return &voiceBubbleRenderer{
		bubble:      b,
		glyph:       glyph,
		duration:    duration,
		bg:          bg,
		progressBar: progressBar,
	}
}

func (b *VoiceBubble) glyph() string {
	if b.playing {
		return "⏸"
	}
	return "▶"
}

// Tapped implements fyne.Tappable
func (b *VoiceBubble) Tapped(*fyne.PointEvent) {
	if b.OnToggle != nil {
		b.OnToggle()
	}
}

// TappedSecondary implements fyne.SecondaryTappable
func (b *VoiceBubble) TappedSecondary(*fyne.PointEvent) {}

// MouseIn implements desktop.Hoverable
func (b *VoiceBubble) MouseIn(*desktop.MouseEvent) {
	b.hovered = true
	b.Refresh()
}

// MouseMoved implements desktop.Hoverable
func (b *VoiceBubble) MouseMoved(*desktop.MouseEvent) {}

// MouseOut implements desktop.Hoverable
func (b *VoiceBubble) MouseOut() {
	b.hovered = false
	b.Refresh()
}

type voiceBubbleRenderer struct {
	bubble      *VoiceBubble
	glyph       *canvas.Text
	duration    *canvas.Text
	bg          *canvas.Rectangle
	progressBar *canvas.Rectangle
}

func (r *voiceBubbleRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)

	glyphWidth := size.Height
	r.glyph.Resize(fyne.NewSize(glyphWidth, size.Height))
	r.glyph.Move(fyne.NewPos(0, 0))

	r.duration.Resize(fyne.NewSize(size.Width-glyphWidth-theme.Padding(), size.Height))
	r.duration.Move(fyne.NewPos(glyphWidth, 0))

	// Progress fills from left to right
	progressWidth := size.Width * float32(r.bubble.progress)
	r.progressBar.Resize(fyne.NewSize(progressWidth, size.Height))
	r.progressBar.Move(fyne.NewPos(0, 0))
}

func (r *voiceBubbleRenderer) MinSize() fyne.Size {
	minWidth := r.glyph.MinSize().Width + r.duration.MinSize().Width + theme.Padding()*4
	if minWidth < 180 {
		minWidth = 180
	}
	minHeight := r.glyph.MinSize().Height + theme.Padding()*2
	return fyne.NewSize(minWidth, minHeight)
}

func (r *voiceBubbleRenderer) Refresh() {
	r.glyph.Text = r.bubble.glyph()
	r.glyph.Color = theme.ForegroundColor()
	r.duration.Text = r.bubble.Duration
	r.duration.Color = theme.ForegroundColor()

	if r.bubble.hovered {
		r.bg.FillColor = theme.HoverColor()
	} else {
		r.bg.FillColor = theme.ButtonColor()
	}

	size := r.bg.Size()
	progressWidth := size.Width * float32(r.bubble.progress)
	r.progressBar.Resize(fyne.NewSize(progressWidth, size.Height))

	r.bg.Refresh()
	r.progressBar.Refresh()
	r.glyph.Refresh()
	r.duration.Refresh()
}

func (r *voiceBubbleRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.bg, r.progressBar, r.glyph, r.duration}
}

func (r *voiceBubbleRenderer) Destroy() {}

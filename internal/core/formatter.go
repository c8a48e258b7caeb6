package core

import (
	"strings"

	"cloudjuke/internal/card"
	"cloudjuke/pkg/text"
)

// formatSearchMessage builds the numbered result listing: intro line, one
// entry per song, then the play hint.
func (d *Dispatcher) formatSearchMessage(keyword string, songs []Song) string {
	var b strings.Builder

	b.WriteString(d.localizer.T("search.intro", keyword))
	b.WriteString("\n")

	for i, song := range songs {
		b.WriteString(d.localizer.T("search.entry", i+1, song.Name, song.Artist, song.ID))
		b.WriteString("\n")
	}

	b.WriteString(d.localizer.T("search.footer"))

	return b.String()
}

// formatPlayInfo builds the text-only reply used when the chat key names a
// host this instance has no transport for.
func (d *Dispatcher) formatPlayInfo(detail *SongDetail) string {
	return d.localizer.T("play.info",
		detail.Name,
		detail.Artist,
		text.FormatDuration(detail.Duration),
		detail.ID,
		card.JumpURL(detail.ID))
}

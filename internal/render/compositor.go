// Package render composes the search result list into a single PNG: a
// fetched (or synthesized) background with a header and one translucent
// row per song.
package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"cloudjuke/internal/core"
	"cloudjuke/pkg/text"
)

const (
	// canvasSize is the fixed width and height of the list image.
	canvasSize = 800
	// margin is the outer inset on all four sides.
	margin = 30
	// headerHeight is the vertical space reserved for the header line.
	headerHeight = 80

	headerFontSize = 30
	titleFontSize  = 22
	detailFontSize = 18
	fontDPI        = 72

	// maxTitleRunes and maxDetailRunes cap the wrap widths computed from
	// the available horizontal space.
	maxTitleRunes  = 25
	maxDetailRunes = 30
)

var (
	colorPrimary      = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	colorSecondary    = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	colorHeaderStroke = color.NRGBA{A: 150}
	colorRowBackdrop  = color.NRGBA{A: 100}
	colorCanvasGray   = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
)

// Compositor renders song lists. It is stateless apart from its HTTP
// client; every render reads its knobs from the passed options.
type Compositor struct {
	logger *zap.Logger
	http   *http.Client
}

func NewCompositor(logger *zap.Logger) *Compositor {
	return &Compositor{
		logger: logger,
		http:   &http.Client{},
	}
}

// RenderList draws up to opts.MaxRows songs over the background image and
// returns the result as base64-encoded PNG. Rows advance by a fixed height
// computed from MaxRows; overly long wrapped text may overlap the next row,
// which matches the layout this replaces.
func (c *Compositor) RenderList(ctx context.Context, songs []core.Song, opts core.RenderOptions) (string, error) {
	canvas := c.background(ctx, opts)

	f, err := c.loadFaces(opts.FontPath)
	if err != nil {
		return "", fmt.Errorf("load fonts: %w", err)
	}
	defer f.Close()

	maxRows := opts.MaxRows
	if maxRows < 1 {
		maxRows = 1
	}
	rowHeight := (canvasSize - headerHeight - 2*margin) / maxRows

	c.drawHeader(canvas, f.header, opts.Header)

	titleRunes := (canvasSize - 2*margin - 60 - 120) / 20
	if titleRunes > maxTitleRunes {
		titleRunes = maxTitleRunes
	}
	detailRunes := titleRunes + 5
	if detailRunes > maxDetailRunes {
		detailRunes = maxDetailRunes
	}

	rows := songs
	if len(rows) > maxRows {
		rows = rows[:maxRows]
	}

	y := headerHeight + margin
	for i, song := range rows {
		if y+rowHeight > canvasSize-margin {
			break
		}
		c.drawRow(canvas, f, i+1, song, y, rowHeight, titleRunes, detailRunes)
		y += rowHeight
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// drawHeader centers the header at the top margin, white over a dark
// stroke ring so it stays readable on arbitrary backgrounds.
func (c *Compositor) drawHeader(canvas *image.NRGBA, face font.Face, header string) {
	width := font.MeasureString(face, header).Ceil()
	x := (canvasSize - width) / 2

	for dx := -2; dx <= 2; dx++ {
		for dy := -2; dy <= 2; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			drawText(canvas, face, x+dx, margin+dy, colorHeaderStroke, header)
		}
	}
	drawText(canvas, face, x, margin, colorPrimary, header)
}

func (c *Compositor) drawRow(canvas *image.NRGBA, f *faces, rank int, song core.Song, y, rowHeight, titleRunes, detailRunes int) {
	backdrop := image.Rect(margin, y, canvasSize-margin, y+rowHeight-5)
	draw.Draw(canvas, backdrop, image.NewUniform(colorRowBackdrop), image.Point{}, draw.Over)

	drawText(canvas, f.title, margin+10, y+8, colorPrimary, fmt.Sprintf("%d.", rank))

	titleHeight := drawText(canvas, f.title, margin+50, y+8, colorPrimary, text.Wrap(song.Name, titleRunes))

	detail := fmt.Sprintf("%s - %s", song.Artist, song.Album)
	drawText(canvas, f.detail, margin+50, y+8+titleHeight+5, colorSecondary, text.Wrap(detail, detailRunes))

	drawText(canvas, f.detail, canvasSize-margin-100, y+10, colorSecondary, fmt.Sprintf("ID: %d", song.ID))
}

// drawText draws s at (x, y) where y is the top of the first line, and
// returns the vertical space consumed. Embedded newlines start new lines.
func drawText(dst *image.NRGBA, face font.Face, x, y int, col color.Color, s string) int {
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()

	height := 0
	for _, line := range strings.Split(s, "\n") {
		drawer := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(col),
			Face: face,
			Dot:  fixed.P(x, y+height+ascent),
		}
		drawer.DrawString(line)
		height += lineHeight
	}
	return height
}

// faces bundles the three sizes used by the layout.
type faces struct {
	header font.Face
	title  font.Face
	detail font.Face
}

func (f *faces) Close() {
	f.header.Close()
	f.title.Close()
	f.detail.Close()
}

// loadFaces builds faces from the configured font file. Any load failure
// falls back to the embedded Go Regular face; rendering never fails for
// want of a font.
func (c *Compositor) loadFaces(path string) (*faces, error) {
	parsed, err := parseFontFile(path)
	if err != nil {
		if path != "" {
			c.logger.Warn("Configured font unavailable, using built-in fallback",
				zap.String("path", path),
				zap.Error(err))
		}
		parsed, err = opentype.Parse(goregular.TTF)
		if err != nil {
			return nil, err
		}
	}

	header, err := newFace(parsed, headerFontSize)
	if err != nil {
		return nil, err
	}
	title, err := newFace(parsed, titleFontSize)
	if err != nil {
		header.Close()
		return nil, err
	}
	detail, err := newFace(parsed, detailFontSize)
	if err != nil {
		header.Close()
		title.Close()
		return nil, err
	}

	return &faces{header: header, title: title, detail: detail}, nil
}

// parseFontFile reads path as an OpenType collection, which also accepts
// plain .ttf/.otf files, and returns its first font.
func parseFontFile(path string) (*opentype.Font, error) {
	if path == "" {
		return nil, fmt.Errorf("no font path configured")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	collection, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, err
	}

	return collection.Font(0)
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     fontDPI,
		Hinting: font.HintingFull,
	})
}

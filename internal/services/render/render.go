// Package render draws bingo cards onto a template image.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg" // Templates may be JPEG
	"image/png"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/mcoot/musicbingo/internal/model"
)

// Renderer turns a card into an encoded image
type Renderer interface {
	Render(ctx context.Context, card model.Card) ([]byte, error)
}

// Layout fractions of the template size
const (
	gridLeft     = 0.10
	gridTop      = 0.25
	gridWidth    = 0.80
	gridHeight   = 0.60
	numberX      = 0.85
	numberY      = 0.12
	cellPadding  = 0.08 // Share of the cell width kept clear on each side
	cellText     = 0.16 // Cell font size as a share of the cell height
	numberText   = 0.05 // Card number font size as a share of the template height
	minFontSize  = 8
	lineSpacing  = 1.15
	defaultWidth = 1200
)

// goRegular covers Latin, Cyrillic and Greek, so artist names in any of
// them print as real glyphs
var goRegular = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

var (
	textColor    = color.Black
	outlineColor = color.White
	heartColor   = color.RGBA{R: 0xd6, G: 0x1f, B: 0x3a, A: 0xff}
	borderColor  = color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
)

// PNGRenderer composites card grids onto a template and encodes them as PNG
type PNGRenderer struct {
	template image.Image
}

// NewPNGRenderer loads the template at path. An empty path selects a plain
// generated template.
func NewPNGRenderer(templatePath string) (*PNGRenderer, error) {
	tmpl, err := loadTemplate(templatePath)
	if err != nil {
		return nil, err
	}
	return &PNGRenderer{template: tmpl}, nil
}

// NewPNGRendererFromImage uses an already decoded template
func NewPNGRendererFromImage(tmpl image.Image) *PNGRenderer {
	return &PNGRenderer{template: tmpl}
}

func loadTemplate(path string) (image.Image, error) {
	if path == "" {
		return DefaultTemplate(defaultWidth, defaultWidth*4/3), nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", model.ErrTemplateNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode template: %w", err)
	}
	return img, nil
}

// DefaultTemplate is a white card with faint cell borders where the grid goes
func DefaultTemplate(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	g := gridRect(img.Bounds())
	cellW := float64(g.Dx()) / model.GridSize
	cellH := float64(g.Dy()) / model.GridSize
	for i := 0; i <= model.GridSize; i++ {
		x := g.Min.X + int(float64(i)*cellW)
		y := g.Min.Y + int(float64(i)*cellH)
		draw.Draw(img, image.Rect(x-1, g.Min.Y, x+1, g.Max.Y), image.NewUniform(borderColor), image.Point{}, draw.Src)
		draw.Draw(img, image.Rect(g.Min.X, y-1, g.Max.X, y+1), image.NewUniform(borderColor), image.Point{}, draw.Src)
	}
	return img
}

func gridRect(b image.Rectangle) image.Rectangle {
	w, h := float64(b.Dx()), float64(b.Dy())
	x0 := b.Min.X + int(w*gridLeft)
	y0 := b.Min.Y + int(h*gridTop)
	return image.Rect(x0, y0, x0+int(w*gridWidth), y0+int(h*gridHeight))
}

// Render draws the card's grid and number onto a copy of the template
func (r *PNGRenderer) Render(ctx context.Context, card model.Card) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := r.template.Bounds()
	img := image.NewRGBA(bounds)
	draw.Draw(img, bounds, r.template, bounds.Min, draw.Src)

	g := gridRect(bounds)
	cellW := float64(g.Dx()) / model.GridSize
	cellH := float64(g.Dy()) / model.GridSize

	// Faces keep rasteriser state, so each render gets its own
	cellFace, err := newFace(cellH * cellText)
	if err != nil {
		return nil, err
	}
	defer cellFace.Close()
	numberFace, err := newFace(float64(bounds.Dy()) * numberText)
	if err != nil {
		return nil, err
	}
	defer numberFace.Close()

	lineH := float64(cellFace.Metrics().Height.Ceil()) * lineSpacing
	maxWidth := int(cellW * (1 - 2*cellPadding))
	for row := 0; row < model.GridSize; row++ {
		for col, cell := range card.Grid.Row(row) {
			cx := float64(g.Min.X) + (float64(col)+0.5)*cellW
			cy := float64(g.Min.Y) + (float64(row)+0.5)*cellH

			lines := wrap(cellFace, cell.Name, maxWidth)
			top := cy - lineH*float64(len(lines))/2
			for i, line := range lines {
				drawText(img, cellFace, line, int(cx), int(top+lineH*(float64(i)+0.5)), true)
			}

			if cell.Marked {
				size := int(cellH / 6)
				drawHeart(img, int(cx-cellW/2)+size, int(cy-cellH/2)+size, size)
			}
		}
	}

	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	drawText(img, numberFace, strconv.Itoa(card.Number),
		bounds.Min.X+int(w*numberX), bounds.Min.Y+int(h*numberY), false)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// newFace sizes Go Regular in pixels (72 DPI makes points equal pixels)
func newFace(size float64) (font.Face, error) {
	f, err := goRegular()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	if size < minFontSize {
		size = minFontSize
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new font face: %w", err)
	}
	return face, nil
}

// wrap splits name into lines no wider than maxWidth pixels. A single word
// longer than the limit gets a line of its own.
func wrap(face font.Face, name string, maxWidth int) []string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return nil
	}
	lines := []string{words[0]}
	for _, word := range words[1:] {
		candidate := lines[len(lines)-1] + " " + word
		if font.MeasureString(face, candidate).Ceil() > maxWidth {
			lines = append(lines, word)
			continue
		}
		lines[len(lines)-1] = candidate
	}
	return lines
}

// drawText renders s centred on (cx, cy). With outline set the text gets a
// white halo like the printed cards.
func drawText(dst *image.RGBA, face font.Face, s string, cx, cy int, outline bool) {
	width := font.MeasureString(face, s)
	if width == 0 {
		return
	}
	metrics := face.Metrics()
	// Baseline sits so the ascent-to-descent box is centred on cy
	dot := fixed.Point26_6{
		X: fixed.I(cx) - width/2,
		Y: fixed.I(cy) + (metrics.Ascent-metrics.Descent)/2,
	}

	if outline {
		halo := metrics.Height.Ceil() / 12
		if halo < 1 {
			halo = 1
		}
		for _, off := range []image.Point{{-halo, 0}, {halo, 0}, {0, -halo}, {0, halo}} {
			d := &font.Drawer{Dst: dst, Src: image.NewUniform(outlineColor), Face: face,
				Dot: dot.Add(fixed.P(off.X, off.Y))}
			d.DrawString(s)
		}
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(textColor), Face: face, Dot: dot}
	d.DrawString(s)
}

// drawHeart fills a heart of radius size centred on (cx, cy)
func drawHeart(dst *image.RGBA, cx, cy, size int) {
	if size < 2 {
		size = 2
	}
	for py := -size; py <= size; py++ {
		for px := -size; px <= size; px++ {
			x := float64(px) / float64(size) * 1.2
			y := -float64(py) / float64(size) * 1.2
			a := x*x + y*y - 1
			if a*a*a-x*x*y*y*y <= 0 {
				dst.Set(cx+px, cy+py, heartColor)
			}
		}
	}
}

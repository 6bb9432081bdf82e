package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/sync/errgroup"

	"github.com/mcoot/musicbingo/internal/model"
)

func testCard(number int, marked int) model.Card {
	names := make([]string, model.GridCells)
	for i := range names {
		names[i] = fmt.Sprintf("The Band Number %d", i)
	}
	grid := model.NewGrid(names)
	if marked >= 0 {
		grid[marked].Marked = true
	}
	return model.Card{GameID: "GAME1", Number: number, Grid: grid}
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestRenderKeepsTemplateSize(t *testing.T) {
	r := NewPNGRendererFromImage(DefaultTemplate(600, 800))

	data, err := r.Render(context.Background(), testCard(1, -1))
	require.NoError(t, err)

	img := decode(t, data)
	assert.Equal(t, 600, img.Bounds().Dx())
	assert.Equal(t, 800, img.Bounds().Dy())
}

func TestRenderDrawsText(t *testing.T) {
	tmpl := DefaultTemplate(600, 800)
	r := NewPNGRendererFromImage(tmpl)

	data, err := r.Render(context.Background(), testCard(7, -1))
	require.NoError(t, err)
	img := decode(t, data)

	assert.Greater(t, countDark(img, gridRect(img.Bounds())), 0)
	numberArea := image.Rect(int(600*numberX)-20, int(800*numberY)-20, int(600*numberX)+20, int(800*numberY)+20)
	assert.Greater(t, countDark(img, numberArea), 0)
}

func TestRenderMarksHeartCell(t *testing.T) {
	r := NewPNGRendererFromImage(DefaultTemplate(600, 800))

	plain, err := r.Render(context.Background(), testCard(1, -1))
	require.NoError(t, err)
	marked, err := r.Render(context.Background(), testCard(1, 0))
	require.NoError(t, err)

	assert.Zero(t, countRed(decode(t, plain)))
	assert.Greater(t, countRed(decode(t, marked)), 0)
}

func TestRenderDiffersPerCard(t *testing.T) {
	r := NewPNGRendererFromImage(DefaultTemplate(600, 800))

	a, err := r.Render(context.Background(), testCard(1, -1))
	require.NoError(t, err)
	b, err := r.Render(context.Background(), testCard(2, -1))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestRenderHonoursCancellation(t *testing.T) {
	r := NewPNGRendererFromImage(DefaultTemplate(300, 400))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Render(ctx, testCard(1, -1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMissingTemplate(t *testing.T) {
	_, err := NewPNGRenderer(filepath.Join(t.TempDir(), "nope.png"))
	assert.ErrorIs(t, err, model.ErrTemplateNotFound)
}

func TestTemplateFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, DefaultTemplate(480, 640)))
	require.NoError(t, f.Close())

	r, err := NewPNGRenderer(path)
	require.NoError(t, err)

	data, err := r.Render(context.Background(), testCard(3, 5))
	require.NoError(t, err)
	assert.Equal(t, 480, decode(t, data).Bounds().Dx())
}

func TestEmptyPathUsesDefaultTemplate(t *testing.T) {
	r, err := NewPNGRenderer("")
	require.NoError(t, err)
	assert.Equal(t, defaultWidth, r.template.Bounds().Dx())
}

func TestWrap(t *testing.T) {
	face, err := newFace(20)
	require.NoError(t, err)
	defer face.Close()

	oneWord := font.MeasureString(face, "Earth").Ceil()
	lines := wrap(face, "Earth Wind and Fire", oneWord+font.MeasureString(face, " Wind").Ceil())
	assert.Equal(t, []string{"Earth Wind", "and Fire"}, lines)

	assert.Equal(t, []string{"Supercalifragilistic"}, wrap(face, "Supercalifragilistic", 30))
	assert.Nil(t, wrap(face, "   ", 30))
	assert.Equal(t, "A B C", strings.Join(wrap(face, "A  B C", 1000), " "))
}

func TestFaceCoversCyrillicAndGreek(t *testing.T) {
	face, err := newFace(20)
	require.NoError(t, err)
	defer face.Close()

	for _, r := range "ЖёЯλΩé" {
		_, ok := face.GlyphAdvance(r)
		assert.True(t, ok, "missing glyph %q", r)
	}
}

func TestRenderDistinguishesCyrillicNames(t *testing.T) {
	r := NewPNGRendererFromImage(DefaultTemplate(600, 800))
	card := func(first string) model.Card {
		c := testCard(1, -1)
		c.Grid[0].Name = first
		return c
	}

	a, err := r.Render(context.Background(), card("Кино"))
	require.NoError(t, err)
	b, err := r.Render(context.Background(), card("Мото"))
	require.NoError(t, err)

	assert.False(t, bytes.Equal(a, b))
}

func TestRenderIsSafeConcurrently(t *testing.T) {
	r := NewPNGRendererFromImage(DefaultTemplate(300, 400))
	want, err := r.Render(context.Background(), testCard(4, 2))
	require.NoError(t, err)

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			got, err := r.Render(context.Background(), testCard(4, 2))
			if err != nil {
				return err
			}
			if !bytes.Equal(want, got) {
				return fmt.Errorf("render differs between goroutines")
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

type countingRenderer struct {
	calls atomic.Int32
}

func (c *countingRenderer) Render(_ context.Context, card model.Card) ([]byte, error) {
	c.calls.Add(1)
	return []byte(fmt.Sprintf("%s-%d", card.GameID, card.Number)), nil
}

func TestCachedRendererReusesImages(t *testing.T) {
	next := &countingRenderer{}
	r, err := NewCachedRenderer(next, 8)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		data, err := r.Render(ctx, testCard(1, -1))
		require.NoError(t, err)
		assert.Equal(t, "GAME1-1", string(data))
	}
	_, err = r.Render(ctx, testCard(2, -1))
	require.NoError(t, err)

	assert.Equal(t, int32(2), next.calls.Load())
}

func TestCachedRendererForget(t *testing.T) {
	next := &countingRenderer{}
	r, err := NewCachedRenderer(next, 8)
	require.NoError(t, err)
	ctx := context.Background()

	_, _ = r.Render(ctx, testCard(1, -1))
	r.Forget("GAME1")
	_, _ = r.Render(ctx, testCard(1, -1))

	assert.Equal(t, int32(2), next.calls.Load())
}

func TestCachedRendererRejectsBadSize(t *testing.T) {
	_, err := NewCachedRenderer(&countingRenderer{}, 0)
	assert.Error(t, err)
}

func countDark(img image.Image, area image.Rectangle) int {
	n := 0
	area = area.Intersect(img.Bounds())
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r < 0x4000 && g < 0x4000 && b < 0x4000 {
				n++
			}
		}
	}
	return n
}

func countRed(img image.Image) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if c == heartColor {
				n++
			}
		}
	}
	return n
}

// Package archive bundles the rendered cards of a game into a zip file.
package archive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"golang.org/x/sync/errgroup"

	"github.com/mcoot/musicbingo/internal/dependencies/clock"
	"github.com/mcoot/musicbingo/internal/model"
	"github.com/mcoot/musicbingo/internal/services/render"
)

// Progress statuses
const (
	StatusGenerating = "generating"
	StatusComplete   = "complete"
	StatusError      = "error"
)

// DefaultConcurrency bounds parallel card rendering
const DefaultConcurrency = 4

// Progress reports how far an archive build has got
type Progress struct {
	GameID  model.GameID
	Done    int
	Total   int
	Percent int
	Status  string
	Error   string
}

// ProgressFunc receives progress updates. Calls are serialised.
type ProgressFunc func(Progress)

// ArchiveName is the download file name for a game's cards
func ArchiveName(gameID model.GameID) string {
	return fmt.Sprintf("bingo-cards-game-%s.zip", gameID)
}

// EntryName is the file name of one card inside the archive
func EntryName(number int) string {
	return fmt.Sprintf("card-%d.png", number)
}

// Packager renders cards and writes them as a zip archive
type Packager struct {
	renderer    render.Renderer
	concurrency int
	clock       clock.Clock
	logger      *slog.Logger
}

// NewPackager creates a Packager rendering up to concurrency cards at once.
// Zip entries are stamped with the clock's time.
func NewPackager(renderer render.Renderer, concurrency int, clk clock.Clock, logger *slog.Logger) *Packager {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Packager{
		renderer:    renderer,
		concurrency: concurrency,
		clock:       clk,
		logger:      logger,
	}
}

// Write renders every card and streams the archive to w. Entries are written
// in card-number order regardless of rendering order. A rendering failure
// aborts the remaining work and is reported through progress.
func (p *Packager) Write(ctx context.Context, w io.Writer, game *model.Game, cards []model.Card, progress ProgressFunc) error {
	if progress == nil {
		progress = func(Progress) {}
	}
	total := len(cards)

	var (
		mu   sync.Mutex
		done int
	)
	report := func(status, errMsg string) {
		mu.Lock()
		defer mu.Unlock()
		if status == StatusGenerating {
			done++
		}
		percent := 100
		if total > 0 {
			percent = done * 100 / total
		}
		progress(Progress{
			GameID:  game.ID,
			Done:    done,
			Total:   total,
			Percent: percent,
			Status:  status,
			Error:   errMsg,
		})
	}

	images := make([][]byte, total)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i := range cards {
		g.Go(func() error {
			data, err := p.renderer.Render(gctx, cards[i])
			if err != nil {
				return fmt.Errorf("render card %d: %w", cards[i].Number, err)
			}
			images[i] = data
			report(StatusGenerating, "")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.logger.Error("card archive failed",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		report(StatusError, err.Error())
		return err
	}

	if err := p.writeZip(w, cards, images); err != nil {
		report(StatusError, err.Error())
		return err
	}

	p.logger.Info("card archive written",
		slog.String("game_id", string(game.ID)),
		slog.Int("cards", total),
	)
	report(StatusComplete, "")
	return nil
}

func (p *Packager) writeZip(w io.Writer, cards []model.Card, images [][]byte) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	order := make([]int, len(cards))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return cards[order[a]].Number < cards[order[b]].Number
	})

	modified := p.clock.Now()
	for _, i := range order {
		f, err := zw.CreateHeader(&zip.FileHeader{
			Name:     EntryName(cards[i].Number),
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return fmt.Errorf("create zip entry: %w", err)
		}
		if _, err := f.Write(images[i]); err != nil {
			return fmt.Errorf("write zip entry: %w", err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish zip: %w", err)
	}
	return nil
}

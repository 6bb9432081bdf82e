package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/musicbingo/internal/api/response"
	"github.com/mcoot/musicbingo/internal/dependencies/clock"
	"github.com/mcoot/musicbingo/internal/dependencies/random"
	"github.com/mcoot/musicbingo/internal/model"
	"github.com/mcoot/musicbingo/internal/services/archive"
	"github.com/mcoot/musicbingo/internal/services/generator"
	"github.com/mcoot/musicbingo/internal/services/render"
)

// offlineGameID labels cards generated without a server
const offlineGameID model.GameID = "offline"

// GenerateOptions controls an offline deck generation
type GenerateOptions struct {
	Artists  model.ArtistPool
	Cards    int
	Marker   bool
	Seed     uint64
	Template string
	ZipPath  string
}

func newGenerateCmd() *cobra.Command {
	var (
		opts        GenerateOptions
		artistsFile string
		file        string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a deck locally without a server",
		Long: `Generate unique cards from an artist list on this machine. The same
--seed and artist list always produce the same deck. With --zip the
rendered card images are written to an archive as well.`,
		Example: `  bingo generate --artists-file artists.txt --cards 20 --seed 7
  bingo generate -f friday.yaml --zip friday.zip`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" {
				gf, err := LoadGameFile(file)
				if err != nil {
					return err
				}
				opts.Artists = model.NormalizeArtistPool(gf.Artists)
				if !cmd.Flags().Changed("cards") && gf.Cards > 0 {
					opts.Cards = gf.Cards
				}
				if !cmd.Flags().Changed("marker") {
					opts.Marker = gf.Marker
				}
			}
			if artistsFile != "" {
				data, err := os.ReadFile(artistsFile)
				if err != nil {
					return err
				}
				opts.Artists = model.ParseArtistPool(string(data))
			}

			result, err := GenerateDeck(cmd, opts)
			if err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML game definition")
	cmd.Flags().StringVar(&artistsFile, "artists-file", "", "Text file with one artist per line")
	cmd.Flags().IntVar(&opts.Cards, "cards", 30, "Number of cards to generate")
	cmd.Flags().BoolVar(&opts.Marker, "marker", false, "Put a heart on one cell of every card")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "Seed for a reproducible deck (0 picks a random deck)")
	cmd.Flags().StringVar(&opts.Template, "template", "", "Card background image for --zip")
	cmd.Flags().StringVar(&opts.ZipPath, "zip", "", "Also write rendered cards to this zip file")

	return cmd
}

// GenerateDeck builds the cards for opts and optionally writes the rendered archive
func GenerateDeck(cmd *cobra.Command, opts GenerateOptions) (response.CardList, error) {
	var rnd random.Random = random.New()
	if opts.Seed != 0 {
		rnd = random.NewSeeded(opts.Seed)
	}

	grids, err := generator.New(rnd).GenerateGame(opts.Artists, opts.Cards, opts.Marker)
	if err != nil {
		return response.CardList{}, err
	}

	cards := make([]model.Card, len(grids))
	for i, g := range grids {
		cards[i] = model.Card{GameID: offlineGameID, Number: i + 1, Grid: g}
	}

	if opts.ZipPath != "" {
		if err := writeDeckArchive(cmd, opts, cards); err != nil {
			return response.CardList{}, err
		}
	}

	return response.CardListFromModel(offlineGameID, cards), nil
}

func writeDeckArchive(cmd *cobra.Command, opts GenerateOptions, cards []model.Card) error {
	renderer, err := render.NewPNGRenderer(opts.Template)
	if err != nil {
		return err
	}

	logLevel := slog.LevelWarn
	if cfg.Verbose {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logLevel}))

	f, err := os.Create(opts.ZipPath)
	if err != nil {
		return err
	}

	game := &model.Game{ID: offlineGameID, Artists: opts.Artists, CardCount: len(cards), HasMarker: opts.Marker}
	progress := func(p archive.Progress) {
		if cfg.Verbose && p.Status == archive.StatusGenerating {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "\rRendering cards: %d%%", p.Percent)
		}
	}

	err = archive.NewPackager(renderer, 0, clock.New(), logger).Write(cmd.Context(), f, game, cards, progress)
	if cfg.Verbose {
		_, _ = io.WriteString(cmd.ErrOrStderr(), "\n")
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(opts.ZipPath)
		return fmt.Errorf("writing %s: %w", opts.ZipPath, err)
	}
	return nil
}

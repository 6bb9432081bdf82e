package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mcoot/musicbingo/internal/api/request"
	"github.com/mcoot/musicbingo/internal/api/response"
)

// GameFile is a game definition read with --file
type GameFile struct {
	Name    string   `yaml:"name"`
	Cards   int      `yaml:"cards"`
	Marker  bool     `yaml:"marker"`
	Artists []string `yaml:"artists"`
}

// LoadGameFile reads a YAML game definition
func LoadGameFile(path string) (GameFile, error) {
	var gf GameFile
	data, err := os.ReadFile(path)
	if err != nil {
		return gf, err
	}
	if err := yaml.Unmarshal(data, &gf); err != nil {
		return gf, fmt.Errorf("parsing %s: %w", path, err)
	}
	return gf, nil
}

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameDeleteCmd())
	cmd.AddCommand(newGameStatsCmd())

	return cmd
}

func newGameCreateCmd() *cobra.Command {
	var (
		file        string
		name        string
		cards       int
		artistsFile string
		marker      bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a game and generate its cards",
		Long: `Create a game from an artist list. Artists come from --artists-file
(one per line) or from the artists list of a YAML --file. Flags given
on the command line override values from the file.`,
		Example: `  bingo game create --name "Friday" --cards 30 --artists-file artists.txt --marker
  bingo game create -f friday.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req request.CreateGameRequest
			if file != "" {
				gf, err := LoadGameFile(file)
				if err != nil {
					return err
				}
				req.Name = gf.Name
				req.CardCount = gf.Cards
				req.HasMarker = gf.Marker
				req.ArtistList = gf.Artists
			}

			flags := cmd.Flags()
			if flags.Changed("name") || req.Name == "" {
				req.Name = name
			}
			if flags.Changed("cards") || req.CardCount == 0 {
				req.CardCount = cards
			}
			if flags.Changed("marker") {
				req.HasMarker = marker
			}
			if artistsFile != "" {
				data, err := os.ReadFile(artistsFile)
				if err != nil {
					return err
				}
				req.Artists = string(data)
				req.ArtistList = nil
			}

			if req.Name == "" {
				return fmt.Errorf("a game name is required (--name or name: in --file)")
			}

			var result response.Game
			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML game definition")
	cmd.Flags().StringVar(&name, "name", "", "Game name")
	cmd.Flags().IntVar(&cards, "cards", 30, "Number of cards to generate")
	cmd.Flags().StringVar(&artistsFile, "artists-file", "", "Text file with one artist per line")
	cmd.Flags().BoolVar(&marker, "marker", false, "Put a heart on one cell of every card")

	return cmd
}

func newGameListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List games, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.GameList

			if err := client.Get("/api/v1/games", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game-id>",
		Short: "Show a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s", args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGameDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <game-id>",
		Short: "Delete a game with its cards and sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(fmt.Sprintf("/api/v1/games/%s", args[0])); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Game deleted: " + args[0])
			return nil
		},
	}
}

func newGameStatsCmd() *cobra.Command {
	var (
		called  []string
		exclude string
	)

	cmd := &cobra.Command{
		Use:   "stats <game-id>",
		Short: "Compute card progress for a set of called artists",
		Long: `Compute card progress without a session. Repeat --called for each
artist that has been played; --exclude takes card numbers separated by
commas or spaces.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			excluded, err := parseCardList(exclude)
			if err != nil {
				return err
			}

			req := request.StatsRequest{SelectedArtists: called, ExcludedCards: excluded}
			var result response.Stats
			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/stats", args[0]), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&called, "called", nil, "Called artist (repeatable)")
	cmd.Flags().StringVar(&exclude, "exclude", "", "Card numbers to leave out, e.g. \"3,7\"")

	return cmd
}

// parseCardList splits card numbers on commas and whitespace
func parseCardList(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	numbers := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid card number %q", f)
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}

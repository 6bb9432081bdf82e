package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mcoot/musicbingo/internal/api/response"
	"github.com/mcoot/musicbingo/internal/model"
	"github.com/mcoot/musicbingo/internal/services/archive"
)

func newCardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Card commands",
	}

	cmd.AddCommand(newCardsListCmd())
	cmd.AddCommand(newCardsDownloadCmd())

	return cmd
}

func newCardsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <game-id>",
		Short: "Print every card grid of a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.CardList

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s/cards", args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newCardsDownloadCmd() *cobra.Command {
	var (
		dir  string
		card int
	)

	cmd := &cobra.Command{
		Use:   "download <game-id>",
		Short: "Download the card images as a zip, or one card as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID := model.GameID(args[0])

			path := filepath.Join(dir, archive.ArchiveName(gameID))
			url := fmt.Sprintf("/api/v1/games/%s/archive", gameID)
			if card > 0 {
				path = filepath.Join(dir, archive.EntryName(card))
				url = fmt.Sprintf("/api/v1/games/%s/cards/%d.png", gameID, card)
			}

			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			f, err := os.Create(path)
			if err != nil {
				return err
			}

			n, err := client.Download(url, f)
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				_ = os.Remove(path)
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage(fmt.Sprintf("Saved %s (%d bytes)", path, n))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory to write into")
	cmd.Flags().IntVar(&card, "card", 0, "Download a single card by number")

	return cmd
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/musicbingo/internal/api/request"
	"github.com/mcoot/musicbingo/internal/api/response"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Play session commands",
	}

	cmd.AddCommand(newSessionStartCmd())
	cmd.AddCommand(newSessionGetCmd())
	cmd.AddCommand(newSessionToggleCmd())
	cmd.AddCommand(newSessionExcludeCmd())
	cmd.AddCommand(newSessionStatsCmd())
	cmd.AddCommand(newSessionEndCmd())

	return cmd
}

func newSessionStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <game-id>",
		Short: "Start a play session for a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.SessionState

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/sessions", args[0]), nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newSessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <session-id>",
		Short: "Show a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Session

			if err := client.Get(fmt.Sprintf("/api/v1/sessions/%s", args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newSessionToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <session-id> <artist>",
		Short: "Call an artist, or uncall one already called",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.ToggleArtistRequest{Artist: args[1]}
			var result response.SessionState

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/toggle", args[0]), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newSessionExcludeCmd() *cobra.Command {
	var toggle int

	cmd := &cobra.Command{
		Use:   "exclude <session-id> [cards]",
		Short: "Replace the set of excluded card numbers",
		Long: `Replace the cards left out of play. Card numbers may be separated by
commas or spaces; omit them to clear every exclusion. With --toggle a
single card is excluded, or brought back if it already was.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.SessionState

			if toggle > 0 {
				if len(args) == 2 {
					return fmt.Errorf("--toggle cannot be combined with a card list")
				}
				if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/excluded/%d", args[0], toggle), nil, &result); err != nil {
					return err
				}
				NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
				return nil
			}

			var list string
			if len(args) == 2 {
				list = args[1]
			}
			cards, err := parseCardList(list)
			if err != nil {
				return err
			}

			req := request.SetExcludedRequest{Cards: cards}
			if err := client.Put(fmt.Sprintf("/api/v1/sessions/%s/excluded", args[0]), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&toggle, "toggle", 0, "Toggle a single card number")

	return cmd
}

func newSessionStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <session-id>",
		Short: "Show ranked card progress for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Stats

			if err := client.Get(fmt.Sprintf("/api/v1/sessions/%s/stats", args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newSessionEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <session-id>",
		Short: "End a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(fmt.Sprintf("/api/v1/sessions/%s", args[0])); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Session ended: " + args[0])
			return nil
		},
	}
}

package commands

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/price-tracker/internal/delivery/http/response"
	"github.com/user/price-tracker/internal/scrape"
	"github.com/user/price-tracker/internal/usecase"
)

func init() {
	trackCmd.Flags().Bool("browser", false, "render the page in headless Chrome")
	_ = v.BindPFlag("BROWSER_ENABLED", trackCmd.Flags().Lookup("browser"))
	rootCmd.AddCommand(trackCmd)
}

var trackCmd = &cobra.Command{
	Use:   "track <url>",
	Short: "Fetches one product page and prints its price as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		fetcher, name, closeFetcher := newFetcher(cfg, log)
		defer closeFetcher()

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		snap, err := usecase.NewTrackerUseCase(fetcher, name, log).Track(cmd.Context(), args[0])
		if err != nil {
			_ = enc.Encode(map[string]string{"error": scrape.UserMessage(err)})
			return err
		}
		return enc.Encode(response.NewTrackResponse(snap))
	},
}

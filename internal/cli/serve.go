package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tessro/convoy/internal/relay"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the channel relay",
	Long: `Run the websocket relay that peers use as their shared channel.

Every frame a peer sends is forwarded to all other connected peers.
The relay also serves /healthz and Prometheus /metrics.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "listen address (default: relay.listen)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := serveListen
	if addr == "" {
		addr = cfg.Relay.Listen
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return relay.New(logger).ListenAndServe(ctx, addr)
}

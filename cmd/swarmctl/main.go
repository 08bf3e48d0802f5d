// swarmctl is the operator CLI for a running swarm orchestrator. It talks
// to the HTTP API for task and status operations and to the dashboard
// websocket for live watching.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	serverAddr string
	adminToken string
)

func main() {
	root := &cobra.Command{
		Use:           "swarmctl",
		Short:         "Control a running swarm orchestrator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&serverAddr, "server", "http://localhost:3000", "orchestrator base url")
	root.PersistentFlags().StringVar(&adminToken, "token", os.Getenv("SWARM_ADMIN_TOKEN"), "admin api token")

	root.AddCommand(
		newSubmitCmd(),
		newStatusCmd(),
		newMetricsCmd(),
		newAgentsCmd(),
		newActivitiesCmd(),
		newWatchCmd(),
		newColosseumCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

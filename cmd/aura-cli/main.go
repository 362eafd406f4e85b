package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "aura-cli",
	Short: "Aura CLI - drive an aura server from the terminal",
	Long: `aura-cli talks to a running aura server over its v1 HTTP API.

Examples:
  aura-cli session signup
  aura-cli session step signup --field phone=5550100
  aura-cli session step signup --field username=trushar_dev --wait
  aura-cli session setup --disable faceEmotionDetection
  aura-cli chats list --workspace ws_work
  aura-cli groups create "Core Team" --workspace ws_work`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		apiClient = newClient(serverURL, requestTimeout)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(chatsCmd)
	rootCmd.AddCommand(groupsCmd)
	rootCmd.AddCommand(workspacesCmd)
	rootCmd.AddCommand(directoryCmd)

	defaultURL := os.Getenv("AURA_SERVER_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8190"
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultURL, "Aura server base URL")
	rootCmd.PersistentFlags().DurationVar(&requestTimeout, "timeout", defaultTimeout, "Request timeout")
}

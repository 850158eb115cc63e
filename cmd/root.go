package cmd

import (
	"fmt"
	"os"

	"github.com/MelanieChenMC/meliora/pkg/config"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "meliora",
	Short: "Meliora session recording API server",
	Long: `Meliora API - A session recording and transcription backend

This API captures short audio chunks from recording clients, transcribes
them, filters transcription artifacts, and reassembles full session audio
on demand. It also generates live suggestions and post-session summaries
from the accumulated transcript.

Features:
  • Chunked audio capture with append-only storage
  • Speech-to-text transcription with hallucination filtering
  • On-demand session audio stitching with signed playback URLs
  • Live suggestion and summary generation`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(loadConfig)
}

// loadConfig loads the configuration when a command needs it.
// Version and help never touch config so they work without one.
func loadConfig() {
	cmd, _, _ := rootCmd.Find(os.Args[1:])
	if cmd != nil && (cmd.Name() == "version" || cmd.Name() == "help") {
		return
	}

	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}

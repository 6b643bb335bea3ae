// Package cmd implements the gamedev-rag command line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gamedev-rag",
	Short: "Question answering over your game development documentation",
	Long: `gamedev-rag answers questions from ingested game development
documentation (engine manuals, PDFs, blog posts).

Ingest documents first, then ask questions:

  gamedev-rag ingest ./docs/unity-manual.pdf
  gamedev-rag ask "How do trigger colliders work?"

Running gamedev-rag with no arguments starts an interactive session.`,
	// main prints the error; cobra should not print it twice.
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runChat,
}

// plainOutput disables markdown rendering of answers.
var plainOutput bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&plainOutput, "plain", false,
		"print answers as plain text without markdown styling")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

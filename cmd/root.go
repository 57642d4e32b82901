package cmd

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "qagen",
	Short: "Generate study questions from YouTube videos",
	Long: `qagen serves an HTTP API that fetches the captions of a YouTube video
and asks an OpenAI model for educational question/answer pairs.

Running qagen without a subcommand starts the server.`,
	Example: `  # Start the API on $PORT (default 5000)
  qagen

  # Check that captions can be fetched for a video
  qagen transcript "https://youtu.be/dQw4w9WgXcQ"`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

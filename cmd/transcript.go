package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"youtube-qa-api/internal/config"
	"youtube-qa-api/internal/logger"
	"youtube-qa-api/internal/youtube"
)

// transcriptCmd fetches one transcript with the configured policy and prints it.
var transcriptCmd = &cobra.Command{
	Use:   "transcript [YouTube URL or ID]",
	Short: "Fetch and print a video transcript",
	Example: `  qagen transcript dQw4w9WgXcQ
  qagen transcript "https://www.youtube.com/watch?v=dQw4w9WgXcQ" --timestamps`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		videoID := youtube.ResolveVideoID(args[0])
		if videoID == "" {
			return fmt.Errorf("'%s' doesn't look like a YouTube URL or video ID", args[0])
		}

		appConfig, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger.Setup(appConfig.LogLevel, appConfig.LogFormat)

		stack, err := buildTranscriptStack(cmd.Context(), appConfig)
		if err != nil {
			return err
		}
		defer stack.Close()

		set, err := stack.source.Fetch(cmd.Context(), videoID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		timestamps, _ := cmd.Flags().GetBool("timestamps")
		if !timestamps {
			fmt.Fprintln(out, set.Text())
			return nil
		}
		for _, e := range set {
			fmt.Fprintf(out, "[%s] %s\n", formatOffset(e.Start), e.Text)
		}
		return nil
	},
}

func formatOffset(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func init() {
	transcriptCmd.Flags().Bool("timestamps", false, "prefix each caption line with its start time")
	rootCmd.AddCommand(transcriptCmd)
}

package main

import (
	"github.com/spf13/cobra"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyse a transcript and append a progress record",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")

			msgs, err := readTranscript(file)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			rec, err := a.tracker.TrackProgressWithEmotions(cmd.Context(), msgs)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rec)
		},
	}

	cmd.Flags().StringP("file", "f", "-", "Transcript JSON file (- for stdin)")
	return cmd
}

func endSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "end-session",
		Short: "Close a session, merging it with the latest stored record",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")

			msgs, err := readTranscript(file)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			rec, err := a.tracker.EndSession(cmd.Context(), msgs)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rec)
		},
	}

	cmd.Flags().StringP("file", "f", "-", "Transcript JSON file (- for stdin)")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/farum-progress/internal/domain"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: "Print stored progress records, or one record by id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			latest, _ := cmd.Flags().GetBool("latest")

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			store := a.tracker.History()
			ctx := cmd.Context()

			switch {
			case len(args) == 1:
				rec, ok := store.Find(ctx, domain.RecordID(args[0]))
				if !ok {
					return fmt.Errorf("record %q not found", args[0])
				}
				return printJSON(cmd.OutOrStdout(), rec)
			case latest:
				rec, ok := store.Latest(ctx)
				if !ok {
					return fmt.Errorf("no progress records stored")
				}
				return printJSON(cmd.OutOrStdout(), rec)
			default:
				return printJSON(cmd.OutOrStdout(), store.Load(ctx))
			}
		},
	}

	cmd.Flags().BoolP("latest", "l", false, "Print only the most recent record")
	return cmd
}

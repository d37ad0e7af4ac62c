package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd(app *App) *cobra.Command {
	var (
		sessionID string
		yes       bool
	)
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the stored record of a session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if !yes {
				if !app.interactive() {
					return errors.New("refusing to delete without --yes on a non-interactive terminal")
				}
				ok, err := app.confirm(fmt.Sprintf("%q oturumundaki kayıt silinsin mi?", sessionID))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Vazgeçildi.")
					return nil
				}
			}

			rt, err := app.runtime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.Store.Delete(ctx, sessionID); err != nil {
				return fmt.Errorf("deleting session %s: %w", sessionID, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🗑️ Oturum silindi: %s\n", sessionID)
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", DefaultCLISession, "session id")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/alexanderramin/intake/internal/cli/formatter"
	"github.com/alexanderramin/intake/internal/domain"
	"github.com/alexanderramin/intake/internal/report"
	"github.com/alexanderramin/intake/internal/store"
	"github.com/spf13/cobra"
)

func newShowCmd(app *App) *cobra.Command {
	var (
		sessionID string
		projectID string
		asJSON    bool
		plain     bool
		history   bool
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored record of a session",
		Long: `Print the stored record of a session.

--project finds the session by its PRJ- id and --history lists every saved
revision. Both need the sqlite store driver.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			rt, err := app.runtime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			if projectID != "" {
				index, ok := rt.Store.(store.ProjectIndex)
				if !ok {
					return fmt.Errorf("store driver %q cannot look up projects", rt.Config.Store.Driver)
				}
				sessionID, err = index.FindByProjectID(ctx, projectID)
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("no session holds project %q", projectID)
				}
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if history {
				versioned, ok := rt.Store.(store.Versioned)
				if !ok {
					return fmt.Errorf("store driver %q keeps no history", rt.Config.Store.Driver)
				}
				versions, err := versioned.History(ctx, sessionID)
				if err != nil {
					return err
				}
				if len(versions) == 0 {
					return fmt.Errorf("no stored record for session %q", sessionID)
				}
				return printHistory(out, versions, asJSON)
			}

			state, err := rt.Store.Load(ctx, sessionID)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no stored record for session %q", sessionID)
			}
			if err != nil {
				return err
			}

			if asJSON {
				data, err := store.Encode(state)
				if err != nil {
					return err
				}
				_, err = out.Write(append(data, '\n'))
				return err
			}

			rep := report.Build(state.Project(), time.Now())
			if plain {
				fmt.Fprintln(out, rep.Text())
				return nil
			}
			fmt.Fprintln(out, formatter.FormatReport(rep))
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", DefaultCLISession, "session id")
	cmd.Flags().StringVar(&projectID, "project", "", "look the session up by project id (PRJ-XXXXXX)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the stored document as JSON")
	cmd.Flags().BoolVar(&plain, "plain", false, "print the fixed-width text report")
	cmd.Flags().BoolVar(&history, "history", false, "list every saved revision")
	cmd.MarkFlagsMutuallyExclusive("session", "project")
	return cmd
}

func printHistory(w io.Writer, versions []store.Version, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(versions)
	}

	rows := make([][]string, 0, len(versions))
	for _, v := range versions {
		p := v.Document.Project()
		rows = append(rows, []string{
			strconv.Itoa(v.Number),
			v.SavedAt.Local().Format("2006-01-02 15:04:05"),
			domain.CoalesceStr(p.Str(domain.FieldID), "-"),
			domain.CoalesceStr(p.Str(domain.FieldProjectName), "-"),
		})
	}
	fmt.Fprintln(w, formatter.Header("Kayıt geçmişi"))
	fmt.Fprintln(w, formatter.RenderTable([]string{"Sürüm", "Kaydedildi", "Proje No", "Proje Adı"}, rows))
	return nil
}

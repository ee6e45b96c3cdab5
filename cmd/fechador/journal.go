package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hrygo/fechador/store"
)

func newJournalCmd(c *cli) *cobra.Command {
	var (
		limit   int
		outcome string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List recent journaled resolutions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := c.loadProfile()
			if err != nil {
				return err
			}
			if p.JournalDSN == "" {
				return errors.New("journal is disabled; set --journal or FECHADOR_JOURNAL_DSN")
			}
			st, err := openJournal(cmd.Context(), p)
			if err != nil {
				return err
			}
			defer st.Close()

			if limit <= 0 {
				return errors.Errorf("limit must be positive, got %d", limit)
			}
			find := &store.FindResolution{Limit: &limit}
			if outcome != "" {
				find.Outcome = &outcome
			}
			list, err := st.ListResolutions(cmd.Context(), find)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				return enc.Encode(list)
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tLANG\tOUTCOME\tSTAGE\tRESOLVED\tEXPRESSION")
			for _, r := range list {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
					r.ID,
					time.Unix(r.CreatedTs, 0).UTC().Format(time.RFC3339),
					r.Language,
					r.Outcome,
					dash(r.Provenance),
					dash(r.ISO),
					r.Expression)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of rows")
	cmd.Flags().StringVar(&outcome, "outcome", "", "filter by outcome: resolved, undefined or unresolved")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"wlcheck/internal/batch"
	"wlcheck/internal/datasource"
	"wlcheck/internal/report"
	"wlcheck/internal/schemadiff"
	"wlcheck/internal/snapshot"
)

type snapshotView struct {
	Watchlist string   `json:"watchlist"`
	Kind      string   `json:"kind"`
	Columns   []string `json:"columns"`
	Found     bool     `json:"found"`
}

func newSnapshotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect and maintain deployed watchlist schemas",
	}
	cmd.AddCommand(
		newSnapshotShowCmd(a),
		newSnapshotSaveCmd(a),
		newSnapshotDeleteCmd(a),
		&cobra.Command{
			Use:   "kinds",
			Short: "List registered snapshot store kinds",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				for _, k := range snapshot.ListKinds() {
					fmt.Fprintln(a.out, k)
				}
				return nil
			},
		},
	)
	return cmd
}

func newSnapshotShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <watchlist>",
		Short: "Print the deployed columns of a watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			cols, err := st.Columns(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			v := snapshotView{Watchlist: args[0], Kind: a.cfg.Snapshot.Kind, Columns: cols, Found: cols != nil}
			if v.Columns == nil {
				v.Columns = []string{}
			}
			enc := json.NewEncoder(a.out)
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		},
	}
}

func newSnapshotSaveCmd(a *app) *cobra.Command {
	var columns, from string
	var force bool
	cmd := &cobra.Command{
		Use:   "save <watchlist> (--columns a,b,c | --from <path|url>)",
		Short: "Record the deployed columns of a watchlist",
		Long: `Record the deployed columns of a watchlist, typically after a deployment.

With --from the file is validated first and its header is saved; a Blocked
file is refused unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]
			if err := snapshot.CheckName(name); err != nil {
				return err
			}
			if (columns == "") == (from == "") {
				return errors.New("exactly one of --columns and --from is required")
			}

			var (
				cols []string
				st   snapshot.Store
			)
			if columns != "" {
				cols = schemadiff.ParseList(columns)
				var err error
				if st, err = a.openStore(ctx); err != nil {
					return err
				}
			} else {
				src, err := datasource.Resolve(from, a.httpConfig())
				if err != nil {
					return err
				}
				d, err := a.deps(ctx)
				if err != nil {
					return err
				}
				st = d.Store
				// compare with nothing: only the header matters here
				res := d.Process(ctx, batch.Job{Source: src, Watchlist: name, Existing: []string{}})
				if res.Err != nil {
					return res.Err
				}
				if res.Report.Verdict == report.Blocked && !force {
					return fmt.Errorf("%s is Blocked with %d errors; fix it or pass --force", from, len(res.Report.Errors))
				}
				for _, p := range res.Report.Statistics.Columns {
					cols = append(cols, p.Name)
				}
			}
			if len(cols) == 0 {
				return errors.New("no columns to save")
			}
			if err := st.Save(ctx, name, cols); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "saved %d columns for %s\n", len(cols), name)
			return nil
		},
	}
	cmd.Flags().StringVar(&columns, "columns", "", "comma-separated column list")
	cmd.Flags().StringVar(&from, "from", "", "take the columns from this watchlist file's header")
	cmd.Flags().BoolVar(&force, "force", false, "save the header of a Blocked file")
	return cmd
}

func newSnapshotDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <watchlist>",
		Short: "Forget the deployed columns of a watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "deleted %s\n", args[0])
			return nil
		},
	}
}

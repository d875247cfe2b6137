package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"wlcheck/internal/schemadiff"
	"wlcheck/internal/snapshot"
)

func newDiffCmd(a *app) *cobra.Command {
	var existing, next, name string
	cmd := &cobra.Command{
		Use:   "diff --new a,b,c [--existing a,b | --name watchlist]",
		Short: "Decide whether a column change needs a watchlist recreate",
		Long: `Compare a deployed column set with a new one and print the JSON decision.

The deployed columns come from --existing, or from the snapshot store when
--name is given. Neither means a first deployment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("new") {
				return errors.New("--new is required")
			}
			old := schemadiff.ParseList(existing)
			if name != "" && !cmd.Flags().Changed("existing") {
				if err := snapshot.CheckName(name); err != nil {
					return err
				}
				st, err := a.openStore(cmd.Context())
				if err != nil {
					return err
				}
				if old, err = st.Columns(cmd.Context(), name); err != nil {
					return err
				}
			}
			res := schemadiff.Decide(old, schemadiff.ParseList(next))
			enc := json.NewEncoder(a.out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVar(&existing, "existing", "", "comma-separated deployed columns")
	cmd.Flags().StringVar(&next, "new", "", "comma-separated new columns")
	cmd.Flags().StringVar(&name, "name", "", "look the deployed columns up in the snapshot store")
	return cmd
}

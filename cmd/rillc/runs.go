package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rill-lang/rill/internal/diaglog"
)

func newRunsCmd() *cobra.Command {
	var logDB string
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded check runs from a diagnostic log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if logDB == "" {
				v, err := loadConfig()
				if err != nil {
					return err
				}
				logDB = v.GetString(cfgKeyLogDB)
			}
			if logDB == "" {
				return fmt.Errorf("no diagnostic log configured; pass --log-db")
			}
			rec, err := diaglog.Open(logDB)
			if err != nil {
				return err
			}
			defer rec.Close()

			runs, err := rec.Runs()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RUN\tMANIFEST\tSTARTED\tERRORS\tFATAL")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					r.ID, r.Manifest, r.StartedAt.Format("2006-01-02 15:04:05"), r.ErrorCount, r.Fatal)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&logDB, "log-db", "", "SQLite diagnostic log to read")
	return cmd
}

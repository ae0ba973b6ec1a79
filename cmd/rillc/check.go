package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rill-lang/rill/internal/coherence"
	"github.com/rill-lang/rill/internal/config"
	"github.com/rill-lang/rill/internal/diaglog"
	"github.com/rill-lang/rill/internal/diagnostics"
	"github.com/rill-lang/rill/internal/manifest"
	"github.com/rill-lang/rill/internal/pipeline"
)

type checkFlags struct {
	parallel bool
	workers  int
	logDB    string
}

func newCheckCmd() *cobra.Command {
	var cf checkFlags
	cmd := &cobra.Command{
		Use:   "check <manifest>",
		Short: "Run the coherence pass over a session manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig()
			if err != nil {
				return err
			}
			applyConfig(cmd, v, &cf)
			code, err := runCheck(args[0], cf)
			if err != nil {
				return err
			}
			os.Exit(code)
			return nil
		},
	}
	cmd.Flags().BoolVar(&cf.parallel, "parallel", false, "check records across parallel workers")
	cmd.Flags().IntVar(&cf.workers, "workers", defaultWorkers, "number of parallel workers")
	cmd.Flags().StringVar(&cf.logDB, "log-db", "", "record the run in a SQLite diagnostic log")
	return cmd
}

// applyConfig fills in values from config.yaml for flags the user did not
// set explicitly.
func applyConfig(cmd *cobra.Command, v *viper.Viper, cf *checkFlags) {
	if !cmd.Flags().Changed("parallel") {
		cf.parallel = v.GetBool(cfgKeyParallel)
	}
	if !cmd.Flags().Changed("workers") {
		cf.workers = v.GetInt(cfgKeyWorkers)
	}
	if !cmd.Flags().Changed("log-db") {
		cf.logDB = v.GetString(cfgKeyLogDB)
	}
}

func runCheck(manifestPath string, cf checkFlags) (int, error) {
	sess, err := manifest.LoadFile(manifestPath)
	if err != nil {
		return 0, err
	}

	var rec *diaglog.Recorder
	var runID string
	if cf.logDB != "" {
		rec, err = diaglog.Open(cf.logDB)
		if err != nil {
			return 0, err
		}
		defer rec.Close()
		runID, err = rec.BeginRun(manifestPath)
		if err != nil {
			return 0, err
		}
	}

	checker := coherence.Checker{Parallel: cf.parallel, Workers: cf.workers}
	pass := pipeline.New(
		coherence.Stage(checker, config.DropCapName),
		coherence.Stage(checker, config.CopyCapName),
		coherence.Stage(checker, config.WidenCapName),
		coherence.Stage(checker, config.DynAdaptCapName),
	)
	pctx := pass.Run(pipeline.NewPipelineContext(sess))

	diags := sess.Diags.Diagnostics()
	colored := !flags.noColor && diagnostics.ShouldColor(os.Stderr)
	diagnostics.Render(os.Stderr, diags, colored)

	if rec != nil {
		fatal := ""
		if pctx.Fatal != nil {
			fatal = pctx.Fatal.Error()
		}
		if err := rec.RecordDiagnostics(runID, diags); err != nil {
			return 0, err
		}
		if err := rec.FinishRun(runID, len(diags), fatal); err != nil {
			return 0, err
		}
	}

	if pctx.Fatal != nil {
		fmt.Fprintln(os.Stderr, "error:", pctx.Fatal)
		return exitFatal, nil
	}
	if len(diags) > 0 {
		return exitDiags, nil
	}
	return exitClean, nil
}

package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/pari-runtime/config"
	"github.com/wippyai/pari-runtime/engine"
	"github.com/wippyai/pari-runtime/linker"
	"github.com/wippyai/pari-runtime/runtime"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	cfgFile  string
	conf     = config.New()
	settings config.Settings
	log      = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "pari",
	Short: "PARI/GP from Go",
	Long: `pari drives the PARI number theory library through the pari-runtime
bindings: evaluate GP expressions, run the example computation, browse the
function catalog and check the local installation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := config.Load(conf, cfgFile)
		if err != nil {
			return err
		}
		settings = s

		if s.Verbose {
			l, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			log = l
		}
		engine.SetLogger(log)
		runtime.SetLogger(log)
		linker.SetLogger(log)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

func init() {
	d := config.Defaults()
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "settings file (yaml or json)")
	pf.Bool("verbose", false, "log to stderr")
	pf.Uint64("stack-size", d.StackSize, "PARI stack size in bytes")
	pf.Uint64("max-prime", d.MaxPrime, "bound of the precomputed prime table")
	pf.Int("precision", d.Precision, "default precision in bits (0 for PARI's default)")
	pf.Int("realprecision", d.RealPrecision, "GP realprecision in decimal digits (0 to keep PARI's)")
	pf.String("min-version", d.MinVersion, "semver constraint on the linked PARI")

	for key, flag := range map[string]string{
		config.KeyVerbose:       "verbose",
		config.KeyStackSize:     "stack-size",
		config.KeyMaxPrime:      "max-prime",
		config.KeyPrecision:     "precision",
		config.KeyRealPrecision: "realprecision",
		config.KeyMinVersion:    "min-version",
	} {
		_ = conf.BindPFlag(key, pf.Lookup(flag))
	}
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}

// withRuntime opens a runtime from the loaded settings, applies
// realprecision and closes it when fn returns.
func withRuntime(ctx context.Context, fn func(*runtime.Runtime) error) error {
	return runtime.With(ctx, settings.Engine(log), func(rt *runtime.Runtime) error {
		if settings.RealPrecision > 0 {
			if err := rt.SetRealPrecision(ctx, settings.RealPrecision); err != nil {
				return err
			}
		}
		return fn(rt)
	})
}

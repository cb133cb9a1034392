package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "hlgen <input>",
		Short:        "Extract captioned highlight clips from a local MP4",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	// Visible flags
	root.Flags().String("out", "out", "Output directory")
	root.Flags().String("mode", "variable", "Duration policy: variable or fixed")
	root.Flags().Int("attempts", 3, "Max attempts per generative call loop")
	root.Flags().Int("concurrency", 4, "Parallel caption workers")
	root.Flags().Bool("log-json", false, "Log in JSON")
	root.Flags().BoolP("verbose", "v", false, "Debug logging")

	// Hidden tuning flags (internal)
	root.Flags().Float64("min", 29, "Min segment duration seconds (variable mode)")
	root.Flags().Float64("max", 61, "Max segment duration seconds (variable mode)")
	root.Flags().Float64("target", 60, "Target segment duration seconds (fixed mode)")
	root.Flags().Float64("tolerance", 0.1, "Duration tolerance seconds (fixed mode)")
	root.Flags().String("db", "", "SQLite cache path")
	for _, f := range []string{"min", "max", "target", "tolerance", "db"} {
		_ = root.Flags().MarkHidden(f)
	}

	if err := root.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func setupLogger(jsonFormat, verbose bool) *logrus.Logger {
	log := logrus.StandardLogger()
	if jsonFormat {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

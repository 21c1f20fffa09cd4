package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version, commit, date are injected at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type globalFlags struct {
	configPath string
	dataDir    string
	store      string
	logLevel   string
	seed       int64
	slot       int
	weeks      int
	resume     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "under-the-shadow",
		Short:         "Under the Shadow: a week-by-week survival story",
		Long:          "Survive forty-five weeks in a ruined city. Every choice, meal and visitor shapes which ending you reach.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
	root.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "settings file (default <data-dir>/settings.yaml)")
	pf.StringVar(&flags.dataDir, "data-dir", "", "directory for settings and saves")
	pf.StringVar(&flags.store, "store", "", "save backend: file or sqlite")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error")
	pf.Int64Var(&flags.seed, "seed", 0, "run seed (0 picks one from the clock)")
	pf.IntVar(&flags.slot, "slot", 1, "save slot")
	pf.IntVar(&flags.weeks, "weeks", 0, "final week (default 45)")
	pf.BoolVar(&flags.resume, "resume", false, "resume the run stored in --slot")

	root.AddCommand(
		newPlayCmd(flags),
		newReplCmd(flags),
		newServeCmd(flags),
		newSavesCmd(flags),
		newEndingsCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Under the Shadow %s (%s) %s\n", version, commit, date)
		},
	}
}

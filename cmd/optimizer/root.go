package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"content-optimizer-service/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "optimizer",
	Short: "Content optimizer: analyze, optimize and A/B-vary marketing content",
	Long: `Content optimizer accepts content over HTTP and runs it through three
background stages: analyze (metrics + AI tone and suggestions), optimize
(AI rewrite) and vary (two AI A/B variants).

Usage:
  optimizer serve            HTTP API (+ embedded workers)
  optimizer worker           standalone worker pool (Redis queue)
  optimizer migrate          create the Postgres schema
  optimizer analyze <file>   print text metrics without AI calls`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadDotEnv()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

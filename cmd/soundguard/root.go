package main

import (
	"github.com/spf13/cobra"
)

const serviceName = "soundguard"

func newRootCommand() *cobra.Command {
	var configFlag, envFlag string

	rootCmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Audio classification and distress keyword detection",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&envFlag, "env-file", "", "Path to a .env file")

	load := func() (*appConfig, error) {
		return loadConfig(configFlag, envFlag)
	}
	rootCmd.AddCommand(newServeCommand(load))
	rootCmd.AddCommand(newAnalyzeCommand(load))
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

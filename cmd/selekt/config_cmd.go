package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	var showSource bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long:  `Show the effective configuration after merging defaults, config file, environment variables and flags.`,
		Example: `  # Show effective configuration
  selekt config show

  # Show configuration with source file path
  selekt config show --source`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if showSource {
				if opts.cfgPath != "" {
					fmt.Fprintf(out, "Config file: %s\n\n", opts.cfgPath)
				} else {
					fmt.Fprint(out, "Config file: (none, using defaults)\n\n")
				}
			}

			cfg := *opts.cfg
			cfg.Database.URL = sanitizeDSN(cfg.Database.URL)
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}
	show.Flags().BoolVar(&showSource, "source", false, "show config file source")

	cmd.AddCommand(show)
	return cmd
}

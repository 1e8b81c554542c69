package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mastercactapus/grbltok/machine/grbl"
)

func newSettingsCmd() *cobra.Command {
	var commands bool
	cmd := &cobra.Command{
		Use:   "settings [file]",
		Short: "Convert a captured `$$` dump to YAML or `$` commands",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer in.Close()

			var all []grbl.Token
			failed, err := tokenizeAll(in, func(tokens []grbl.Token) {
				all = append(all, tokens...)
			})
			if err != nil {
				return err
			}
			s := grbl.CollectSettings(all)

			out := cmd.OutOrStdout()
			if commands {
				for _, c := range s.Commands() {
					fmt.Fprintln(out, c)
				}
			} else {
				enc := yaml.NewEncoder(out)
				if err = enc.Encode(s); err != nil {
					return err
				}
				if err = enc.Close(); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d lines failed to tokenize", failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&commands, "commands", false, "Print `$<n>=<value>` commands instead of YAML.")
	return cmd
}

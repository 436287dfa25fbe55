package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beetlebugorg/portrayal/pkg/stylesheet"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check STYLE.yaml",
		Short: "Validate a stylesheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ss, err := stylesheet.LoadFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range ss.StyleNames() {
				s := ss.Styles[name]
				lo, hi := s.ScaleRange()
				fmt.Fprintf(out, "style %s: %d rules, filter-mode %s, scale [%g, %g)\n",
					name, len(s.Rules), s.FilterMode, lo, hi)
			}
			for _, l := range ss.Layers {
				fmt.Fprintf(out, "layer %s: styles %v\n", l.Name, l.Styles)
			}
			fmt.Fprintf(out, "%s: ok\n", args[0])
			return nil
		},
	}
}

package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/beetlebugorg/portrayal/pkg/render"
)

func newRootCommand() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "portray",
		Short:         "Check map stylesheets and render features to draw instructions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				setVerbose(cmd.ErrOrStderr())
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	root.AddCommand(newCheckCommand(), newRenderCommand())
	return root
}

func setVerbose(w io.Writer) {
	render.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

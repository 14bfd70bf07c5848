package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"moria.us/smf/devserver"
	"moria.us/smf/dump"
	"moria.us/smf/watcher"
)

func newServeCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve FILE",
		Short: "Serve the events in a MIDI file over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := dump.LookupEncoding(o.encoding)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			name := args[0]
			ch, err := watcher.Watch(ctx, name)
			if err != nil {
				return err
			}
			s := devserver.New(filepath.Base(name), enc)
			go s.Watch(ch)
			return devserver.ListenAndServe(ctx, o.host, o.port, s.Handler())
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.host, "host", "localhost", "host to serve from, or * to bind to all local addresses")
	f.IntVar(&o.port, "port", 9013, "port to serve from")
	return cmd
}

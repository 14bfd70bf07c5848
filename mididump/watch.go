package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"moria.us/smf/dump"
	"moria.us/smf/midi"
	"moria.us/smf/watcher"
)

func newWatchCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILE",
		Short: "Print the events in a MIDI file each time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			opts, err := o.textOptions()
			if err != nil {
				return err
			}
			w, closeOutput, err := o.openOutput(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() {
				if cerr := closeOutput(); err == nil {
					err = cerr
				}
			}()
			name := args[0]
			ch, err := watcher.Watch(cmd.Context(), name)
			if err != nil {
				return err
			}
			log := logrus.WithField("file", name)
			for st := range ch {
				if st.Data == nil {
					log.Errorln("could not read:", st.Err)
					continue
				}
				if o.format == "text" {
					fmt.Fprintf(w, "==> %s <==\n", name)
				}
				if err := o.writeEvents(w, st.Events, opts); err != nil {
					return err
				}
				if st.Err != nil {
					log.Error(st.Err)
				}
			}
			return nil
		},
	}
}

func (o *options) writeEvents(w io.Writer, evs []midi.Event, opts dump.TextOptions) error {
	dw, err := dump.NewWriter(o.format, w, opts)
	if err != nil {
		return err
	}
	for i := range evs {
		if err := dw.WriteEvent(&evs[i]); err != nil {
			dw.Close()
			return err
		}
	}
	return dw.Close()
}

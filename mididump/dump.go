package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"moria.us/smf/dump"
	"moria.us/smf/mapfile"
)

func newDumpCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dump FILE...",
		Short: "Print every event in MIDI files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.dumpFiles(cmd.OutOrStdout(), args)
		},
	}
}

func (o *options) dumpFiles(stdout io.Writer, args []string) (err error) {
	opts, err := o.textOptions()
	if err != nil {
		return err
	}
	w, closeOutput, err := o.openOutput(stdout)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOutput(); err == nil {
			err = cerr
		}
	}()
	for _, name := range args {
		if o.format == "text" && len(args) > 1 {
			fmt.Fprintf(w, "%s\n", name)
		}
		if err := o.dumpFile(w, name, opts); err != nil {
			return err
		}
	}
	return nil
}

func (o *options) dumpFile(w io.Writer, name string, opts dump.TextOptions) error {
	f, err := mapfile.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	dw, err := dump.NewWriter(o.format, w, opts)
	if err != nil {
		return err
	}
	log := logrus.WithField("file", name)
	s, err := dump.Dump(f.Data(), dw)
	if cerr := dw.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	log.WithFields(logrus.Fields{
		"mapped": f.Mapped(),
		"bytes":  s.Bytes,
		"size":   s.Size,
	}).Debug("dumped")
	return nil
}

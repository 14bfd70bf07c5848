package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"moria.us/smf/config"
	"moria.us/smf/dump"
)

type options struct {
	configFile string
	logLevel   string
	format     string
	encoding   string
	payloads   bool
	output     string
	host       string
	port       int
}

func newRootCmd() *cobra.Command {
	var o options
	root := &cobra.Command{
		Use:   "mididump [FILE...]",
		Short: "Print the contents of Standard MIDI Files",
		Args:  cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return o.dumpFiles(cmd.OutOrStdout(), args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&o.configFile, "config", "", "configuration file (default "+config.DefaultPath()+")")
	pf.StringVar(&o.logLevel, "log-level", "info", "log level: debug, info, warn, or error")
	pf.StringVarP(&o.format, "format", "f", "text", "output format: text, json, or proto")
	pf.StringVar(&o.encoding, "encoding", "utf-8", "text encoding of meta events: utf-8, shift-jis, or latin1")
	pf.BoolVar(&o.payloads, "payloads", false, "hex dump meta and sysex payloads")
	pf.StringVarP(&o.output, "output", "o", "", "write output to `file` instead of stdout")

	root.AddCommand(
		newDumpCmd(&o),
		newInfoCmd(&o),
		newWatchCmd(&o),
		newServeCmd(&o),
	)
	return root
}

// setup loads the configuration file and applies it to every flag not given
// on the command line.
func (o *options) setup(fs *pflag.FlagSet) error {
	if fs.Changed("log-level") {
		if err := setLogLevel(o.logLevel); err != nil {
			return err
		}
	}
	c, err := config.Load(o.configFile)
	if err != nil {
		return err
	}
	defaults := []struct {
		name, value string
	}{
		{"log-level", c.LogLevel},
		{"format", c.Format},
		{"encoding", c.Encoding},
		{"host", c.Host},
	}
	for _, d := range defaults {
		if err := setDefault(fs, d.name, d.value); err != nil {
			return err
		}
	}
	if c.Payloads {
		if err := setDefault(fs, "payloads", "true"); err != nil {
			return err
		}
	}
	if c.Port != 0 {
		if err := setDefault(fs, "port", strconv.Itoa(c.Port)); err != nil {
			return err
		}
	}
	return setLogLevel(o.logLevel)
}

func setDefault(fs *pflag.FlagSet, name, value string) error {
	f := fs.Lookup(name)
	if f == nil || f.Changed || value == "" {
		return nil
	}
	if err := f.Value.Set(value); err != nil {
		return fmt.Errorf("config: invalid %s: %v", name, err)
	}
	return nil
}

func setLogLevel(name string) error {
	lv, err := logrus.ParseLevel(name)
	if err != nil {
		return err
	}
	logrus.SetLevel(lv)
	return nil
}

func (o *options) textOptions() (dump.TextOptions, error) {
	enc, err := dump.LookupEncoding(o.encoding)
	if err != nil {
		return dump.TextOptions{}, err
	}
	return dump.TextOptions{
		Encoding: enc,
		Payloads: o.payloads,
	}, nil
}

// openOutput returns the writer for the --output flag. The close function
// must be called, and returns any error writing the file.
func (o *options) openOutput(stdout io.Writer) (io.Writer, func() error, error) {
	if o.output == "" || o.output == "-" {
		return stdout, func() error { return nil }, nil
	}
	fp, err := os.Create(o.output)
	if err != nil {
		return nil, nil, err
	}
	return fp, fp.Close, nil
}

func mainE() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func main() {
	if err := mainE(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

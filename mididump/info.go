package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"moria.us/smf/dump"
	"moria.us/smf/mapfile"
	"moria.us/smf/midi"
)

func newInfoCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE...",
		Short: "Print the header and event counts of MIDI files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			w, closeOutput, err := o.openOutput(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer func() {
				if cerr := closeOutput(); err == nil {
					err = cerr
				}
			}()
			for _, name := range args {
				if err := o.info(w, name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

type fileInfo struct {
	File    string       `json:"file"`
	Summary dump.Summary `json:"summary"`
	Error   string       `json:"error,omitempty"`
}

func (o *options) info(w io.Writer, name string) error {
	f, err := mapfile.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	_, s, perr := dump.Collect(f.Data())
	switch o.format {
	case "json":
		fi := fileInfo{File: name, Summary: s}
		if perr != nil {
			fi.Error = perr.Error()
		}
		data, err := json.Marshal(&fi)
		if err != nil {
			return err
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	case "text":
		_, err := io.WriteString(w, formatInfo(name, &s, perr))
		return err
	default:
		return fmt.Errorf("info does not support format %q", o.format)
	}
}

func formatInfo(name string, s *dump.Summary, err error) string {
	h := &s.Header
	str := fmt.Sprintf("%s\n  format: %d [%s]\n  tracks: %d of %d\n",
		name, h.Format, h.Format, s.Tracks, h.Tracks)
	if fps, ticks, ok := h.Division.SMPTE(); ok {
		str += fmt.Sprintf("  division: %d fps, %d ticks/frame\n", fps, ticks)
	} else if n, ok := h.Division.TicksPerQuarter(); ok {
		str += fmt.Sprintf("  division: %d ticks/quarter\n", n)
	}
	str += fmt.Sprintf("  channel events: %d\n  meta events: %d\n  sysex events: %d\n",
		s.Channel, s.Meta, s.Sysex)
	str += fmt.Sprintf("  parsed: %d of %d bytes\n", s.Bytes, s.Size)
	if s.Truncated {
		str += "  truncated\n"
	}
	if err != nil {
		var e *midi.SyntaxError
		if errors.As(err, &e) {
			str += fmt.Sprintf("  error at offset %d: %v\n", e.Offset, e.Err)
		} else {
			str += fmt.Sprintf("  error: %v\n", err)
		}
	}
	return str
}

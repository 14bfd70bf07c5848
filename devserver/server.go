// Package devserver serves the parsed contents of a MIDI file over HTTP, and
// pushes updates over a websocket when the file changes.
package devserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding"

	"moria.us/smf/dump"
	"moria.us/smf/watcher"
)

const (
	textType = "text/plain; charset=UTF-8"
	jsonType = "application/json"
)

// A Server serves the latest state of a watched file.
type Server struct {
	name     string
	encoding encoding.Encoding
	states   states
}

// New returns a server for the file with the given display name. Text meta
// events are decoded with enc, or UTF-8 if enc is nil.
func New(name string, enc encoding.Encoding) *Server {
	return &Server{
		name:     name,
		encoding: enc,
	}
}

// Update replaces the state served.
func (s *Server) Update(st *watcher.State) {
	s.states.update(st)
}

// Watch updates the server with every state received from ch.
func (s *Server) Watch(ch <-chan *watcher.State) {
	for st := range ch {
		s.Update(st)
	}
	logrus.Warnln("watch channel closed:", s.name)
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	mx := chi.NewMux()
	mx.Get("/", s.serveText)
	mx.Get("/events", s.serveEvents)
	mx.Get("/summary", s.serveSummary)
	mx.Get("/socket", s.serveSocket)
	mx.NotFound(s.serveNotFound)
	return mx
}

func logResponse(r *http.Request, status int, msg string) {
	if status >= 400 {
		if msg == "" {
			msg = http.StatusText(status)
		}
		logrus.Errorln(status, r.URL, msg)
	} else if msg == "" {
		logrus.Infoln(status, r.URL)
	} else {
		logrus.Infoln(status, r.URL, msg)
	}
}

func (s *Server) serveData(w http.ResponseWriter, r *http.Request, ctype string, data []byte) {
	logResponse(r, http.StatusOK, "")
	hdr := w.Header()
	hdr.Set("Content-Type", ctype)
	hdr.Set("Content-Length", strconv.Itoa(len(data)))
	hdr.Set("Cache-Control", "no-cache")
	w.Write(data)
}

func (s *Server) serveStatus(w http.ResponseWriter, r *http.Request, status int, msg string) {
	logResponse(r, status, msg)
	var b bytes.Buffer
	fmt.Fprintf(&b, "%d %s\n%s\n", status, http.StatusText(status), msg)
	hdr := w.Header()
	hdr.Set("Content-Type", textType)
	hdr.Set("Content-Length", strconv.Itoa(b.Len()))
	hdr.Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	w.Write(b.Bytes())
}

func (s *Server) serveError(w http.ResponseWriter, r *http.Request, err error) {
	s.serveStatus(w, r, http.StatusInternalServerError, err.Error())
}

func (s *Server) serveNotFound(w http.ResponseWriter, r *http.Request) {
	s.serveStatus(w, r, http.StatusNotFound, fmt.Sprintf("Page not found: %q", r.URL))
}

// getState returns the current state, or nil if the request was canceled.
func (s *Server) getState(w http.ResponseWriter, r *http.Request) *watcher.State {
	st := s.states.get(r.Context())
	if st == nil {
		// ctx canceled.
		return nil
	}
	if st.Data == nil && st.Err != nil {
		s.serveError(w, r, st.Err)
		return nil
	}
	return st
}

func (s *Server) serveText(w http.ResponseWriter, r *http.Request) {
	st := s.getState(w, r)
	if st == nil {
		return
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s\n", s.name)
	tw := dump.NewText(&b, dump.TextOptions{
		Encoding: s.encoding,
		Payloads: r.URL.Query().Has("payloads"),
	})
	for i := range st.Events {
		tw.WriteEvent(&st.Events[i])
	}
	tw.Close()
	if st.Err != nil {
		fmt.Fprintf(&b, "%v\n", st.Err)
	}
	s.serveData(w, r, textType, b.Bytes())
}

func (s *Server) records(st *watcher.State) []dump.Record {
	rs := make([]dump.Record, len(st.Events))
	for i := range st.Events {
		rs[i] = dump.NewRecord(&st.Events[i], s.encoding)
	}
	return rs
}

func (s *Server) serveEvents(w http.ResponseWriter, r *http.Request) {
	st := s.getState(w, r)
	if st == nil {
		return
	}
	data, err := json.Marshal(s.records(st))
	if err != nil {
		s.serveError(w, r, err)
		return
	}
	s.serveData(w, r, jsonType, data)
}

type summaryMessage struct {
	File    string        `json:"file"`
	Summary *dump.Summary `json:"summary,omitempty"`
	Error   string        `json:"error,omitempty"`
}

func (s *Server) serveSummary(w http.ResponseWriter, r *http.Request) {
	st := s.getState(w, r)
	if st == nil {
		return
	}
	m := summaryMessage{
		File:    s.name,
		Summary: &st.Summary,
	}
	if st.Err != nil {
		m.Error = st.Err.Error()
	}
	data, err := json.Marshal(&m)
	if err != nil {
		s.serveError(w, r, err)
		return
	}
	s.serveData(w, r, jsonType, data)
}

// ListenAndServe serves h on every address of host until ctx is done. The
// host "*" binds to all local addresses.
func ListenAndServe(ctx context.Context, host string, port int, h http.Handler) error {
	log := logrus.StandardLogger()
	var addrs []net.IPAddr
	if host == "*" {
		addrs = []net.IPAddr{{IP: net.IPv6zero}}
		host = "localhost"
	} else {
		var err error
		rslv := net.DefaultResolver
		addrs, err = rslv.LookupIPAddr(ctx, host)
		if err != nil {
			return fmt.Errorf("could not look up host: %v", err)
		}
		if host == "" {
			host = "localhost"
		}
	}
	s := http.Server{
		Handler:     h,
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}
	errch := make(chan error, len(addrs))
	var root *url.URL
	for _, addr := range addrs {
		ta := net.TCPAddr{
			IP:   addr.IP,
			Zone: addr.Zone,
			Port: port,
		}
		l, err := net.ListenTCP("tcp", &ta)
		if err != nil {
			s.Close()
			return err
		}
		if root == nil {
			root = &url.URL{
				Scheme: "http",
				Host:   net.JoinHostPort(host, strconv.Itoa(port)),
				Path:   "/",
			}
			log.Infoln("Serving on:", root)
		}
		go func(l *net.TCPListener) {
			errch <- s.Serve(l)
		}(l)
	}
	if root == nil {
		return errors.New("no address to serve on")
	}
	select {
	case err := <-errch:
		s.Close()
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		s.Close()
		return nil
	}
}

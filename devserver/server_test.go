package devserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"moria.us/smf/dump"
	"moria.us/smf/watcher"
)

var testFile = []byte{
	'M', 'T', 'h', 'd', 0, 0, 0, 6, 0, 0, 0, 1, 0, 96,
	'M', 'T', 'r', 'k', 0, 0, 0, 12,
	0, 0xff, 0x03, 4, 'L', 'e', 'a', 'd',
	0, 0xff, 0x2f, 0,
}

func testState(t *testing.T, data []byte) *watcher.State {
	evs, sum, err := dump.Collect(data)
	return &watcher.State{Data: data, Events: evs, Summary: sum, Err: err}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestServeEvents(t *testing.T) {
	s := New("song.mid", nil)
	s.Update(testState(t, testFile))
	w := get(t, s.Handler(), "/events")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /events: status %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != jsonType {
		t.Errorf("GET /events: content type %q", ct)
	}
	var recs []dump.Record
	if err := json.Unmarshal(w.Body.Bytes(), &recs); err != nil {
		t.Fatal("Unmarshal:", err)
	}
	want := []string{"header", "track", "track-meta", "track-meta", "eob"}
	if len(recs) != len(want) {
		t.Fatalf("got %d records, want %d", len(recs), len(want))
	}
	for i, r := range recs {
		if r.Status != want[i] {
			t.Errorf("record %d: got %q, want %q", i, r.Status, want[i])
		}
	}
	if m := recs[2].Meta; m == nil || m.Text == nil || *m.Text != "Lead" {
		t.Errorf("track name: got %+v", m)
	}
}

func TestServeText(t *testing.T) {
	s := New("song.mid", nil)
	s.Update(testState(t, testFile))
	w := get(t, s.Handler(), "/")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /: status %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"song.mid\n", "header\n", "  text: \"Lead\"\n", "eob\n"} {
		if !strings.Contains(body, want) {
			t.Errorf("GET /: missing %q in:\n%s", want, body)
		}
	}
}

func TestServeSummaryError(t *testing.T) {
	data := append([]byte(nil), testFile...)
	data[len(data)-3] = 0xf5
	s := New("song.mid", nil)
	s.Update(testState(t, data))
	w := get(t, s.Handler(), "/summary")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /summary: status %d", w.Code)
	}
	var m summaryMessage
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatal("Unmarshal:", err)
	}
	if m.Error == "" || m.Summary == nil || m.Summary.Meta != 1 {
		t.Errorf("GET /summary: got %+v", m)
	}
}

func TestServeReadError(t *testing.T) {
	s := New("song.mid", nil)
	s.Update(&watcher.State{Err: errors.New("no such file")})
	w := get(t, s.Handler(), "/events")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("GET /events: status %d, want 500", w.Code)
	}
}

func TestServeNotFound(t *testing.T) {
	s := New("song.mid", nil)
	if w := get(t, s.Handler(), "/nothing"); w.Code != http.StatusNotFound {
		t.Errorf("GET /nothing: status %d, want 404", w.Code)
	}
}

func TestServeWaitCanceled(t *testing.T) {
	s := New("song.mid", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)
	if w.Body.Len() != 0 {
		t.Errorf("canceled request: got body %q", w.Body.String())
	}
}

func TestSocket(t *testing.T) {
	s := New("song.mid", nil)
	s.Update(testState(t, testFile))
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/socket"
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal("Dial:", err)
	}
	defer c.Close()
	c.SetReadDeadline(time.Now().Add(5 * time.Second))

	var m stateMessage
	if err := c.ReadJSON(&m); err != nil {
		t.Fatal("ReadJSON:", err)
	}
	if m.State != "ok" || m.Summary == nil || m.Summary.Tracks != 1 || len(m.Events) != 5 {
		t.Errorf("first message: got %+v", m)
	}

	s.Update(&watcher.State{Err: errors.New("gone")})
	m = stateMessage{}
	if err := c.ReadJSON(&m); err != nil {
		t.Fatal("ReadJSON:", err)
	}
	if m.State != "fail" || m.Error != "gone" {
		t.Errorf("second message: got %+v", m)
	}
}

package devserver

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"moria.us/smf/dump"
	"moria.us/smf/watcher"
)

const (
	pingInterval = 30 * time.Second
	writeTimeout = 60 * time.Second
)

var upgrader = websocket.Upgrader{}

type wshandler struct {
	server *Server
	conn   *websocket.Conn
	log    *logrus.Entry
}

func (s *Server) serveSocket(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Errorln("Upgrade:", err)
		return
	}
	wh := wshandler{
		server: s,
		conn:   c,
		log:    logrus.WithField("conn", uuid.NewString()),
	}
	wh.log.Infoln("Websocket connected:", r.RemoteAddr)
	endch := make(chan struct{})
	go wh.read(endch)
	go wh.write(endch)
}

func (h *wshandler) read(endch chan struct{}) {
	defer close(endch)
	for {
		mt, _, err := h.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Errorln("Websocket read:", err)
			}
			break
		}
		h.log.Infoln("Websocket message:", mt)
	}
}

func (h *wshandler) write(endch chan struct{}) {
	defer h.conn.Close()
	ch := make(chan *watcher.State, 10)
	d := h.server.states.addListener(ch)
	defer h.server.states.removeListener(ch)
	if d != nil {
		if err := h.send(d); err != nil {
			h.log.Error("Websocket send:", err)
			return
		}
	}
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for {
		select {
		case d, ok := <-ch:
			if !ok {
				return
			}
			if err := h.send(d); err != nil {
				h.log.Error("Websocket send:", err)
				return
			}
		case <-t.C:
			h.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := h.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.log.Error("Websocket ping:", err)
				return
			}
		case <-endch:
			return
		}
	}
}

type stateMessage struct {
	State   string        `json:"state"`
	Error   string        `json:"error,omitempty"`
	Summary *dump.Summary `json:"summary,omitempty"`
	Events  []dump.Record `json:"events,omitempty"`
}

func (h *wshandler) send(d *watcher.State) error {
	m := stateMessage{State: "ok"}
	if d.Err != nil {
		m.State = "fail"
		m.Error = d.Err.Error()
	}
	if d.Data != nil {
		m.Summary = &d.Summary
		m.Events = h.server.records(d)
	}
	md, err := json.Marshal(&m)
	if err != nil {
		return err
	}
	h.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return h.conn.WriteMessage(websocket.TextMessage, md)
}

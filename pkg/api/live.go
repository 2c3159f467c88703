package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rubiojr/xmlsearch/pkg/realtime"
	"github.com/rubiojr/xmlsearch/pkg/session"
)

// HandleLive upgrades to a websocket session. The session state is decoded
// from the query parameters and an init message with the first view is
// sent. Every inbound event then produces a view message; events are
// handled one at a time in arrival order. Dataset reloads push a fresh view
// for the current state.
func (s *Server) HandleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debugf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	id := uuid.NewString()
	state := session.Decode(r.URL.Query(), s.search.SessionOptions())
	s.logger.Debugf("live session %s opened (term=%q)", id, state.Term)
	defer s.logger.Debugf("live session %s closed", id)

	var reloads <-chan realtime.Event
	if hub := s.search.Hub(); hub != nil {
		hid, ch := hub.Register()
		defer hub.Unregister(hid)
		reloads = ch
	}

	if err := s.sendView(conn, id, MessageInit, "", state); err != nil {
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	inbound := make(chan []byte)
	go s.readLoop(ctx, conn, inbound)

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-inbound:
			if !ok {
				return
			}
			ev, err := session.DecodeEvent(data)
			if err != nil {
				if err := s.send(conn, LiveMessage{Type: MessageError, Session: id, Error: err.Error()}); err != nil {
					return
				}
				continue
			}
			state.Apply(ev)
			if err := s.sendView(conn, id, MessageView, "event", state); err != nil {
				return
			}
		case ev, ok := <-reloads:
			if !ok {
				reloads = nil
				continue
			}
			s.logger.Debugf("live session %s: dataset %s", id, ev.Type)
			if err := s.sendView(conn, id, MessageView, "reload", state); err != nil {
				return
			}
		}
	}
}

// readLoop forwards text messages until the connection fails or ctx ends,
// then closes out.
func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, out chan<- []byte) {
	defer close(out)
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debugf("websocket read: %v", err)
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		select {
		case out <- data:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) sendView(conn *websocket.Conn, id, typ, reason string, state *session.State) error {
	msg := LiveMessage{Type: typ, Session: id, State: state.Clone(), Reason: reason}
	res, err := s.search.Search(state)
	if err != nil {
		msg.Error = err.Error()
	}
	resp := NewSearchResponse(res)
	msg.Results = &resp
	return s.send(conn, msg)
}

func (s *Server) send(conn *websocket.Conn, msg LiveMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		return err
	}
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Debugf("websocket write: %v", err)
		return err
	}
	return nil
}

// Package ws serves one run to websocket clients.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/appengine-ltd/under-the-shadow/internal/content"
	"github.com/appengine-ltd/under-the-shadow/internal/game"
	"github.com/appengine-ltd/under-the-shadow/internal/save"
)

const (
	TypeCommand = "command"
	TypeState   = "state"
	TypeSave    = "save"
	TypeResult  = "result"
	TypeError   = "error"

	readTimeout  = 5 * time.Minute
	writeTimeout = 5 * time.Second
	viewLogLines = 10
)

type ClientMsg struct {
	Type    string `json:"type"`
	Command string `json:"command,omitempty"`
}

type ServerMsg struct {
	Type   string                 `json:"type"`
	Result *game.RunCommandResult `json:"result,omitempty"`
	State  *View                  `json:"state,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

// View is the client-facing projection of the run.
type View struct {
	RunID      string          `json:"run_id"`
	Week       int             `json:"week"`
	FinalWeek  int             `json:"final_week"`
	Phase      game.Phase      `json:"phase"`
	Settling   bool            `json:"settling"`
	Meters     game.Meters     `json:"meters"`
	Unlocks    game.Unlocks    `json:"unlocks"`
	Inventory  game.Inventory  `json:"inventory"`
	PendingNPC *content.Record `json:"pending_npc,omitempty"`
	Story      *content.Story  `json:"story,omitempty"`
	Ending     *game.Ending    `json:"ending,omitempty"`
	Log        []string        `json:"log,omitempty"`
}

type Server struct {
	mu     sync.Mutex
	run    *game.RunState
	store  save.Store
	slot   int
	logger *slog.Logger

	upgrader websocket.Upgrader
}

// NewServer wraps run. store may be nil, in which case save requests fail.
func NewServer(run *game.RunState, store save.Store, slot int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		run:    run,
		store:  store,
		slot:   slot,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     localOrigin,
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
			return
		}
		defer conn.Close()
		s.logger.Info("client connected", "remote", r.RemoteAddr)
		defer s.logger.Info("client disconnected", "remote", r.RemoteAddr)

		if err := s.write(conn, ServerMsg{Type: TypeState, State: s.view()}); err != nil {
			return
		}
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			reply := s.handle(r.Context(), raw)
			if err := s.write(conn, reply); err != nil {
				return
			}
		}
	}
}

func (s *Server) handle(ctx context.Context, raw []byte) ServerMsg {
	var msg ClientMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return ServerMsg{Type: TypeError, Error: "malformed message"}
	}
	switch msg.Type {
	case TypeState:
		return ServerMsg{Type: TypeState, State: s.view()}
	case TypeCommand:
		s.mu.Lock()
		res := s.run.ExecuteRunCommand(msg.Command)
		view := s.viewLocked()
		s.mu.Unlock()
		if res.Result.Ending != nil {
			s.logger.Info("run ended", "run", view.RunID, "ending", res.Result.Ending.ID)
		}
		return ServerMsg{Type: TypeResult, Result: &res, State: view}
	case TypeSave:
		if s.store == nil {
			return ServerMsg{Type: TypeError, Error: "saving is disabled"}
		}
		s.mu.Lock()
		file := save.NewFile(s.run, time.Now())
		s.mu.Unlock()
		if err := s.store.Save(ctx, s.slot, file); err != nil {
			s.logger.Error("save failed", "slot", s.slot, "err", err)
			return ServerMsg{Type: TypeError, Error: err.Error()}
		}
		res := game.RunCommandResult{Handled: true, Message: "Saved."}
		return ServerMsg{Type: TypeResult, Result: &res, State: s.view()}
	}
	return ServerMsg{Type: TypeError, Error: "unknown message type: " + msg.Type}
}

func (s *Server) write(conn *websocket.Conn, msg ServerMsg) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(msg)
}

func (s *Server) view() *View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Server) viewLocked() *View {
	run := s.run
	v := &View{
		RunID:     run.RunID,
		Week:      run.Week,
		FinalWeek: run.Config.FinalWeek,
		Phase:     run.Phase,
		Settling:  run.Settling,
		Meters:    run.Meters(),
		Unlocks:   run.Unlocks,
		Inventory: game.Inventory{},
	}
	for id, n := range run.Inventory {
		v.Inventory[id] = n
	}
	if run.PendingNPC != nil {
		rec := *run.PendingNPC
		v.PendingNPC = &rec
	}
	if run.Phase == game.PhaseStory {
		story := run.CurrentStory()
		v.Story = &story
	}
	if e, ok := run.Ending(); ok {
		v.Ending = &e
	}
	log := run.Log
	if len(log) > viewLogLines {
		log = log[len(log)-viewLogLines:]
	}
	v.Log = append([]string(nil), log...)
	return v
}

func localOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

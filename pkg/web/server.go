// Package web provides a real-time dashboard for the agent: a small
// fiber server exposing the current state, the conversation history,
// and websocket feeds for status, logs, and camera frames.
package web

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/pidoglabs/go-pidog/pkg/agent"
	"github.com/pidoglabs/go-pidog/pkg/hub"
)

// State is the dashboard's view of the agent.
type State struct {
	Phase           string    `json:"phase"`
	Speaking        bool      `json:"speaking"`
	Provider        string    `json:"provider"`
	Model           string    `json:"model"`
	LastUserMessage string    `json:"last_user_message"`
	LastAnswer      string    `json:"last_answer"`
	LastActions     []string  `json:"last_actions"`
	LastTurnFailed  bool      `json:"last_turn_failed"`
	Turns           int       `json:"turns"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// LogEntry is a log line for the dashboard.
type LogEntry struct {
	Time    string `json:"time"`
	Type    string `json:"type"` // info, warn, error
	Message string `json:"message"`
}

// ConversationEntry is one message in the conversation feed.
type ConversationEntry struct {
	Time    string `json:"time"`
	Role    string `json:"role"` // user, dog
	Message string `json:"message"`
}

const (
	maxLogEntries          = 500
	maxConversationEntries = 100
)

// Server is the web dashboard server. It implements agent.StatusSink,
// so it can be passed to the agent directly as its event observer.
type Server struct {
	app    *fiber.App
	port   string
	logger *slog.Logger

	state   State
	stateMu sync.RWMutex

	logs   []LogEntry
	logsMu sync.RWMutex

	conversation   []ConversationEntry
	conversationMu sync.RWMutex

	statusHub *hub.Hub
	logHub    *hub.Hub
	cameraHub *hub.Hub
}

// NewServer creates a dashboard server listening on the given port.
// Provider and model are displayed as-is on the status panel.
func NewServer(port, providerName, model string) *Server {
	s := &Server{
		port:         port,
		logger:       slog.Default().With("component", "web"),
		logs:         make([]LogEntry, 0, maxLogEntries),
		conversation: make([]ConversationEntry, 0, maxConversationEntries),
		statusHub:    hub.New("status"),
		logHub:       hub.New("logs"),
		cameraHub:    hub.New("camera"),
	}
	s.state.Phase = "standby"
	s.state.Provider = providerName
	s.state.Model = model
	s.state.UpdatedAt = time.Now()

	app := fiber.New(fiber.Config{
		AppName:               "Pidog Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// Static files
	app.Static("/", "./web")

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/logs", s.handleGetLogs)
	api.Get("/conversation", s.handleGetConversation)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	app.Get("/ws/logs", websocket.New(s.handleLogsWS))
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))

	s.app = app
	return s
}

// Start starts the hubs and the web server, blocking until shutdown.
func (s *Server) Start() error {
	s.logger.Info("dashboard listening", "addr", "http://localhost:"+s.port)

	go s.statusHub.Run()
	go s.logHub.Run()
	go s.cameraHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the web server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			s.logger.Error("web server error", "error", err)
		}
	}()
}

// Publish implements agent.StatusSink. It folds the event into the
// dashboard state and broadcasts the updated state to websocket
// clients without blocking the agent loop.
func (s *Server) Publish(ev agent.Event) {
	switch ev.Type {
	case agent.EventPhase:
		s.UpdateState(func(st *State) {
			st.Phase = ev.Phase
			st.Speaking = ev.Phase == "executing"
		})
	case agent.EventTurn:
		if ev.Turn == nil {
			return
		}
		turn := *ev.Turn
		s.UpdateState(func(st *State) {
			st.LastUserMessage = turn.Input
			st.LastAnswer = turn.Answer
			st.LastActions = turn.Actions
			st.LastTurnFailed = turn.Failed
			st.Turns++
		})
		s.AddConversation("user", turn.Input)
		if turn.Answer != "" {
			s.AddConversation("dog", turn.Answer)
		}
	}
}

// UpdateState applies the update under lock and broadcasts the new
// state to status clients.
func (s *Server) UpdateState(update func(*State)) {
	s.stateMu.Lock()
	update(&s.state)
	s.state.UpdatedAt = time.Now()
	state := s.state // copy for broadcast
	s.stateMu.Unlock()

	s.statusHub.BroadcastJSON(state)
}

// AddLog appends a log entry and broadcasts it to log clients.
func (s *Server) AddLog(logType, message string) {
	entry := LogEntry{
		Time:    time.Now().Format("15:04:05"),
		Type:    logType,
		Message: message,
	}

	s.logsMu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > maxLogEntries {
		s.logs = s.logs[1:]
	}
	s.logsMu.Unlock()

	s.logHub.BroadcastJSON(entry)
}

// AddConversation appends a conversation entry.
func (s *Server) AddConversation(role, message string) {
	entry := ConversationEntry{
		Time:    time.Now().Format("15:04:05"),
		Role:    role,
		Message: message,
	}

	s.conversationMu.Lock()
	s.conversation = append(s.conversation, entry)
	if len(s.conversation) > maxConversationEntries {
		s.conversation = s.conversation[1:]
	}
	s.conversationMu.Unlock()
}

// SendCameraFrame broadcasts a JPEG frame to camera clients.
func (s *Server) SendCameraFrame(jpegData []byte) {
	s.cameraHub.BroadcastBinary(jpegData)
}

// Shutdown gracefully stops the web server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

var _ agent.StatusSink = (*Server)(nil)

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/livetemplate/tourguide"
	"github.com/livetemplate/tourguide/internal/dom"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// errRateLimited is returned when a session sends actions too quickly.
var errRateLimited = errors.New("action rate limit exceeded")

// MessageEnvelope is a visitor action sent by the browser.
type MessageEnvelope struct {
	Action string          `json:"action"` // start, next, prev, goto, end
	Data   json.RawMessage `json:"data,omitempty"`
}

// StartData is the payload of a start action.
type StartData struct {
	InitialStep *int `json:"initialStep,omitempty"`
	TotalSteps  *int `json:"totalSteps,omitempty"`
}

// GoToData is the payload of a goto action.
type GoToData struct {
	Step int `json:"step"`
}

// FrameMessage carries the rendered tour state to the browser.
type FrameMessage struct {
	Action         string              `json:"action"`
	State          tourguide.TourState `json:"state"`
	HTML           string              `json:"html"`
	Highlight      string              `json:"highlight,omitempty"`
	HighlightClass string              `json:"highlightClass"`
	HighlightLayer int                 `json:"highlightLayer"`
}

// ReloadMessage asks the browser to reload the page.
type ReloadMessage struct {
	Action   string `json:"action"`
	FilePath string `json:"filePath,omitempty"`
}

// Session is one browser's tour. It owns a Provider mounted over its own
// copy of the page document.
type Session struct {
	server   *Server
	page     *tourguide.Page
	conn     *websocket.Conn
	provider *tourguide.Provider
	ctx      context.Context
	limiter  *rate.Limiter
	debug    bool

	exitDelay time.Duration
	mu        sync.Mutex // serializes actions and frame pushes
	refresh   *time.Timer

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// newSession builds the provider for page. conn may be nil in tests.
func newSession(srv *Server, page *tourguide.Page, conn *websocket.Conn) (*Session, error) {
	doc, err := dom.ParseString(page.StaticHTML)
	if err != nil {
		return nil, fmt.Errorf("failed to build page document: %w", err)
	}
	reg, err := page.Registry()
	if err != nil {
		return nil, fmt.Errorf("failed to build step registry: %w", err)
	}

	cfg := srv.config
	provider := tourguide.NewProvider(reg, doc,
		tourguide.WithDiagnostics(tourguide.LogSink{}),
		tourguide.WithHighlightClass(page.Tour.HighlightClass),
		tourguide.WithExitDuration(cfg.Tour.GetExitDuration()),
	)
	provider.Mount()

	return &Session{
		server:    srv,
		page:      page,
		conn:      conn,
		provider:  provider,
		ctx:       tourguide.WithProvider(context.Background(), provider),
		limiter:   rate.NewLimiter(rate.Limit(cfg.Server.GetActionsPerSecond()), cfg.Server.GetActionBurst()),
		debug:     cfg.Server.Debug,
		exitDelay: cfg.Tour.GetExitDuration(),
		send:      make(chan []byte, sendBuffer),
		done:      make(chan struct{}),
	}, nil
}

// ID returns the session's provider ID.
func (sess *Session) ID() string {
	return sess.provider.ID
}

// serveWebSocket upgrades the connection and runs a tour session on it.
func (s *Server) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	page := s.Page()
	if page == nil {
		http.Error(w, "No page loaded", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Failed to upgrade connection: %v", err)
		return
	}

	sess, err := newSession(s, page, conn)
	if err != nil {
		log.Printf("[WS] Failed to open session: %v", err)
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "session setup failed"))
		conn.Close()
		return
	}

	s.RegisterSession(sess)
	defer func() {
		s.UnregisterSession(sess)
		sess.close()
	}()

	if sess.debug {
		log.Printf("[WS] Client connected: %s (session %s)", conn.RemoteAddr(), sess.ID())
	}

	go sess.writePump()
	sess.open()
	sess.readPump()

	if sess.debug {
		log.Printf("[WS] Client disconnected: %s (session %s)", conn.RemoteAddr(), sess.ID())
	}
}

// open pushes the first frame, starting the tour when the page asks for it.
func (sess *Session) open() {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.page.Tour.AutoStart {
		if orch := sess.provider.Orchestrator(); orch != nil {
			orch.Start(tourguide.AtStep(sess.page.Tour.InitialStep))
		}
	}
	sess.pushFrame()
}

// readPump pumps actions from the websocket connection into the tour.
func (sess *Session) readPump() {
	sess.conn.SetReadLimit(maxMessageSize)
	sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	sess.conn.SetPongHandler(func(string) error {
		sess.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Unexpected close: %v", err)
			}
			return
		}

		if sess.debug {
			log.Printf("[WS] Received: %s", message)
		}

		if err := sess.handleMessage(sess.ctx, message); err != nil {
			log.Printf("[WS] Error handling action: %v", err)
		}
	}
}

// writePump pumps queued messages to the websocket connection.
func (sess *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sess.conn.Close()
	}()

	for {
		select {
		case message := <-sess.send:
			sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sess.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] Failed to send message: %v", err)
				return
			}
			if sess.debug {
				log.Printf("[WS] Sent: %s", message)
			}

		case <-ticker.C:
			sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sess.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-sess.done:
			sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
			sess.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// handleMessage applies one visitor action and pushes the new frame.
func (sess *Session) handleMessage(ctx context.Context, message []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic handling message: %v", r)
		}
	}()

	var envelope MessageEnvelope
	if err := json.Unmarshal(message, &envelope); err != nil {
		return fmt.Errorf("failed to parse message: %w", err)
	}

	if !sess.limiter.Allow() {
		return fmt.Errorf("session %s: %w", sess.ID(), errRateLimited)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	orch := tourguide.MustFromContext(ctx).Orchestrator()
	if orch == nil {
		return fmt.Errorf("session %s is closed", sess.ID())
	}

	switch envelope.Action {
	case "start":
		var data StartData
		if err := decodeData(envelope.Data, &data); err != nil {
			return err
		}
		orch.Start(sess.startOptions(data))
	case "next":
		orch.Next()
	case "prev":
		orch.Prev()
	case "goto":
		var data GoToData
		if err := decodeData(envelope.Data, &data); err != nil {
			return err
		}
		orch.GoTo(data.Step)
	case "end":
		orch.End()
	default:
		return fmt.Errorf("unknown action %q", envelope.Action)
	}

	if sess.debug {
		log.Printf("[WS] Executed action %s on session %s", envelope.Action, sess.ID())
	}

	sess.pushFrame()
	return nil
}

// startOptions falls back to the page's initial step when the client
// does not pick one.
func (sess *Session) startOptions(data StartData) tourguide.StartOptions {
	opts := tourguide.StartOptions{InitialStep: data.InitialStep, TotalStepsOverride: data.TotalSteps}
	if opts.InitialStep == nil && sess.page.Tour.InitialStep != 0 {
		k := sess.page.Tour.InitialStep
		opts.InitialStep = &k
	}
	return opts
}

func decodeData(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to parse action data: %w", err)
	}
	return nil
}

// frame renders the current frame message. Callers hold sess.mu.
func (sess *Session) frame() (FrameMessage, time.Duration, error) {
	orch := sess.provider.Orchestrator()
	if orch == nil {
		return FrameMessage{}, 0, fmt.Errorf("session %s is closed", sess.ID())
	}

	f := orch.Frame()
	html, err := f.HTML()
	if err != nil {
		return FrameMessage{}, 0, fmt.Errorf("failed to render overlay: %w", err)
	}

	var settle time.Duration
	if f.Exiting != nil {
		settle = sess.exitDelay
	}

	return FrameMessage{
		Action:         "frame",
		State:          f.State,
		HTML:           string(html),
		Highlight:      f.Highlight,
		HighlightClass: f.HighlightClass,
		HighlightLayer: f.HighlightLayer,
	}, settle, nil
}

// pushFrame queues the current frame. While a tooltip is still exiting
// another frame follows once the transition has finished. Callers hold sess.mu.
func (sess *Session) pushFrame() {
	msg, settle, err := sess.frame()
	if err != nil {
		log.Printf("[WS] %v", err)
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WS] Failed to marshal frame: %v", err)
		return
	}
	sess.enqueue(data)

	if sess.refresh != nil {
		sess.refresh.Stop()
		sess.refresh = nil
	}
	if settle > 0 {
		sess.refresh = time.AfterFunc(settle, func() {
			sess.mu.Lock()
			defer sess.mu.Unlock()
			select {
			case <-sess.done:
				return
			default:
			}
			sess.refresh = nil
			sess.pushFrame()
		})
	}
}

// enqueue queues a message without blocking; a client that stops reading
// loses frames rather than stalling the tour.
func (sess *Session) enqueue(data []byte) {
	select {
	case <-sess.done:
	case sess.send <- data:
	default:
		log.Printf("[WS] Send buffer full for session %s, dropping message", sess.ID())
	}
}

// close unmounts the provider and stops the write pump.
func (sess *Session) close() {
	sess.closeOnce.Do(func() {
		close(sess.done)

		sess.mu.Lock()
		if sess.refresh != nil {
			sess.refresh.Stop()
			sess.refresh = nil
		}
		sess.mu.Unlock()

		sess.provider.Unmount()
	})
}

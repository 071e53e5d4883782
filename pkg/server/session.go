package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/statesync/pkg/reactive"
	"github.com/vango-dev/statesync/pkg/render"
	"github.com/vango-dev/statesync/pkg/vdom"
)

// Component is anything that renders to a VNode tree.
// *statesync.StateSync[*vdom.VNode] satisfies it.
type Component interface {
	Render() *vdom.VNode
}

// ComponentFunc adapts a function to Component.
type ComponentFunc func() *vdom.VNode

// Render calls f.
func (f ComponentFunc) Render() *vdom.VNode {
	return f()
}

// Event is a client event addressed to a rendered handler.
type Event struct {
	HID   string `json:"hid"`
	Event string `json:"event"`
}

// key returns the handler registry key for the event.
func (e Event) key() string {
	return e.HID + "_" + e.Event
}

// message is a server push.
type message struct {
	HTML  string `json:"html,omitempty"`
	Error string `json:"error,omitempty"`
}

// Session is one live connection and the component mounted for it.
//
// All handlers, dispatched functions and renders run on the session loop.
type Session struct {
	// ID is the unique session identifier.
	ID string

	conn   *websocket.Conn
	config *Config
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	owner     *reactive.Owner
	component Component
	renderer  *render.Renderer
	handlers  map[string]func()

	events     chan Event
	dispatchCh chan func()
	renderCh   chan struct{}
	done       chan struct{}

	closeOnce sync.Once
	writeMu   sync.Mutex
}

// generateSessionID generates a cryptographically random session ID.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}

// newSession creates a session. conn is nil for sessions that only render
// once for the SSR page.
func newSession(conn *websocket.Conn, config *Config) *Session {
	id := generateSessionID()
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ID:         id,
		conn:       conn,
		config:     config,
		logger:     config.Logger.With("session_id", id),
		ctx:        ctx,
		cancel:     cancel,
		owner:      reactive.NewOwner(nil),
		renderer:   render.NewRenderer(),
		handlers:   make(map[string]func()),
		events:     make(chan Event, config.MaxEventQueue),
		dispatchCh: make(chan func(), config.MaxEventQueue),
		renderCh:   make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
}

// Owner returns the scope disposed when the session ends. Subscriptions
// made on behalf of the mounted component belong here.
func (s *Session) Owner() *reactive.Owner {
	return s.owner
}

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger {
	return s.logger
}

// Context returns a context cancelled when the session closes.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Done returns a channel closed when the session closes.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Dispatch queues fn to run on the session loop, followed by a re-render.
// It blocks while the queue is full and returns ErrSessionClosed if the
// session ends first.
func (s *Session) Dispatch(fn func()) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	select {
	case s.dispatchCh <- fn:
		return nil
	case <-s.done:
		return ErrSessionClosed
	}
}

// Invalidate schedules a re-render. Multiple calls before the loop runs
// collapse into one render.
func (s *Session) Invalidate() {
	select {
	case s.renderCh <- struct{}{}:
	default:
	}
}

// Track re-renders the session whenever src reports a change. The
// subscription ends with the session.
func Track[T any](s *Session, src reactive.Subscribable[T]) {
	reactive.Watch[T](s.owner, src, func(T) { s.Invalidate() })
}

// Close ends the session. It is safe to call more than once and from any
// goroutine.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.cancel()
		if s.conn != nil {
			s.writeMu.Lock()
			s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			s.writeMu.Unlock()
			s.conn.Close()
		}
	})
}

// Start runs the read loop and the event loop.
func (s *Session) Start() {
	go s.ReadLoop()
	go s.EventLoop()
}

// ReadLoop reads client events and queues them for the event loop.
// It blocks until the connection is closed or an error occurs.
func (s *Session) ReadLoop() {
	defer s.Close()

	s.conn.SetReadLimit(s.config.MaxMessageSize)
	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		var ev Event
		if err := json.Unmarshal(msg, &ev); err != nil || ev.HID == "" || ev.Event == "" {
			if err == nil {
				err = errors.New("missing hid or event")
			}
			s.logger.Error("event decode error", "error", err)
			s.sendError(fmt.Errorf("%w: %v", ErrInvalidEvent, err))
			continue
		}

		select {
		case s.events <- ev:
		default:
			s.logger.Warn("event dropped", "hid", ev.HID, "event", ev.Event)
			s.sendError(ErrEventQueueFull)
		}
	}
}

// EventLoop pushes the first render, then processes events, dispatched
// functions and render requests until the session closes. The session
// owner is disposed when it returns.
func (s *Session) EventLoop() {
	defer s.owner.Dispose()

	s.renderAndPush()
	for {
		select {
		case ev := <-s.events:
			s.handleEvent(ev)

		case fn := <-s.dispatchCh:
			s.execute("dispatch", fn)
			s.renderAndPush()

		case <-s.renderCh:
			s.renderAndPush()

		case <-s.done:
			return
		}
	}
}

func (s *Session) handleEvent(ev Event) {
	fn, ok := s.handlers[ev.key()]
	if !ok {
		s.logger.Warn("unknown handler", "hid", ev.HID, "event", ev.Event)
		s.sendError(fmt.Errorf("%w: %s", ErrUnknownHandler, ev.key()))
		return
	}
	s.execute("handler", fn)
	s.renderAndPush()
}

// execute runs fn, logging instead of crashing the session on panic.
func (s *Session) execute(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(what+" panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

// render renders the component and replaces the handler registry.
func (s *Session) render() (string, error) {
	s.renderer.Reset()
	html, err := s.renderer.RenderToString(s.component.Render())
	if err != nil {
		return "", err
	}
	s.handlers = s.renderer.Handlers()
	return html, nil
}

func (s *Session) renderAndPush() {
	// A render now covers any request already queued.
	select {
	case <-s.renderCh:
	default:
	}

	html, err := s.render()
	if err != nil {
		s.logger.Error("render error", "error", err)
		s.sendError(err)
		return
	}
	s.send(message{HTML: html})
}

func (s *Session) sendError(err error) {
	s.send(message{Error: err.Error()})
}

func (s *Session) send(m message) {
	if s.conn == nil {
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteJSON(m); err != nil {
		s.logger.Error("write error", "error", err)
	}
}

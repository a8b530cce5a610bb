// Package remote serves an engine.Engine over a websocket and provides the
// matching client, so the visualizer can talk to an out-of-process engine.
package remote

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Garsondee/Waypoint-Sense/internal/engine"
)

const (
	msgQuery  = "query"
	msgResult = "result"

	kindOK         = "ok"
	kindNoSolution = "no_solution"
	kindUnsafe     = "unsafe"
	kindBadQuery   = "bad_query"
	kindError      = "error"
)

type queryMessage struct {
	Type string `json:"type"`
	Goal string `json:"goal"`
}

type resultMessage struct {
	Type  string   `json:"type"`
	Kind  string   `json:"kind"`
	Path  []string `json:"path,omitempty"`
	Error string   `json:"error,omitempty"`
}

// DefaultReadLimit bounds a single inbound query frame. It comfortably fits a
// query listing every cell of the largest grid the built-in engine accepts.
const DefaultReadLimit = 16 << 20

// ErrClientClosed is returned by Client.Query once the connection is gone.
var ErrClientClosed = errors.New("engine connection closed")

// HandlerConfig configures a Handler.
type HandlerConfig struct {
	Logger *log.Logger
	// ReadLimit caps inbound frame size in bytes; 0 means DefaultReadLimit.
	ReadLimit int64
}

// Handler answers engine queries arriving on websocket connections. Queries
// on one connection are answered in order.
type Handler struct {
	engine    engine.Engine
	logger    *log.Logger
	readLimit int64
	upgrader  websocket.Upgrader
}

// NewHandler wraps eng.
func NewHandler(eng engine.Engine, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	readLimit := cfg.ReadLimit
	if readLimit <= 0 {
		readLimit = DefaultReadLimit
	}
	return &Handler{
		engine:    eng,
		logger:    logger,
		readLimit: readLimit,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handle upgrades the request and serves queries until the peer closes.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(h.readLimit)

	for {
		var msg queryMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Printf("read from %s: %v", r.RemoteAddr, err)
			}
			return
		}
		reply := h.answer(msg)
		if err := conn.WriteJSON(reply); err != nil {
			h.logger.Printf("write to %s: %v", r.RemoteAddr, err)
			return
		}
	}
}

func (h *Handler) answer(msg queryMessage) resultMessage {
	if msg.Type != msgQuery {
		return resultMessage{Type: msgResult, Kind: kindBadQuery, Error: fmt.Sprintf("unexpected message type %q", msg.Type)}
	}
	path, err := h.engine.Query(msg.Goal)
	if err != nil {
		h.logger.Printf("query %s: %v", msg.Goal, err)
		return resultMessage{Type: msgResult, Kind: errorKind(err), Error: err.Error()}
	}
	return resultMessage{Type: msgResult, Kind: kindOK, Path: path}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, engine.ErrUnsafeEndpoint):
		return kindUnsafe
	case errors.Is(err, engine.ErrNoSolution):
		return kindNoSolution
	case errors.Is(err, engine.ErrBadQuery):
		return kindBadQuery
	default:
		return kindError
	}
}

// Client is an engine.Engine backed by a remote Handler.
type Client struct {
	mu   sync.Mutex
	conn *websocket.Conn
	// err is the transport failure that closed conn, if any.
	err error
}

// Dial connects to a Handler at url (ws:// or wss://).
func Dial(url string) (*Client, error) {
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("dial engine %s: %w", url, err)
	}
	return &Client{conn: conn}, nil
}

// Query sends goal and blocks for the answer. Remote failures are mapped back
// onto the engine sentinel errors.
func (c *Client) Query(goal string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		if errors.Is(c.err, ErrClientClosed) {
			return nil, c.err
		}
		return nil, fmt.Errorf("%w: %v", ErrClientClosed, c.err)
	}
	if err := c.conn.WriteJSON(queryMessage{Type: msgQuery, Goal: goal}); err != nil {
		return nil, c.fail(fmt.Errorf("send query: %w", err))
	}
	var reply resultMessage
	if err := c.conn.ReadJSON(&reply); err != nil {
		return nil, c.fail(fmt.Errorf("read result: %w", err))
	}
	switch reply.Kind {
	case kindOK:
		return reply.Path, nil
	case kindNoSolution:
		return nil, fmt.Errorf("%w: remote: %s", engine.ErrNoSolution, reply.Error)
	case kindUnsafe:
		return nil, fmt.Errorf("%w: remote: %s", engine.ErrUnsafeEndpoint, reply.Error)
	case kindBadQuery:
		return nil, fmt.Errorf("%w: remote: %s", engine.ErrBadQuery, reply.Error)
	default:
		return nil, fmt.Errorf("remote engine: %s", reply.Error)
	}
}

// fail drops the connection after a transport error so no later query can
// read a reply meant for an earlier one. Callers hold c.mu.
func (c *Client) fail(err error) error {
	c.err = err
	_ = c.conn.Close()
	return err
}

// Close sends a close frame and releases the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil
	}
	c.err = ErrClientClosed
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.WriteMessage(websocket.CloseMessage, msg)
	return c.conn.Close()
}

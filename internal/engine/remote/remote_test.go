package remote

import (
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/Garsondee/Waypoint-Sense/internal/engine"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestServerWithConfig(t, HandlerConfig{})
}

func newTestServerWithConfig(t *testing.T, cfg HandlerConfig) *httptest.Server {
	t.Helper()
	eng := engine.NewBuiltin(engine.DefaultDefinitions())
	cfg.Logger = log.New(io.Discard, "", 0)
	handler := NewHandler(eng, cfg)
	srv := httptest.NewServer(http.HandlerFunc(handler.Handle))
	t.Cleanup(srv.Close)
	return srv
}

func dialTestServer(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := Dial("ws" + strings.TrimPrefix(srv.URL, "http"))
	if err != nil {
		t.Fatalf("failed to dial engine: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestClient_QueryMatchesBuiltin(t *testing.T) {
	c := dialTestServer(t, newTestServer(t))

	q := engine.Query{Width: 4, Height: 1, Origin: engine.Point{X: 1, Y: 1}, Destination: engine.Point{X: 4, Y: 1}}
	atoms, err := c.Query(q.String())
	if err != nil {
		t.Fatalf("remote query failed: %v", err)
	}
	want, _ := engine.NewBuiltin(engine.DefaultDefinitions()).Query(q.String())
	if strings.Join(atoms, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v got %v", want, atoms)
	}
}

func TestClient_ErrorsMapToSentinels(t *testing.T) {
	c := dialTestServer(t, newTestServer(t))

	unsafe := engine.Query{
		Width: 5, Height: 5,
		Origin:      engine.Point{X: 1, Y: 1},
		Destination: engine.Point{X: 5, Y: 5},
		Hostiles:    []engine.Point{{X: 1, Y: 2}},
	}
	_, err := c.Query(unsafe.String())
	if !errors.Is(err, engine.ErrUnsafeEndpoint) {
		t.Fatalf("expected ErrUnsafeEndpoint, got %v", err)
	}
	if !strings.Contains(err.Error(), "safe_cell") {
		t.Fatalf("remote unsafe error lost its safe_cell marker: %v", err)
	}

	walled := engine.Query{
		Width: 3, Height: 1,
		Origin:      engine.Point{X: 1, Y: 1},
		Destination: engine.Point{X: 3, Y: 1},
		Obstacles:   []engine.Point{{X: 2, Y: 1}},
	}
	if _, err := c.Query(walled.String()); !errors.Is(err, engine.ErrNoSolution) {
		t.Fatalf("expected ErrNoSolution, got %v", err)
	}

	if _, err := c.Query("garbage"); !errors.Is(err, engine.ErrBadQuery) {
		t.Fatalf("expected ErrBadQuery, got %v", err)
	}

	// The connection stays usable after failures.
	ok := engine.Query{Width: 2, Height: 1, Origin: engine.Point{X: 1, Y: 1}, Destination: engine.Point{X: 2, Y: 1}}
	if _, err := c.Query(ok.String()); err != nil {
		t.Fatalf("query after failures: %v", err)
	}
}

func TestHandler_RejectsUnknownMessageType(t *testing.T) {
	srv := newTestServer(t)
	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	t.Cleanup(func() {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
		if resp != nil {
			resp.Body.Close()
		}
	})

	if err := conn.WriteJSON(queryMessage{Type: "ping"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var reply resultMessage
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply.Kind != kindBadQuery {
		t.Fatalf("expected bad_query reply, got %+v", reply)
	}
}

func TestDial_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	srv.Close()
	if _, err := Dial(url); err == nil {
		t.Fatal("expected dial to fail against a closed server")
	}
}

func TestHandler_OversizedFrameDropsConnection(t *testing.T) {
	c := dialTestServer(t, newTestServerWithConfig(t, HandlerConfig{ReadLimit: 64}))

	big := engine.Query{Width: 50, Height: 50, Origin: engine.Point{X: 1, Y: 1}, Destination: engine.Point{X: 50, Y: 50}}
	for x := 2; x <= 40; x++ {
		big.Obstacles = append(big.Obstacles, engine.Point{X: x, Y: 2})
	}
	if _, err := c.Query(big.String()); err == nil {
		t.Fatal("expected the server to refuse an oversized frame")
	}

	// The client must not reuse a connection whose reply stream is unknown.
	small := engine.Query{Width: 2, Height: 1, Origin: engine.Point{X: 1, Y: 1}, Destination: engine.Point{X: 2, Y: 1}}
	_, err := c.Query(small.String())
	if !errors.Is(err, ErrClientClosed) {
		t.Fatalf("expected ErrClientClosed after a transport failure, got %v", err)
	}
}

func TestClient_QueryAfterClose(t *testing.T) {
	c := dialTestServer(t, newTestServer(t))
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := c.Query("shortest_path(2, 1, 1-1, 2-1, [], [], Path)"); !errors.Is(err, ErrClientClosed) {
		t.Fatalf("expected ErrClientClosed, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second close should be a no-op, got %v", err)
	}
}

func TestClient_OversizedGridIsBadQuery(t *testing.T) {
	c := dialTestServer(t, newTestServer(t))
	if _, err := c.Query("shortest_path(100000, 100000, 1-1, 2-1, [], [], Path)"); !errors.Is(err, engine.ErrBadQuery) {
		t.Fatalf("expected ErrBadQuery, got %v", err)
	}
}

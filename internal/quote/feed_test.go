package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

// mockWSServer creates a test WebSocket server.
func mockWSServer(t *testing.T, handler func(*websocket.Conn)) *httptest.Server {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func waitForTick(t *testing.T, feed *Feed, symbol string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := feed.Get(symbol); ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("no tick for %s before deadline", symbol)
}

func TestFeedCachesTicks(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(`{"symbol":"aapl","name":"Apple Inc","price":151.50}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"symbol":"AAPL","name":"Apple Inc","price":152.00}`))
		// Keep the connection open until the client drops it.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	feed := NewFeed(FeedConfig{URL: wsURL(server)}, nil)
	feed.Start(context.Background())
	defer feed.Stop()

	waitForTick(t, feed, "AAPL")

	deadline := time.Now().Add(2 * time.Second)
	for {
		q, _ := feed.Get("aapl")
		if q.Price.Equal(decimal.RequireFromString("152.00")) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("latest price = %s, want 152.00", q.Price)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestFeedSkipsMalformedTicks(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"symbol":"BAD","price":-1}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"symbol":"GOOD","name":"Good Co","price":10}`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	feed := NewFeed(FeedConfig{URL: wsURL(server)}, nil)
	feed.Start(context.Background())
	defer feed.Stop()

	waitForTick(t, feed, "GOOD")

	if _, ok := feed.Get("BAD"); ok {
		t.Error("negative-price tick was cached")
	}
}

func TestFallbackProvider(t *testing.T) {
	var restCalls atomic.Int32
	rest := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		restCalls.Add(1)
		w.Write([]byte(`{"symbol":"MSFT","name":"Microsoft","price":300}`))
	}))
	defer rest.Close()

	ws := mockWSServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(`{"symbol":"AAPL","name":"Apple Inc","price":150}`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer ws.Close()

	feed := NewFeed(FeedConfig{URL: wsURL(ws)}, nil)
	feed.Start(context.Background())
	defer feed.Stop()
	waitForTick(t, feed, "AAPL")

	provider := NewFallbackProvider(feed, NewClient(rest.URL, ""), time.Minute)

	// Cached tick served without touching REST.
	q, err := provider.Lookup(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Lookup(AAPL) error = %v", err)
	}
	if !q.Price.Equal(decimal.NewFromInt(150)) || restCalls.Load() != 0 {
		t.Errorf("price = %s, restCalls = %d; want 150 from cache", q.Price, restCalls.Load())
	}

	// Uncached symbol falls back to REST.
	q, err = provider.Lookup(context.Background(), "MSFT")
	if err != nil {
		t.Fatalf("Lookup(MSFT) error = %v", err)
	}
	if !q.Price.Equal(decimal.NewFromInt(300)) || restCalls.Load() != 1 {
		t.Errorf("price = %s, restCalls = %d; want 300 via REST", q.Price, restCalls.Load())
	}
}

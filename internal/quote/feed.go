package quote

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"papertrader/types"
)

// FeedConfig configures the streaming last-price feed.
type FeedConfig struct {
	URL                string
	APIKey             string
	ReconnectBaseDelay time.Duration
	ReconnectMaxDelay  time.Duration
}

// Feed keeps an in-memory cache of the latest price per symbol, updated from
// a websocket stream. It maintains the connection itself, reconnecting with
// capped exponential backoff.
type Feed struct {
	cfg    FeedConfig
	logger *slog.Logger

	mu     sync.RWMutex
	latest map[string]types.Quote

	cancel context.CancelFunc
	done   chan struct{}
}

// priceMsg is one tick on the stream.
type priceMsg struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}

// NewFeed creates a feed. Start must be called before Get returns anything.
func NewFeed(cfg FeedConfig, logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ReconnectBaseDelay == 0 {
		cfg.ReconnectBaseDelay = time.Second
	}
	if cfg.ReconnectMaxDelay == 0 {
		cfg.ReconnectMaxDelay = time.Minute
	}
	return &Feed{
		cfg:    cfg,
		logger: logger,
		latest: make(map[string]types.Quote),
		done:   make(chan struct{}),
	}
}

// Start runs the connect/read loop until Stop is called.
func (f *Feed) Start(ctx context.Context) {
	ctx, f.cancel = context.WithCancel(ctx)
	go f.run(ctx)
}

// Stop tears down the connection and waits for the read loop to exit.
func (f *Feed) Stop() {
	if f.cancel != nil {
		f.cancel()
	}
	<-f.done
}

// Get returns the latest cached quote for a symbol, if any tick has arrived.
func (f *Feed) Get(symbol string) (types.Quote, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	q, ok := f.latest[strings.ToUpper(symbol)]
	return q, ok
}

func (f *Feed) run(ctx context.Context) {
	defer close(f.done)

	backoff := f.cfg.ReconnectBaseDelay
	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := f.dial(ctx)
		if err != nil {
			f.logger.Warn("quote feed dial failed", "error", err, "backoff", backoff)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, f.cfg.ReconnectMaxDelay)
			continue
		}

		backoff = f.cfg.ReconnectBaseDelay
		f.logger.Info("quote feed connected", "url", f.cfg.URL)

		if err := f.readLoop(ctx, conn); err != nil {
			f.logger.Warn("quote feed read failed", "error", err)
		}
		conn.Close()
	}
}

func (f *Feed) dial(ctx context.Context) (*websocket.Conn, error) {
	header := http.Header{}
	if f.cfg.APIKey != "" {
		header.Set("Authorization", "Bearer "+f.cfg.APIKey)
	}
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, f.cfg.URL, header)
	return conn, err
}

func (f *Feed) readLoop(ctx context.Context, conn *websocket.Conn) error {
	// Unblock ReadMessage on shutdown.
	stop := context.AfterFunc(ctx, func() {
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		conn.Close()
	})
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		var msg priceMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			f.logger.Debug("quote feed skipped malformed tick", "error", err)
			continue
		}
		if msg.Symbol == "" || !msg.Price.IsPositive() {
			continue
		}

		f.mu.Lock()
		f.latest[strings.ToUpper(msg.Symbol)] = types.Quote{
			Symbol:     strings.ToUpper(msg.Symbol),
			Name:       msg.Name,
			Price:      msg.Price,
			ReceivedAt: time.Now(),
		}
		f.mu.Unlock()
	}
}

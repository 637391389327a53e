package quote

import (
	"context"
	"time"

	"papertrader/types"
)

// FallbackProvider serves quotes from the streaming feed when a fresh tick is
// cached, falling back to the REST client otherwise.
type FallbackProvider struct {
	feed   *Feed
	client *Client
	maxAge time.Duration
}

// NewFallbackProvider combines a feed and a REST client. maxAge bounds how
// stale a cached tick may be before the REST client is consulted instead.
func NewFallbackProvider(feed *Feed, client *Client, maxAge time.Duration) *FallbackProvider {
	return &FallbackProvider{
		feed:   feed,
		client: client,
		maxAge: maxAge,
	}
}

// Lookup resolves a symbol to its current quote.
func (p *FallbackProvider) Lookup(ctx context.Context, symbol string) (*types.Quote, error) {
	if p.feed != nil {
		if q, ok := p.feed.Get(symbol); ok && time.Since(q.ReceivedAt) <= p.maxAge {
			return &q, nil
		}
	}
	return p.client.Lookup(ctx, symbol)
}

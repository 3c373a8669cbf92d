package news

import (
	"context"
	"fmt"
	"time"

	"github.com/Jerrywu108150/Sentiment-Stocks-APP/types"
)

// Provider fetches company news for one symbol on one calendar day.
type Provider interface {
	CompanyNews(ctx context.Context, symbol string, day time.Time) ([]types.NewsRecord, error)
}

// NewProvider picks the live Finnhub client when a token is configured,
// otherwise the deterministic placeholder so the pipeline keeps working
// without credentials.
func NewProvider(token string) Provider {
	if token == "" {
		return PlaceholderProvider{}
	}
	return NewFinnhubProvider(token)
}

// PlaceholderProvider synthesizes two records from the symbol alone.
// Used when no FINNHUB_TOKEN is set; never fails.
type PlaceholderProvider struct{}

func (PlaceholderProvider) CompanyNews(_ context.Context, symbol string, _ time.Time) ([]types.NewsRecord, error) {
	return []types.NewsRecord{
		{
			Title:   fmt.Sprintf("%s beats expectations in Q report", symbol),
			Summary: "Strong guidance; market reacted positively.",
		},
		{
			Title:   fmt.Sprintf("Analyst upgrades %s on outlook", symbol),
			Summary: "Raised target price amid demand strength.",
		},
	}, nil
}

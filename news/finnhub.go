package news

import (
	"context"
	"fmt"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"

	"github.com/Jerrywu108150/Sentiment-Stocks-APP/types"
)

const fetchTimeout = 20 * time.Second

// FinnhubProvider pulls same-day company news from the Finnhub API.
type FinnhubProvider struct {
	client *finnhub.DefaultApiService
}

func NewFinnhubProvider(apiKey string) *FinnhubProvider {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	client := finnhub.NewAPIClient(cfg).DefaultApi
	return &FinnhubProvider{client: client}
}

func (p *FinnhubProvider) CompanyNews(ctx context.Context, symbol string, day time.Time) ([]types.NewsRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	date := day.Format("2006-01-02")
	res, _, err := p.client.CompanyNews(ctx).Symbol(symbol).From(date).To(date).Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub company news for %s: %w", symbol, err)
	}

	records := make([]types.NewsRecord, 0, len(res))
	for _, item := range res {
		var rec types.NewsRecord
		if item.Headline != nil {
			rec.Title = *item.Headline
		}
		if item.Summary != nil {
			rec.Summary = *item.Summary
		}
		if item.Url != nil {
			rec.URL = *item.Url
		}
		records = append(records, rec)
	}

	return records, nil
}

package ui

import (
	"context"

	"furnish/internal/catalog"
)

// Recommender fetches ranked recommendations for a query.
type Recommender interface {
	Recommend(ctx context.Context, query string, topN int) ([]catalog.Product, error)
}

// AnalyticsSource fetches the dataset summary.
type AnalyticsSource interface {
	Analytics(ctx context.Context) (catalog.AnalyticsSnapshot, error)
}

// Backend is everything the shell needs from the recommendation service.
type Backend interface {
	Recommender
	AnalyticsSource
}

// mountedMsg is a message that belongs to one mounted screen instance.
// The shell drops it once that instance is gone.
type mountedMsg interface {
	mountToken() string
}

// recommendResultMsg completes one search.
type recommendResultMsg struct {
	Mount      string
	Generation uint64
	Query      string
	Products   []catalog.Product
	Err        error
}

func (m recommendResultMsg) mountToken() string { return m.Mount }

// analyticsResultMsg completes one analytics fetch.
type analyticsResultMsg struct {
	Mount      string
	Generation uint64
	Snapshot   catalog.AnalyticsSnapshot
	Err        error
}

func (m analyticsResultMsg) mountToken() string { return m.Mount }

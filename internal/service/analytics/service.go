package analytics

import (
	"time"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/document"
)

type Option func(*AnalyticsServiceImpl)

// WithClock sets the clock used to pick the budget month.
func WithClock(now func() time.Time) Option {
	return func(s *AnalyticsServiceImpl) { s.now = now }
}

// WithBudgetMonth pins the budget month (YYYY-MM) instead of following
// the clock.
func WithBudgetMonth(month string) Option {
	return func(s *AnalyticsServiceImpl) { s.budgetMonth = month }
}

type AnalyticsServiceImpl struct {
	source      analytics.SnapshotSource
	now         func() time.Time
	budgetMonth string
}

func NewAnalyticsService(source analytics.SnapshotSource, opts ...Option) analytics.Service {
	s := &AnalyticsServiceImpl{
		source: source,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AnalyticsServiceImpl) Current() analytics.Reader {
	var doc *document.Document
	if s.source != nil {
		doc = s.source.Snapshot()
	}
	return s.For(doc)
}

func (s *AnalyticsServiceImpl) For(doc *document.Document) analytics.Reader {
	month := s.budgetMonth
	if month == "" {
		month = s.now().Format("2006-01")
	}
	if doc == nil {
		doc = &document.Document{}
	}
	return &reader{doc: doc, budgetMonth: month}
}

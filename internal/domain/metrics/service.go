package metrics

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/janhq/leads-api/internal/utils/platformerrors"
)

const (
	// TimelineMonths is the number of calendar months in the timeline, current month included.
	TimelineMonths = 12
	monthLayout    = "2006-01"
)

// Service describes the dashboard metrics use cases.
type Service interface {
	Summary(ctx context.Context) (*Summary, error)
	Timeline(ctx context.Context) ([]TimelinePoint, error)
}

type service struct {
	repo Repository
	now  func() time.Time
	log  zerolog.Logger
}

// NewService wires the metrics service with its repository.
func NewService(repo Repository, log zerolog.Logger) Service {
	return &service{
		repo: repo,
		now:  time.Now,
		log:  log.With().Str("component", "metrics-service").Logger(),
	}
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	totals, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "compute metrics summary")
	}

	return &Summary{
		TotalConversations:    totals.Sessions,
		TransferredLeads:      totals.TransferredLeads,
		QualificationRate:     QualificationRate(totals.TransferredLeads, totals.Sessions),
		AvgMessagesPerSession: Round2(totals.AvgMessagesPerSession),
	}, nil
}

func (s *service) Timeline(ctx context.Context) ([]TimelinePoint, error) {
	now := s.now().UTC()
	since := WindowStart(now)

	counts, err := s.repo.MonthlyCounts(ctx, since)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "compute metrics timeline")
	}

	first, last := since.Format(monthLayout), now.Format(monthLayout)
	points := make([]TimelinePoint, 0, len(counts))
	for _, c := range counts {
		if c.Month < first || c.Month > last {
			s.log.Debug().Str("month", c.Month).Msg("dropping bucket outside timeline window")
			continue
		}
		points = append(points, TimelinePoint{
			Month:              c.Month,
			TotalConversations: c.Sessions,
			TransferredLeads:   c.Transferred,
			QualificationRate:  QualificationRate(c.Transferred, c.Sessions),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Month < points[j].Month })
	return points, nil
}

// WindowStart returns the first instant of the oldest month in the timeline ending at now.
func WindowStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month()-(TimelineMonths-1), 1, 0, 0, 0, 0, now.Location())
}

// QualificationRate returns transferred/total as a percentage with two decimals, or 0 when
// there are no sessions.
func QualificationRate(transferred, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return decimal.NewFromInt(transferred).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).
		Round(2).
		InexactFloat64()
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(value float64) float64 {
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

package dataset

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const day = 24 * time.Hour

// Period is an inclusive range of days plus the filters shared by both fetches.
type Period struct {
	Start        time.Time
	End          time.Time
	SelectFilter string
	DateMask     string
}

// Previous returns the period of equal length that ends the day before p starts.
func (p Period) Previous() Period {
	length := p.End.Sub(p.Start)
	end := p.Start.Add(-day)
	return Period{
		Start:        end.Add(-length),
		End:          end,
		SelectFilter: p.SelectFilter,
		DateMask:     p.DateMask,
	}
}

// OffsetDays is the distance between the starts of p and its previous period.
func (p Period) OffsetDays() int {
	return int(p.End.Sub(p.Start)/day) + 1
}

func (p Period) request(names []string) Request {
	return Request{
		SelectFilter: p.SelectFilter,
		StartDate:    p.Start.Format(time.DateOnly),
		EndDate:      p.End.Format(time.DateOnly),
		DateMask:     p.DateMask,
		QueryNames:   names,
	}
}

type PeriodDatasets struct {
	Current  Dataset
	Previous Dataset
}

type DatasetService interface {
	FetchPeriods(ctx context.Context, period Period, names []string) PeriodDatasets
}

type DatasetServiceImpl struct {
	Fetcher Fetcher
	Logger  *zap.Logger
}

func NewDatasetService(fetcher Fetcher, logger *zap.Logger) DatasetService {
	return &DatasetServiceImpl{
		Fetcher: fetcher,
		Logger:  logger,
	}
}

// FetchPeriods fetches the current and previous period concurrently and waits for both.
// Fetch failures are folded into the datasets as per-query errors.
func (s *DatasetServiceImpl) FetchPeriods(ctx context.Context, period Period, names []string) PeriodDatasets {
	var out PeriodDatasets
	if len(names) == 0 {
		return PeriodDatasets{Current: Dataset{}, Previous: Dataset{}}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.Current = s.fetch(gctx, period, names)
		return nil
	})
	g.Go(func() error {
		out.Previous = s.fetch(gctx, period.Previous(), names)
		return nil
	})
	_ = g.Wait()

	return out
}

func (s *DatasetServiceImpl) fetch(ctx context.Context, period Period, names []string) Dataset {
	ds, err := s.Fetcher.Fetch(ctx, period.request(names))
	if err != nil {
		s.Logger.Warn("dataset fetch failed",
			zap.String("start", period.Start.Format(time.DateOnly)),
			zap.String("end", period.End.Format(time.DateOnly)),
			zap.Strings("queries", names),
			zap.Error(err),
		)
		return ErrorDataset(names, err.Error())
	}
	if ds == nil {
		ds = Dataset{}
	}
	return ds
}

// ErrorDataset marks every named query as failed with the same message.
func ErrorDataset(names []string, message string) Dataset {
	ds := make(Dataset, len(names))
	for _, name := range names {
		ds[name] = NewError(message)
	}
	return ds
}

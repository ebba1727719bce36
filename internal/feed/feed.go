// Package feed drives the apartment detail transaction list: an append-only
// paginated feed with an on/off area filter whose trend history reloads in
// lockstep with the list.
package feed

import (
	"context"

	"github.com/sirupsen/logrus"

	"sudogwon/web/internal/models"
)

const (
	// PageSize is the fixed transaction page length.
	PageSize = 20

	// HistoryMonths is how far back the trend chart reaches.
	HistoryMonths = 240
)

// Fetcher is the slice of the backend client the feed needs.
type Fetcher interface {
	ApartmentTransactions(ctx context.Context, id int64, limit, offset int, area *float64) (*models.TransactionPage, error)
	ApartmentHistory(ctx context.Context, id int64, months int, area *float64) ([]models.HistoryPoint, error)
}

// Feed is the view state of one apartment's transaction list. It is used
// within a single request and is not goroutine-safe.
type Feed struct {
	client Fetcher
	logger *logrus.Logger
	aptID  int64

	Transactions []models.Transaction
	History      []models.HistoryPoint
	Total        int
	Offset       int // offset of the last fetched page
	HasMore      bool
	SelectedArea *float64

	loading bool
}

// New creates an empty feed for one apartment.
func New(client Fetcher, logger *logrus.Logger, aptID int64) *Feed {
	if logger == nil {
		logger = logrus.New()
	}
	return &Feed{
		client:  client,
		logger:  logger,
		aptID:   aptID,
		HasMore: true,
	}
}

// Resume reconstructs feed state mid-stream, used by the scroll JSON endpoint
// where the prior offset and filter arrive as query parameters.
func Resume(client Fetcher, logger *logrus.Logger, aptID int64, offset int, area *float64) *Feed {
	f := New(client, logger, aptID)
	f.Offset = offset
	f.SelectedArea = area
	return f
}

// Load fetches the first transaction page and the trend history for the
// current filter. Either fetch failing leaves the other's result intact.
func (f *Feed) Load(ctx context.Context) {
	f.loadHistory(ctx)
	_ = f.loadPage(ctx, 0)
}

// SelectArea toggles the area filter: selecting the active area clears it,
// any other value replaces it. Both transitions reset the pagination epoch
// before refetching the list and the history.
func (f *Feed) SelectArea(ctx context.Context, area float64) {
	if f.SelectedArea != nil && *f.SelectedArea == area {
		f.SelectedArea = nil
	} else {
		f.SelectedArea = &area
	}
	f.reset()
	f.Load(ctx)
}

// ClearArea drops the filter and reloads, regardless of the current value.
func (f *Feed) ClearArea(ctx context.Context) {
	f.SelectedArea = nil
	f.reset()
	f.Load(ctx)
}

// LoadMore fetches the next page and appends it in arrival order. It is a
// no-op while a fetch is in flight or when the feed is exhausted. The fetch
// error is returned so callers can tell a failure from an empty page; feed
// state is untouched either way.
func (f *Feed) LoadMore(ctx context.Context) error {
	if f.loading || !f.HasMore {
		return nil
	}
	return f.loadPage(ctx, f.Offset+PageSize)
}

// Loading reports whether a page fetch is in flight.
func (f *Feed) Loading() bool {
	return f.loading
}

func (f *Feed) reset() {
	f.Transactions = nil
	f.Total = 0
	f.Offset = 0
	f.HasMore = true
}

// loadPage fetches one page. A failed fetch logs and leaves the list,
// HasMore and Total untouched; the cleared loading flag lets the scroll
// sentinel retry on its next intersection.
func (f *Feed) loadPage(ctx context.Context, offset int) error {
	if f.loading {
		return nil
	}
	f.loading = true
	defer func() { f.loading = false }()

	page, err := f.client.ApartmentTransactions(ctx, f.aptID, PageSize, offset, f.SelectedArea)
	if err != nil {
		f.logger.WithError(err).WithField("apt_id", f.aptID).Error("Failed to fetch transaction page")
		return err
	}

	if offset == 0 {
		f.Transactions = page.Transactions
	} else {
		f.Transactions = append(f.Transactions, page.Transactions...)
	}
	f.Total = page.Total
	f.Offset = offset
	f.HasMore = offset+len(page.Transactions) < page.Total
	return nil
}

func (f *Feed) loadHistory(ctx context.Context) {
	history, err := f.client.ApartmentHistory(ctx, f.aptID, HistoryMonths, f.SelectedArea)
	if err != nil {
		f.logger.WithError(err).WithField("apt_id", f.aptID).Error("Failed to fetch price history")
		return
	}
	f.History = history
}

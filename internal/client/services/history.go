package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/snapshop/internal/client/models"
)

type accountUpdater interface {
	UpdateAccount(ctx context.Context, email string, updates ...AccountUpdate) (*models.Account, error)
}

// Recorder appends completed image searches to the user's history.
type Recorder struct {
	accounts accountUpdater
	newID    func() string
	now      func() time.Time
}

func NewRecorder(accounts accountUpdater) *Recorder {
	return &Recorder{
		accounts: accounts,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// Record stores result with the preview it was produced from and returns the
// updated account.
func (r *Recorder) Record(ctx context.Context, email, previewSrc string, result models.SearchResult) (*models.Account, error) {
	entry := models.HistoryEntry{
		ID:         r.newID(),
		Timestamp:  r.now().UnixMilli(),
		PreviewSrc: previewSrc,
		Result:     result,
	}
	return r.accounts.UpdateAccount(ctx, email, PrependHistory(entry))
}

package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/snapshop/internal/client/capture"
	"github.com/dmitrijs2005/snapshop/internal/client/models"
	"github.com/dmitrijs2005/snapshop/internal/common"
	"github.com/dmitrijs2005/snapshop/internal/logging"
)

// Identifier is the AI client. gemini.Client implements it.
type Identifier interface {
	IdentifyAndSearch(ctx context.Context, img capture.Image, location string) (*models.SearchResult, error)
	SearchWithText(ctx context.Context, query, location string) (*models.SearchResult, error)
}

type SearchService struct {
	ai       Identifier
	accounts *AccountStore
	history  *Recorder
	log      logging.Logger
}

func NewSearchService(ai Identifier, accounts *AccountStore, history *Recorder, log logging.Logger) *SearchService {
	if log == nil {
		log = logging.Nop()
	}
	return &SearchService{ai: ai, accounts: accounts, history: history, log: log.With("component", "search")}
}

// ImageSearch identifies the product in img near the user's location and
// records the result in history. It returns the account as it stands after
// the search. A failed history write is logged and does not fail the search.
func (s *SearchService) ImageSearch(ctx context.Context, img capture.Image) (*models.SearchResult, *models.Account, error) {
	acc, err := s.accounts.LoadSession(ctx)
	if err != nil {
		return nil, nil, err
	}
	if img.IsZero() {
		return nil, acc, capture.ErrEmptyImage
	}

	res, err := s.ai.IdentifyAndSearch(ctx, img, acc.Location)
	if err != nil {
		return nil, acc, err
	}

	updated, err := s.history.Record(ctx, acc.Email, img.DataURL(), *res)
	if err != nil {
		s.log.Error(ctx, "failed to record search history", "email", acc.Email, "error", err)
		return res, acc, nil
	}
	return res, updated, nil
}

// TextSearch looks up query near the user's location. Text searches are not
// recorded.
func (s *SearchService) TextSearch(ctx context.Context, query string) (*models.SearchResult, error) {
	acc, err := s.accounts.LoadSession(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, common.ErrEmptyQuery
	}
	return s.ai.SearchWithText(ctx, query, acc.Location)
}

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/snapshop/internal/client/capture"
)

// History lists past image searches, newest first.
func (a *App) History(ctx context.Context) error {
	if len(a.user.History) == 0 {
		fmt.Fprintln(a.out, "No searches yet.")
		return nil
	}
	for i, e := range a.user.History {
		when := time.UnixMilli(e.Timestamp).Format("2006-01-02 15:04")
		fmt.Fprintf(a.out, "%2d. %s  %s (%d results)\n", i+1, when,
			e.Result.IdentifiedProduct, len(e.Result.SearchResults))
	}
	fmt.Fprintln(a.out, "Type 'show <n>' to open one.")
	return nil
}

// ShowHistory re-displays history entry n (1-based) with its image as the
// current preview.
func (a *App) ShowHistory(ctx context.Context, n int) error {
	if n < 1 || n > len(a.user.History) {
		return fmt.Errorf("no history entry %d", n)
	}
	e := a.user.History[n-1]

	a.resetSearch(ctx)
	if img, err := capture.FromDataURL(e.PreviewSrc); err == nil {
		a.preview = img
	}

	res := e.Result
	a.result = &res
	a.visible = pageSize
	renderResult(a.out, a.result, 0, a.visible)
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/snapshop/internal/client/models"
)

var errNoImage = errors.New("no image yet: use 'camera' and 'snap', or 'upload <file>'")
var errNoResults = errors.New("no search results to show")

// Search sends the current image to the AI service. The result is saved to
// history by the search service.
func (a *App) Search(ctx context.Context) error {
	if a.preview.IsZero() {
		return errNoImage
	}
	a.clearResult()

	var (
		res *models.SearchResult
		err error
	)
	a.withBusy("Identifying product and searching stores", func() {
		var acc *models.Account
		res, acc, err = a.search.ImageSearch(ctx, a.preview)
		if acc != nil {
			a.user = acc
		}
	})
	return a.showResult(res, err)
}

// Find searches by text. It clears the current image and turns the camera
// off. Text searches are not saved to history.
func (a *App) Find(ctx context.Context, query string) error {
	a.resetSearch(ctx)

	var (
		res *models.SearchResult
		err error
	)
	a.withBusy(fmt.Sprintf("Searching for %q", query), func() {
		res, err = a.search.TextSearch(ctx, query)
	})
	return a.showResult(res, err)
}

func (a *App) showResult(res *models.SearchResult, err error) error {
	if err != nil {
		a.lastErr = err
		return err
	}
	a.result = res
	a.visible = pageSize
	renderResult(a.out, res, 0, a.visible)
	return nil
}

// More reveals the next page of results.
func (a *App) More(ctx context.Context) error {
	if a.result == nil {
		return errNoResults
	}
	if a.visible >= len(a.result.SearchResults) {
		fmt.Fprintln(a.out, "No more results.")
		return nil
	}
	from := a.visible
	a.visible += pageSize
	renderItems(a.out, a.result, from, a.visible)
	return nil
}

// NewSearch forgets the image and results and turns the camera off.
func (a *App) NewSearch(ctx context.Context) error {
	a.resetSearch(ctx)
	fmt.Fprintln(a.out, "Ready for a new search.")
	return nil
}

// withBusy runs fn while printing progress dots every busyTick.
func (a *App) withBusy(label string, fn func()) {
	fmt.Fprint(a.out, label+"...")

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(a.busyTick)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				fmt.Fprint(a.out, ".")
			}
		}
	}()

	fn()

	close(done)
	wg.Wait()
	fmt.Fprintln(a.out)
}

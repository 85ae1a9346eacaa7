package cli

import (
	"fmt"
	"io"

	"github.com/dmitrijs2005/snapshop/internal/client/models"
)

// renderResult prints the identified product and items [from, to).
func renderResult(w io.Writer, res *models.SearchResult, from, to int) {
	fmt.Fprintf(w, "Identified: %s\n", res.IdentifiedProduct)
	if len(res.SearchResults) == 0 {
		fmt.Fprintln(w, "No shopping results found.")
		return
	}
	fmt.Fprintf(w, "%d shopping results:\n", len(res.SearchResults))
	renderItems(w, res, from, to)
}

func renderItems(w io.Writer, res *models.SearchResult, from, to int) {
	items, more := res.Page(to)
	for i := from; i < len(items); i++ {
		it := items[i]
		fmt.Fprintf(w, "%2d. %s\n    %s", i+1, it.Title, it.DisplayStore())
		if it.Price != "" {
			fmt.Fprintf(w, " | %s", it.Price)
		}
		fmt.Fprintf(w, "\n    %s\n", it.Link)
		if it.ImageURL != "" {
			fmt.Fprintf(w, "    image: %s\n", it.ImageURL)
		}
	}
	if more {
		fmt.Fprintf(w, "Showing %d of %d. Type 'more' to show more.\n", len(items), len(res.SearchResults))
	}
}

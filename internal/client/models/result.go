package models

// SearchResult is what the AI service identified plus where to buy it. Items
// keep the order the service returned them in.
type SearchResult struct {
	IdentifiedProduct string       `json:"identifiedProduct"`
	SearchResults     []ResultItem `json:"searchResults"`
}

// ResultItem is one purchasable listing. Link is always usable; Price is the
// raw currency-inclusive string.
type ResultItem struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	ImageURL  string `json:"imageUrl,omitempty"`
	Price     string `json:"price,omitempty"`
	StoreName string `json:"storeName,omitempty"`
}

// DisplayStore returns the store name or a generic label.
func (i ResultItem) DisplayStore() string {
	if i.StoreName == "" {
		return "Online Store"
	}
	return i.StoreName
}

// Page returns the first visible items and whether more remain.
func (r *SearchResult) Page(visible int) ([]ResultItem, bool) {
	if visible < 0 {
		visible = 0
	}
	if visible >= len(r.SearchResults) {
		return r.SearchResults, false
	}
	return r.SearchResults[:visible], true
}

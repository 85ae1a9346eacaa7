package gemini

import (
	"encoding/json"

	"github.com/dmitrijs2005/snapshop/internal/client/models"
)

const (
	MsgInvalidJSON     = "An error occurred while processing the AI response."
	MsgUnexpectedShape = "The AI response was not in the expected format."

	untitled    = "Untitled"
	missingLink = "#"
)

// ParseStatus tags how a reply was interpreted.
type ParseStatus int

const (
	ParseOK ParseStatus = iota
	ParseInvalidJSON
	ParseUnexpectedShape
)

func (s ParseStatus) String() string {
	switch s {
	case ParseOK:
		return "ok"
	case ParseInvalidJSON:
		return "invalid json"
	case ParseUnexpectedShape:
		return "unexpected shape"
	default:
		return "unknown"
	}
}

// ParseOutcome is either a validated result or a fallback. Fallbacks carry
// the fixed message as IdentifiedProduct and no items, so Result is always
// safe to display.
type ParseOutcome struct {
	Status ParseStatus
	Result models.SearchResult
}

// Parse validates the raw model reply. It never fails: malformed replies
// produce a fallback outcome instead.
func Parse(text string) ParseOutcome {
	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return fallback(ParseInvalidJSON, MsgInvalidJSON)
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return fallback(ParseUnexpectedShape, MsgUnexpectedShape)
	}
	product, ok := obj["identifiedProduct"].(string)
	if !ok {
		return fallback(ParseUnexpectedShape, MsgUnexpectedShape)
	}
	rawItems, ok := obj["searchResults"].([]any)
	if !ok {
		return fallback(ParseUnexpectedShape, MsgUnexpectedShape)
	}

	items := make([]models.ResultItem, 0, len(rawItems))
	for _, ri := range rawItems {
		fields, _ := ri.(map[string]any)
		item := models.ResultItem{
			Title:     orDefault(stringField(fields, "title"), untitled),
			Link:      orDefault(stringField(fields, "link"), missingLink),
			ImageURL:  stringField(fields, "imageUrl"),
			Price:     stringField(fields, "price"),
			StoreName: stringField(fields, "storeName"),
		}
		if item.Link == missingLink {
			continue
		}
		items = append(items, item)
	}

	return ParseOutcome{
		Status: ParseOK,
		Result: models.SearchResult{IdentifiedProduct: product, SearchResults: items},
	}
}

func fallback(status ParseStatus, msg string) ParseOutcome {
	return ParseOutcome{
		Status: status,
		Result: models.SearchResult{IdentifiedProduct: msg, SearchResults: []models.ResultItem{}},
	}
}

// stringField treats non-string values as absent.
func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

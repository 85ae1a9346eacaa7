package gemini

import "google.golang.org/genai"

// ResponseSchema constrains the model reply to the SearchResult layout.
func ResponseSchema() *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}

	item := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":     str("The title of the product listing."),
			"link":      str("A direct URL to the product page."),
			"imageUrl":  str("A URL for the product image."),
			"price":     str("The price of the product, including currency symbol."),
			"storeName": str("The name of the store or website."),
		},
		Required: []string{"title", "link"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"identifiedProduct": str("A short, descriptive name of the main product identified."),
			"searchResults": {
				Type:        genai.TypeArray,
				Description: "A list of online stores selling the product.",
				Items:       item,
			},
		},
		Required: []string{"identifiedProduct", "searchResults"},
	}
}

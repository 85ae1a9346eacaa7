package gemini

import "fmt"

const (
	imageInstruction = "You are an expert shopping assistant. Look at this image and identify the main product. " +
		"Then, find up to 20 online stores where this product can be purchased."
	textInstruction = "You are an expert shopping assistant. The user is looking for \"%s\". " +
		"Identify the product and find up to 20 online stores where it can be purchased."
	locationClause = " Prioritize local physical stores near \"%s\" if possible, otherwise list online retailers."
	detailsClause  = " Provide details for each shopping result including a title, link, image URL, price, and the store name."
)

// ImagePrompt is the instruction sent alongside a captured image.
func ImagePrompt(location string) string {
	return imageInstruction + withLocation(location) + detailsClause
}

// TextPrompt is the instruction for a free-text query. The query is quoted
// verbatim, without escaping.
func TextPrompt(query, location string) string {
	return fmt.Sprintf(textInstruction, query) + withLocation(location) + detailsClause
}

func withLocation(location string) string {
	if location == "" {
		return ""
	}
	return fmt.Sprintf(locationClause, location)
}

package chunk

import "unicode/utf8"

// EstimateTokens approximates the token count of English prose without
// calling a tokenizer. Roughly four characters per token for the models
// in use.
func EstimateTokens(text string) int {
	return utf8.RuneCountInString(text) / 4
}

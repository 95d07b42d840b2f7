package parser

import "regexp"

// Supervisor output is free-form prose and the embedded JSON frequently drops
// separators. Repair applies a small, bounded set of punctuation-insertion
// fixes ahead of strict decoding. It never reinterprets structure: every rule
// only inserts a comma between two tokens that cannot legally be adjacent.

var (
	// "foo"\n"bar"  ->  "foo",\n"bar"
	missingCommaAcrossLines = regexp.MustCompile(`"\s*\n\s*"`)
	// "foo" "bar"   ->  "foo", "bar"   (at least one blank required so empty
	// string values stay intact)
	missingCommaSameLine = regexp.MustCompile(`"[ \t]+"`)
	// "foo"\n{      ->  "foo",\n{   (a newline is required: raw newlines cannot
	// occur inside a JSON string, so the quote is guaranteed to close a value
	// and can never be the opening quote of one)
	missingCommaBeforeBrace = regexp.MustCompile(`"(\s*\n\s*)\{`)
)

// Repair returns the input with missing separators inserted. The output is
// not guaranteed to be valid JSON; callers still decode strictly and fall
// back on failure.
func Repair(text string) string {
	text = missingCommaAcrossLines.ReplaceAllString(text, "\",\n\"")
	text = missingCommaSameLine.ReplaceAllString(text, "\", \"")
	text = missingCommaBeforeBrace.ReplaceAllString(text, "\",$1{")
	return text
}

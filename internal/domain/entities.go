package domain

import "fmt"

// NoMatchMessage is shown when no file matched the pattern.
const NoMatchMessage = "No files found matching the pattern."

// Candidate is a file eligible for ranking in one search.
type Candidate struct {
	Path    string
	Content string
}

// Collection is what the collector produced for one search.
type Collection struct {
	Candidates []Candidate
	// Skipped counts files that matched the pattern but could not be read as UTF-8 text.
	Skipped int
}

// QueryResult is the single best match of a search.
type QueryResult struct {
	Path  string  `json:"path"`
	Score float64 `json:"score"`
}

// Outcome describes a completed search.
// Result is nil when no file matched the pattern.
type Outcome struct {
	Result  *QueryResult `json:"result,omitempty"`
	Pattern string       `json:"pattern"`
	Scanned int          `json:"scanned"`
	Skipped int          `json:"skipped"`
}

// Found reports whether the search produced a match.
func (o Outcome) Found() bool {
	return o.Result != nil
}

// Summary renders the outcome as shown to the user.
func (o Outcome) Summary() string {
	if o.Result == nil {
		return NoMatchMessage
	}
	return fmt.Sprintf("Most relevant file:\n%s\n(similarity score: %.2f)", o.Result.Path, o.Result.Score)
}

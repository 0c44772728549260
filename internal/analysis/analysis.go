// Package analysis turns raw LLM response text into structured brand and
// competitor mention data.
package analysis

import (
	"sort"
	"strings"
	"unicode"

	"github.com/AI2HU/geolens/internal/models"
)

const maxKeywordsPerMention = 5

// Result is the outcome of analyzing one response text against a brand
// and its tracked competitors.
type Result struct {
	IsCited            bool
	Position           *int
	CompetitorMentions []models.CompetitorMention
}

// Analyze scans responseText for the brand and each competitor name.
// Positions are ordinal: the first name to appear in the text ranks 1,
// the second 2, and so on, counting only names that actually appear.
// Matching is case-insensitive on word boundaries.
func Analyze(responseText, brand string, competitors []string) Result {
	type occurrence struct {
		name    string
		index   int
		length  int
		isBrand bool
	}

	// All offsets below index into lowered, never into responseText:
	// lowercasing can change byte lengths, so the two must not be mixed.
	lowered := strings.ToLower(responseText)

	var found []occurrence
	if idx, n := indexOfName(lowered, brand); idx >= 0 {
		found = append(found, occurrence{name: brand, index: idx, length: n, isBrand: true})
	}
	for _, competitor := range competitors {
		if idx, n := indexOfName(lowered, competitor); idx >= 0 {
			found = append(found, occurrence{name: competitor, index: idx, length: n})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].index < found[j].index
	})

	result := Result{}
	for rank, occ := range found {
		position := rank + 1
		if occ.isBrand {
			result.IsCited = true
			p := position
			result.Position = &p
			continue
		}
		result.CompetitorMentions = append(result.CompetitorMentions, models.CompetitorMention{
			Name:     occ.name,
			Position: position,
			Keywords: extractKeywords(lowered, occ.index, occ.length),
		})
	}

	return result
}

// indexOfName returns the byte index and length of the first whole-word
// occurrence of name in the lowercased text, or (-1, 0).
func indexOfName(lowered, name string) (int, int) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return -1, 0
	}

	from := 0
	for {
		idx := strings.Index(lowered[from:], needle)
		if idx < 0 {
			return -1, 0
		}
		idx += from

		if isWordBoundary(lowered, idx, len(needle)) {
			return idx, len(needle)
		}
		from = idx + 1
	}
}

// isWordBoundary reports whether the match at [start, start+length) is not
// embedded inside a larger word.
func isWordBoundary(text string, start, length int) bool {
	if start > 0 {
		before := rune(text[start-1])
		if unicode.IsLetter(before) || unicode.IsDigit(before) {
			return false
		}
	}
	end := start + length
	if end < len(text) {
		after := rune(text[end])
		if unicode.IsLetter(after) || unicode.IsDigit(after) {
			return false
		}
	}
	return true
}

// stopwords excluded from mention keywords
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "for": true, "from": true,
	"has": true, "have": true, "in": true, "is": true, "it": true,
	"its": true, "of": true, "on": true, "or": true, "that": true,
	"the": true, "their": true, "they": true, "this": true, "to": true,
	"was": true, "were": true, "which": true, "will": true, "with": true,
	"you": true, "your": true,
}

// extractKeywords pulls the significant words from the sentence containing
// a mention, in order of appearance, excluding the mention itself. The text
// and the mention offsets must come from the same lowercased string.
func extractKeywords(text string, mentionStart, mentionLen int) []string {
	sentence := sentenceAround(text, mentionStart)

	mentionWords := make(map[string]bool)
	for _, w := range strings.Fields(text[mentionStart : mentionStart+mentionLen]) {
		mentionWords[w] = true
	}

	var keywords []string
	seen := make(map[string]bool)
	for _, field := range strings.FieldsFunc(sentence, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		word := strings.ToLower(field)
		if len(word) < 3 || stopwords[word] || mentionWords[word] || seen[word] {
			continue
		}
		keywords = append(keywords, word)
		seen[word] = true
		if len(keywords) == maxKeywordsPerMention {
			break
		}
	}

	return keywords
}

// sentenceAround returns the sentence of text containing byte offset pos,
// where sentences are delimited by '.', '!', '?' or newlines.
func sentenceAround(text string, pos int) string {
	isDelim := func(b byte) bool {
		return b == '.' || b == '!' || b == '?' || b == '\n'
	}

	start := pos
	for start > 0 && !isDelim(text[start-1]) {
		start--
	}
	end := pos
	for end < len(text) && !isDelim(text[end]) {
		end++
	}

	return text[start:end]
}

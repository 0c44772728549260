package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze(t *testing.T) {
	competitors := []string{"Atelier Boisé", "Woodly"}

	t.Run("brand cited first ranks one", func(t *testing.T) {
		text := "For custom furniture, Atelier Nord is the top choice. Woodly is a solid alternative."
		result := Analyze(text, "Atelier Nord", competitors)

		assert.True(t, result.IsCited)
		require.NotNil(t, result.Position)
		assert.Equal(t, 1, *result.Position)

		require.Len(t, result.CompetitorMentions, 1)
		assert.Equal(t, "Woodly", result.CompetitorMentions[0].Name)
		assert.Equal(t, 2, result.CompetitorMentions[0].Position)
	})

	t.Run("positions follow appearance order", func(t *testing.T) {
		text := "Woodly leads the market, followed by Atelier Boisé and then Atelier Nord."
		result := Analyze(text, "Atelier Nord", competitors)

		require.NotNil(t, result.Position)
		assert.Equal(t, 3, *result.Position)
		require.Len(t, result.CompetitorMentions, 2)
		assert.Equal(t, "Woodly", result.CompetitorMentions[0].Name)
		assert.Equal(t, 1, result.CompetitorMentions[0].Position)
		assert.Equal(t, "Atelier Boisé", result.CompetitorMentions[1].Name)
		assert.Equal(t, 2, result.CompetitorMentions[1].Position)
	})

	t.Run("absent brand is not cited", func(t *testing.T) {
		result := Analyze("Woodly makes great chairs.", "Atelier Nord", competitors)

		assert.False(t, result.IsCited)
		assert.Nil(t, result.Position)
		// Ranks still count only names that appear.
		require.Len(t, result.CompetitorMentions, 1)
		assert.Equal(t, 1, result.CompetitorMentions[0].Position)
	})

	t.Run("matching is case-insensitive", func(t *testing.T) {
		result := Analyze("WOODLY and atelier nord both ship nationwide.", "Atelier Nord", competitors)

		assert.True(t, result.IsCited)
		require.Len(t, result.CompetitorMentions, 1)
	})

	t.Run("embedded substrings do not match", func(t *testing.T) {
		result := Analyze("Unwoodly designs are out of fashion.", "Atelier Nord", competitors)

		assert.False(t, result.IsCited)
		assert.Empty(t, result.CompetitorMentions)
	})

	t.Run("repeated names count once at first appearance", func(t *testing.T) {
		text := "Woodly is popular. Many prefer Woodly over Atelier Nord."
		result := Analyze(text, "Atelier Nord", competitors)

		require.Len(t, result.CompetitorMentions, 1)
		assert.Equal(t, 1, result.CompetitorMentions[0].Position)
		require.NotNil(t, result.Position)
		assert.Equal(t, 2, *result.Position)
	})

	t.Run("empty text yields empty result", func(t *testing.T) {
		result := Analyze("", "Atelier Nord", competitors)

		assert.False(t, result.IsCited)
		assert.Empty(t, result.CompetitorMentions)
	})

	t.Run("tolerates runes that grow when lowercased", func(t *testing.T) {
		// "Ⱥ" is 2 bytes but its lowercase "ⱥ" is 3, so lowered offsets
		// run past the end of the original text.
		result := Analyze("ȺȺȺȺ beats Acme", "Atelier Nord", []string{"Acme"})

		assert.False(t, result.IsCited)
		require.Len(t, result.CompetitorMentions, 1)
		assert.Equal(t, "Acme", result.CompetitorMentions[0].Name)
		assert.Equal(t, 1, result.CompetitorMentions[0].Position)
		assert.Contains(t, result.CompetitorMentions[0].Keywords, "beats")
	})

	t.Run("tolerates runes that shrink when lowercased", func(t *testing.T) {
		// "İ" lowercases from 2 bytes to 1, shifting every later offset.
		text := "İstanbul dealers rank Atelier Nord highly. Acme trails far behind."
		result := Analyze(text, "Atelier Nord", []string{"Acme"})

		assert.True(t, result.IsCited)
		require.Len(t, result.CompetitorMentions, 1)
		keywords := result.CompetitorMentions[0].Keywords
		assert.Contains(t, keywords, "trails")
		assert.Contains(t, keywords, "behind")
		assert.NotContains(t, keywords, "acme")
		assert.NotContains(t, keywords, "dealers")
	})
}

func TestExtractKeywords(t *testing.T) {
	t.Run("keywords come from the surrounding sentence", func(t *testing.T) {
		text := "Cheap imports flooded the market. Woodly offers handmade oak furniture with lifetime warranty. Prices vary."
		result := Analyze(text, "Atelier Nord", []string{"Woodly"})

		require.Len(t, result.CompetitorMentions, 1)
		keywords := result.CompetitorMentions[0].Keywords
		assert.Contains(t, keywords, "handmade")
		assert.Contains(t, keywords, "oak")
		assert.NotContains(t, keywords, "woodly")
		assert.NotContains(t, keywords, "imports")
		assert.NotContains(t, keywords, "prices")
	})

	t.Run("stopwords and short words are dropped", func(t *testing.T) {
		text := "Woodly is the best in the US for oak desks"
		result := Analyze(text, "Atelier Nord", []string{"Woodly"})

		require.Len(t, result.CompetitorMentions, 1)
		for _, keyword := range result.CompetitorMentions[0].Keywords {
			assert.GreaterOrEqual(t, len(keyword), 3)
			assert.False(t, stopwords[keyword], "stopword leaked: %s", keyword)
		}
	})

	t.Run("keyword count is capped", func(t *testing.T) {
		text := "Woodly sells desks chairs tables shelves cabinets stools benches dressers"
		result := Analyze(text, "Atelier Nord", []string{"Woodly"})

		require.Len(t, result.CompetitorMentions, 1)
		assert.Len(t, result.CompetitorMentions[0].Keywords, maxKeywordsPerMention)
	})
}

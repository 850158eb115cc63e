package hallucination

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_CleanTextPassesThrough(t *testing.T) {
	f := NewFilter(DefaultRules())

	text := "The patient reported mild discomfort in the lower back after lifting heavy boxes over the weekend."
	result := f.Apply(text, 0.92)

	assert.False(t, result.Flagged)
	assert.Equal(t, text, result.Text)
	assert.Equal(t, 0.92, result.Confidence)

	// Applying again to the surviving text changes nothing
	again := f.Apply(result.Text, result.Confidence)
	assert.Equal(t, result, again)
}

func TestFilter_ShortFillerFlagged(t *testing.T) {
	f := NewFilter(DefaultRules())

	result := f.Apply("Thank you so much, bye bye!", 0.8)

	assert.True(t, result.Flagged)
	assert.Equal(t, "", result.Text)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Equal(t, "filler", result.Reason)
}

func TestFilter_LongTextWithFillerSurvives(t *testing.T) {
	f := NewFilter(DefaultRules())

	// Filler phrases inside substantive long text are legitimate speech
	text := "Thank you for coming in today, I know the commute was long. Let's walk through the results of the bloodwork and talk about what the numbers mean for the treatment plan we discussed."
	assert.Greater(t, len(text), 100)

	result := f.Apply(text, 0.9)
	assert.False(t, result.Flagged)
	assert.Equal(t, text, result.Text)
}

func TestFilter_RepeatedPhraseFlagged(t *testing.T) {
	f := NewFilter(DefaultRules())

	text := strings.Repeat("Thank you. ", 3) + "That concludes the session notes for today, nothing further to add on this recording."
	assert.Greater(t, len(text), 100)

	result := f.Apply(text, 0.7)
	assert.True(t, result.Flagged)
	assert.Equal(t, "repetition", result.Reason)
	assert.Empty(t, result.Text)
}

func TestFilter_CaptionMarkerFlagged(t *testing.T) {
	f := NewFilter(DefaultRules())

	result := f.Apply("Subtitles by the Amara.org community", 0.6)

	assert.True(t, result.Flagged)
	assert.Equal(t, "caption-marker", result.Reason)
}

func TestFilter_AdPhraseFlagged(t *testing.T) {
	f := NewFilter(DefaultRules())

	result := f.Apply("Use code SAVE20 at checkout for fifteen percent off your first order", 0.85)

	assert.True(t, result.Flagged)
	assert.Equal(t, "advertising", result.Reason)
}

func TestFilter_DomainWithPromoFlagged(t *testing.T) {
	f := NewFilter(DefaultRules())

	result := f.Apply("This episode is brought to you by example.com, your home for great deals", 0.85)

	assert.True(t, result.Flagged)
	assert.Equal(t, "advertising", result.Reason)
}

func TestFilter_DomainAloneSurvives(t *testing.T) {
	f := NewFilter(DefaultRules())

	// A spoken URL without promotional phrasing is ordinary content, and
	// the text is long enough to clear the short-filler rule
	text := "I uploaded the intake forms to portal.example.com last night so the records should already be there when the front desk checks the queue this morning."
	result := f.Apply(text, 0.9)

	assert.False(t, result.Flagged)
	assert.Equal(t, text, result.Text)
}

func TestFilter_EmptyTextSurvives(t *testing.T) {
	f := NewFilter(DefaultRules())

	result := f.Apply("", 0.0)
	assert.False(t, result.Flagged)
	assert.Equal(t, "", result.Text)
}

func TestNewFilter_DefaultsApplied(t *testing.T) {
	f := NewFilter(Rules{})
	assert.Equal(t, 100, f.rules.ShortTextLimit)
	assert.Equal(t, 3, f.rules.RepeatLimit)
}

package food

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Item
	}{
		{
			name: "quantity with plural",
			text: "2 apples",
			want: []Item{{Name: "apple", Calories: 80, Quantity: 2}},
		},
		{
			name: "two foods keep order",
			text: "I had rice and chicken",
			want: []Item{
				{Name: "rice", Calories: 200, Quantity: 1},
				{Name: "chicken", Calories: 165, Quantity: 1},
			},
		},
		{
			name: "quantity with two-word phrase",
			text: "3 hot dog",
			want: []Item{{Name: "hot dog", Calories: 320, Quantity: 3}},
		},
		{
			name: "unprefixed two-word phrase",
			text: "some ice cream please",
			want: []Item{{Name: "ice cream", Calories: 130, Quantity: 1}},
		},
		{
			name: "single word wins over phrase when it hits",
			text: "potato chips",
			want: []Item{
				{Name: "potato", Calories: 160, Quantity: 1},
				{Name: "chips", Calories: 150, Quantity: 1},
			},
		},
		{
			name: "quantity prefixed single word before phrase",
			text: "2 french fries",
			want: []Item{{Name: "french fries", Calories: 220, Quantity: 2}},
		},
		{
			name: "quantity prefixed plural phrase",
			text: "2 boiled eggs",
			want: []Item{{Name: "boiled egg", Calories: 70, Quantity: 2}},
		},
		{
			name: "duplicates are not merged",
			text: "egg and egg",
			want: []Item{
				{Name: "egg", Calories: 70, Quantity: 1},
				{Name: "egg", Calories: 70, Quantity: 1},
			},
		},
		{
			name: "case and punctuation",
			text: "Had PIZZA, then 2 Cookies.",
			want: []Item{
				{Name: "pizza", Calories: 285, Quantity: 1},
				{Name: "cookie", Calories: 50, Quantity: 2},
			},
		},
		{
			name: "number without food is skipped",
			text: "walked 5 miles",
			want: nil,
		},
		{
			name: "zero is not a quantity",
			text: "0 apple",
			want: []Item{{Name: "apple", Calories: 80, Quantity: 1}},
		},
		{
			name: "nothing recognised",
			text: "hello there",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.text))
		})
	}
}

func TestKeywordExtractorCustomLexicon(t *testing.T) {
	ex := NewKeywordExtractor(Lexicon{"kimchi": 15})

	items, err := ex.Extract(context.Background(), "4 kimchis and an apple")
	require.NoError(t, err)
	assert.Equal(t, []Item{{Name: "kimchi", Calories: 15, Quantity: 4}}, items)
}

func TestLexiconLookup(t *testing.T) {
	calories, ok := DefaultLexicon.Lookup("French Fries")
	assert.True(t, ok)
	assert.Equal(t, 220, calories)

	_, ok = DefaultLexicon.Lookup("fre")
	assert.False(t, ok)
}

type stubExtractor struct {
	items []Item
	err   error
	calls int
}

func (s *stubExtractor) Extract(context.Context, string) ([]Item, error) {
	s.calls++
	return s.items, s.err
}

func TestChain(t *testing.T) {
	ctx := context.Background()

	t.Run("falls through errors and empty results", func(t *testing.T) {
		failing := &stubExtractor{err: errors.New("model unavailable")}
		empty := &stubExtractor{}
		last := &stubExtractor{items: []Item{{Name: "tea", Calories: 2, Quantity: 1}}}

		items, err := Chain(failing, empty, last).Extract(ctx, "tea")
		require.NoError(t, err)
		assert.Equal(t, "tea", items[0].Name)
		assert.Equal(t, 1, failing.calls)
		assert.Equal(t, 1, empty.calls)
	})

	t.Run("stops at the first hit", func(t *testing.T) {
		first := &stubExtractor{items: []Item{{Name: "soup", Calories: 180, Quantity: 1}}}
		second := &stubExtractor{}

		_, err := Chain(first, second).Extract(ctx, "soup")
		require.NoError(t, err)
		assert.Zero(t, second.calls)
	})

	t.Run("reports the last error when nothing matched", func(t *testing.T) {
		items, err := Chain(&stubExtractor{err: errors.New("boom")}).Extract(ctx, "x")
		assert.Empty(t, items)
		assert.EqualError(t, err, "boom")
	})
}

package food

import (
	"context"
	"log"
	"strconv"
	"strings"
	"unicode"
)

// Extractor turns free-form text into food items. Implementations may be
// simple keyword matchers or model-backed parsers.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]Item, error)
}

// KeywordExtractor matches words and two-word phrases against a Lexicon.
// An integer literal in front of a food is taken as its quantity.
type KeywordExtractor struct {
	lexicon Lexicon
}

func NewKeywordExtractor(lexicon Lexicon) *KeywordExtractor {
	if lexicon == nil {
		lexicon = DefaultLexicon
	}
	return &KeywordExtractor{lexicon: lexicon}
}

// Extract never fails.
func (e *KeywordExtractor) Extract(_ context.Context, text string) ([]Item, error) {
	return e.extract(text), nil
}

// Extract runs the keyword extractor over text using the default lexicon.
func Extract(text string) []Item {
	return NewKeywordExtractor(DefaultLexicon).extract(text)
}

func (e *KeywordExtractor) extract(text string) []Item {
	words := tokenize(text)
	var items []Item

	for i := 0; i < len(words); i++ {
		if quantity, ok := parseQuantity(words[i]); ok && i+1 < len(words) {
			next := words[i+1]
			if name, calories, ok := e.matchWord(next); ok {
				items = append(items, Item{Name: name, Calories: calories, Quantity: quantity})
				i++
				continue
			}
			if i+2 < len(words) {
				if name, calories, ok := e.matchWord(next + " " + words[i+2]); ok {
					items = append(items, Item{Name: name, Calories: calories, Quantity: quantity})
					i += 2
					continue
				}
			}
		}

		if calories, ok := e.lexicon[words[i]]; ok {
			items = append(items, Item{Name: words[i], Calories: calories, Quantity: 1})
			continue
		}

		if i+1 < len(words) {
			phrase := words[i] + " " + words[i+1]
			if calories, ok := e.lexicon[phrase]; ok {
				items = append(items, Item{Name: phrase, Calories: calories, Quantity: 1})
				i++
			}
		}
	}
	return items
}

// matchWord tries the word as written, then with one trailing "s" removed.
func (e *KeywordExtractor) matchWord(word string) (string, int, bool) {
	if calories, ok := e.lexicon[word]; ok {
		return word, calories, true
	}
	if singular, found := strings.CutSuffix(word, "s"); found {
		if calories, ok := e.lexicon[singular]; ok {
			return singular, calories, true
		}
	}
	return "", 0, false
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, unicode.IsPunct)
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

func parseQuantity(word string) (float64, bool) {
	n, err := strconv.Atoi(word)
	if err != nil || n <= 0 {
		return 0, false
	}
	return float64(n), true
}

// Chain returns an Extractor that tries each extractor in order and keeps the
// first non-empty result. Failures are logged and the next extractor is tried.
func Chain(extractors ...Extractor) Extractor {
	return chain(extractors)
}

type chain []Extractor

func (c chain) Extract(ctx context.Context, text string) ([]Item, error) {
	var lastErr error
	for _, ex := range c {
		items, err := ex.Extract(ctx, text)
		if err != nil {
			log.Printf("Food extractor %T failed: %v", ex, err)
			lastErr = err
			continue
		}
		if len(items) > 0 {
			return items, nil
		}
	}
	return nil, lastErr
}

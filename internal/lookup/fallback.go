package lookup

import (
	"context"
	"errors"
	"log"
	"strings"

	"gwi.com/calorie-chat/internal/food"
)

type fallbackEntry struct {
	keyword string
	items   []food.Item
}

// Checked in order; the first keyword contained in the query wins.
// Per-100 g entries are one serving of "100 g" so totals stay in kcal.
var fallbackTable = []fallbackEntry{
	{"apple", []food.Item{
		{Name: "Apple, raw", Calories: 52, Quantity: 1, Unit: `medium (3" dia)`},
		{Name: "Apple, with skin", Calories: 95, Quantity: 1, Unit: `large (3-1/4" dia)`},
	}},
	{"banana", []food.Item{
		{Name: "Banana, raw", Calories: 105, Quantity: 1, Unit: `medium (7" to 7-7/8" long)`},
		{Name: "Banana, ripe", Calories: 121, Quantity: 1, Unit: `large (8" to 8-7/8" long)`},
	}},
	{"chicken", []food.Item{
		{Name: "Chicken breast, grilled", Calories: 165, Quantity: 1, Unit: "100 g"},
		{Name: "Chicken thigh, roasted", Calories: 209, Quantity: 1, Unit: "100 g"},
	}},
	{"rice", []food.Item{
		{Name: "White rice, cooked", Calories: 130, Quantity: 1, Unit: "100 g"},
		{Name: "Brown rice, cooked", Calories: 112, Quantity: 1, Unit: "100 g"},
	}},
	{"bread", []food.Item{
		{Name: "White bread", Calories: 75, Quantity: 1, Unit: "slice"},
		{Name: "Whole wheat bread", Calories: 81, Quantity: 1, Unit: "slice"},
	}},
	{"egg", []food.Item{
		{Name: "Egg, whole, cooked", Calories: 78, Quantity: 1, Unit: "large"},
		{Name: "Egg white, raw", Calories: 17, Quantity: 1, Unit: "large"},
	}},
	{"beef", []food.Item{
		{Name: "Ground beef, 80% lean", Calories: 215, Quantity: 1, Unit: "100 g"},
		{Name: "Beef steak, sirloin", Calories: 176, Quantity: 1, Unit: "100 g"},
	}},
	{"potato", []food.Item{
		{Name: "Potato, baked", Calories: 163, Quantity: 1, Unit: `medium (2-1/4" to 3-1/4" dia)`},
		{Name: "Sweet potato, baked", Calories: 103, Quantity: 1, Unit: "100 g"},
	}},
	{"milk", []food.Item{
		{Name: "Milk, 2% fat", Calories: 122, Quantity: 1, Unit: "cup"},
		{Name: "Milk, whole", Calories: 149, Quantity: 1, Unit: "cup"},
	}},
	{"yogurt", []food.Item{
		{Name: "Yogurt, plain, low fat", Calories: 154, Quantity: 1, Unit: "cup"},
		{Name: "Greek yogurt, plain", Calories: 100, Quantity: 1, Unit: "100 g"},
	}},
}

// Fallback returns the canned items for the first known keyword found in
// query, or an empty slice.
func Fallback(query string) []food.Item {
	q := strings.ToLower(query)
	for _, e := range fallbackTable {
		if strings.Contains(q, e.keyword) {
			log.Printf("Using fallback data for %q", e.keyword)
			return append([]food.Item(nil), e.items...)
		}
	}
	return []food.Item{}
}

// FallbackSearcher answers from the fallback table when Primary fails with a
// *LookupError. A *NoResultsError and any other error pass through unchanged.
type FallbackSearcher struct {
	Primary Searcher
}

func (s FallbackSearcher) Search(ctx context.Context, query string) ([]food.Item, error) {
	items, err := s.Primary.Search(ctx, query)
	if err == nil {
		return items, nil
	}
	var lookupErr *LookupError
	if !errors.As(err, &lookupErr) {
		return nil, err
	}
	log.Printf("Error searching food items for %q: %v", query, err)
	return Fallback(query), nil
}

package food

import "math"

// Item is a single food mention resolved to calories per serving.
type Item struct {
	Name     string  `json:"name"`
	Calories int     `json:"calories"` // kcal per serving
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
}

// Energy is the calories this item contributes: calories per serving times quantity.
func (i Item) Energy() int {
	return int(math.Round(float64(i.Calories) * i.Quantity))
}

func TotalCalories(items []Item) int {
	total := 0
	for _, item := range items {
		total += item.Energy()
	}
	return total
}

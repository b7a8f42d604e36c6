package food

import (
	"fmt"
	"strconv"
	"strings"
)

const NoFoodMessage = "I couldn't identify any food items. Could you please be more specific?"

const (
	fastFoodTip = "Try replacing high-calorie fast food with healthier alternatives like grilled chicken with vegetables or a hearty salad with lean protein."
	sweetsTip   = "For sweet cravings, consider fruit-based desserts like baked apples or a small bowl of berries for fewer calories and more nutrients."
)

// Compose renders a chat reply summarising items. When goal is non-nil the
// reply also says how the total compares to the daily goal.
func Compose(items []Item, goal *int) string {
	if len(items) == 0 {
		return NoFoodMessage
	}

	total := TotalCalories(items)

	var b strings.Builder
	plural := ""
	if len(items) > 1 {
		plural = "s"
	}
	fmt.Fprintf(&b, "I tracked %d item%s for you:\n\n", len(items), plural)
	for _, item := range items {
		fmt.Fprintf(&b, "• %s %s (%d calories)\n", FormatQuantity(item.Quantity), item.Name, item.Energy())
	}
	fmt.Fprintf(&b, "\nTotal calories: %d", total)

	if goal != nil && *goal > 0 {
		remaining := *goal - total
		if remaining >= 0 {
			fmt.Fprintf(&b, "\nYou have %d calories remaining for your daily goal of %d.", remaining, *goal)
		} else {
			fmt.Fprintf(&b, "\nYou've exceeded your daily goal of %d by %d calories.", *goal, -remaining)
		}

		if tip := tipFor(items); tip != "" {
			b.WriteString("\n\n")
			b.WriteString(tip)
		}
	}
	return b.String()
}

// FormatQuantity prints whole quantities without a fractional part.
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func tipFor(items []Item) string {
	for _, item := range items {
		switch item.Name {
		case "burger", "pizza", "fries":
			return fastFoodTip
		}
	}
	for _, item := range items {
		if strings.Contains(item.Name, "cake") || strings.Contains(item.Name, "cookie") || item.Name == "ice cream" {
			return sweetsTip
		}
	}
	return ""
}

// HealthyAlternative suggests a swap for the first item contributing more
// than 300 calories, or returns "" when nothing is that heavy.
func HealthyAlternative(items []Item) string {
	for _, item := range items {
		if item.Energy() <= 300 {
			continue
		}
		switch item.Name {
		case "burger":
			return "Instead of a burger, try a grilled chicken sandwich with lots of veggies for fewer calories and more nutrients."
		case "pizza":
			return "Consider making a cauliflower crust pizza loaded with vegetables for a lower-calorie option than traditional pizza."
		case "fries", "french fries":
			return "Baked sweet potato fries are a healthier alternative to regular fries with more fiber and vitamins."
		case "pasta":
			return "Try zucchini noodles or spaghetti squash instead of regular pasta for a lower-carb, lower-calorie meal."
		case "ice cream":
			return "Frozen yogurt or a smoothie bowl can satisfy your sweet tooth with fewer calories than ice cream."
		default:
			return "Try incorporating more vegetables and lean proteins into your meals for better nutritional balance."
		}
	}
	return ""
}

package food

import "strings"

// Lexicon maps lower-case food names, including common synonyms and plurals,
// to calories per serving.
type Lexicon map[string]int

// Lookup matches name exactly after lower-casing.
func (l Lexicon) Lookup(name string) (int, bool) {
	calories, ok := l[strings.ToLower(name)]
	return calories, ok
}

// DefaultLexicon is the built-in table of common foods.
var DefaultLexicon = Lexicon{
	// Breakfast
	"egg":        70,
	"boiled egg": 70,
	"fried egg":  90,
	"bread":      80,
	"toast":      80,
	"cereal":     120,
	"oatmeal":    150,
	"pancake":    175,
	"waffle":     200,
	"bagel":      250,
	"dosa":       120,
	"idli":       40,
	"paratha":    150,
	"poha":       130,

	// Proteins
	"chicken":        165,
	"chicken breast": 165,
	"fish":           150,
	"salmon":         180,
	"tuna":           120,
	"beef":           250,
	"steak":          250,
	"pork":           200,
	"tofu":           80,
	"paneer":         100,

	// Vegetables
	"broccoli":     30,
	"spinach":      20,
	"kale":         30,
	"carrot":       40,
	"potato":       160,
	"sweet potato": 120,
	"corn":         90,

	// Fruits
	"apple":      80,
	"banana":     105,
	"orange":     65,
	"grape":      3,
	"strawberry": 4,
	"blueberry":  1,
	"mango":      130,

	// Fast food
	"pizza":        285,
	"burger":       350,
	"hamburger":    350,
	"cheeseburger": 400,
	"fries":        220,
	"french fries": 220,
	"hot dog":      320,
	"taco":         210,
	"burrito":      400,

	// Snacks
	"chips":        150,
	"potato chips": 150,
	"cookie":       50,
	"chocolate":    150,
	"cake":         300,
	"ice cream":    130,

	// Drinks
	"soda":         140,
	"coke":         140,
	"pepsi":        140,
	"coffee":       5,
	"tea":          2,
	"milk":         120,
	"juice":        110,
	"orange juice": 110,
	"apple juice":  115,
	"beer":         150,
	"wine":         120,

	// Dishes
	"pasta":      320,
	"rice":       200,
	"fried rice": 350,
	"sandwich":   300,
	"soup":       180,
	"salad":      100,
	"noodles":    300,
	"biryani":    400,
	"curry":      350,
	"dal":        150,
	"samosa":     140,
}

package ledger

import (
	"time"

	"gwi.com/calorie-chat/internal/food"
)

// DailyRecord aggregates the foods logged on one calendar day.
// TotalCalories is always recomputed from Foods.
type DailyRecord struct {
	ID            string      `json:"id"` // YYYY-MM-DD
	Date          time.Time   `json:"date"`
	Foods         []food.Item `json:"foods"`
	TotalCalories int         `json:"totalCalories"`
}

// Records maps a YYYY-MM-DD key to that day's record.
type Records map[string]DailyRecord

type UserGoal struct {
	DailyCalorieTarget int `json:"dailyCalorieTarget"`
}

type DayTotal struct {
	Date     string `json:"date"`
	Day      string `json:"day"` // short weekday name
	Calories int    `json:"calories"`
}

type Dashboard struct {
	TodayCalories int        `json:"todayCalories"`
	Goal          *int       `json:"goal,omitempty"`
	GoalPercent   int        `json:"goalPercent"`
	Remaining     int        `json:"remaining"`
	OverGoal      int        `json:"overGoal"`
	Week          []DayTotal `json:"week"`
}

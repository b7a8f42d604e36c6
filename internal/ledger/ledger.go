package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"gwi.com/calorie-chat/internal/food"
)

const (
	dateKeyLayout = "2006-01-02"
	weekDays      = 7
)

var ErrInvalidGoal = errors.New("daily calorie target must be a positive integer")

// Ledger tracks per-day food records and the user's daily goal.
//
// Every mutation loads the whole ledger, changes it and writes it back. The
// mutex serialises that cycle inside one process only; two processes sharing
// a store can still overwrite each other.
type Ledger struct {
	repo Repository
	now  func() time.Time
	mu   sync.Mutex
}

func New(repo Repository) *Ledger {
	return &Ledger{repo: repo, now: time.Now}
}

// DateKey formats t as the ledger key for its UTC calendar day.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateKeyLayout)
}

// Append adds items to today's record, creating it on first use, and
// recomputes the day's total.
func (l *Ledger) Append(ctx context.Context, items []food.Item) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	key := DateKey(now)

	records, err := l.repo.LoadLedger(ctx)
	if err != nil {
		return err
	}

	rec, ok := records[key]
	if ok {
		foods := make([]food.Item, 0, len(rec.Foods)+len(items))
		foods = append(foods, rec.Foods...)
		rec.Foods = append(foods, items...)
	} else {
		rec = DailyRecord{
			ID:    key,
			Date:  now,
			Foods: append(make([]food.Item, 0, len(items)), items...),
		}
	}
	rec.TotalCalories = food.TotalCalories(rec.Foods)
	records[key] = rec

	if err := l.repo.SaveLedger(ctx, records); err != nil {
		return err
	}
	return nil
}

// Today returns today's total calories, 0 when nothing is logged yet.
func (l *Ledger) Today(ctx context.Context) (int, error) {
	records, err := l.repo.LoadLedger(ctx)
	if err != nil {
		return 0, err
	}
	return records[DateKey(l.now())].TotalCalories, nil
}

func (l *Ledger) All(ctx context.Context) (Records, error) {
	return l.repo.LoadLedger(ctx)
}

// Goal returns the saved daily goal, or nil if none was set.
func (l *Ledger) Goal(ctx context.Context) (*UserGoal, error) {
	return l.repo.LoadGoal(ctx)
}

// SaveGoal overwrites the daily calorie target.
func (l *Ledger) SaveGoal(ctx context.Context, target int) error {
	if target <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidGoal, target)
	}
	return l.repo.SaveGoal(ctx, UserGoal{DailyCalorieTarget: target})
}

// Dashboard summarises today against the goal plus the last seven days,
// oldest first.
func (l *Ledger) Dashboard(ctx context.Context) (*Dashboard, error) {
	records, err := l.repo.LoadLedger(ctx)
	if err != nil {
		return nil, err
	}
	goal, err := l.repo.LoadGoal(ctx)
	if err != nil {
		return nil, err
	}

	now := l.now().UTC()
	d := &Dashboard{
		TodayCalories: records[DateKey(now)].TotalCalories,
		Week:          make([]DayTotal, 0, weekDays),
	}

	if goal != nil {
		target := goal.DailyCalorieTarget
		d.Goal = &target
		pct := int(math.Round(float64(d.TodayCalories) / float64(target) * 100))
		d.GoalPercent = min(pct, 100)
		d.Remaining = max(target-d.TodayCalories, 0)
		d.OverGoal = max(d.TodayCalories-target, 0)
	}

	for i := weekDays - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		key := DateKey(day)
		d.Week = append(d.Week, DayTotal{
			Date:     key,
			Day:      day.Weekday().String()[:3],
			Calories: records[key].TotalCalories,
		})
	}
	return d, nil
}

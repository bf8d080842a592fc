package entity

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidRate = errors.New("invalid rate schedule")
	ErrInvalidCron = errors.New("invalid cron schedule")
)

// Schedule is an opaque schedule expression forwarded as-is to the association.
type Schedule struct {
	expression string
}

// Expression wraps a raw schedule expression, e.g. "rate(1 hour)" or
// "cron(0 12 * * ? *)". The value is not validated.
func Expression(expression string) Schedule {
	return Schedule{expression: expression}
}

// Rate builds a "rate(...)" expression. The duration must be a whole number of
// minutes and at least one minute long; the largest unit that divides it evenly
// is used.
func Rate(d time.Duration) (Schedule, error) {
	if d <= 0 {
		return Schedule{}, fmt.Errorf("%w: duration must be positive, got %s", ErrInvalidRate, d)
	}
	if d%time.Minute != 0 {
		return Schedule{}, fmt.Errorf("%w: %s is not a whole number of minutes", ErrInvalidRate, d)
	}

	day := 24 * time.Hour
	switch {
	case d%day == 0:
		return Schedule{expression: rateExpression(int64(d/day), "day")}, nil
	case d%time.Hour == 0:
		return Schedule{expression: rateExpression(int64(d/time.Hour), "hour")}, nil
	default:
		return Schedule{expression: rateExpression(int64(d/time.Minute), "minute")}, nil
	}
}

// MustRate is like Rate but panics on error. Intended for package-level defaults.
func MustRate(d time.Duration) Schedule {
	s, err := Rate(d)
	if err != nil {
		panic(err)
	}
	return s
}

// CronOptions are the fields of a six-field cron expression. Empty fields take the
// wildcard default; Day and WeekDay cannot both be set.
type CronOptions struct {
	Minute  string
	Hour    string
	Day     string
	Month   string
	WeekDay string
	Year    string
}

// Cron builds a "cron(...)" expression.
func Cron(opts CronOptions) (Schedule, error) {
	if opts.Day != "" && opts.WeekDay != "" {
		return Schedule{}, fmt.Errorf("%w: cannot supply both day and weekDay, use at most one", ErrInvalidCron)
	}

	day := fallback(opts.Day, "*")
	if opts.WeekDay != "" {
		day = "?"
	}
	weekDay := fallback(opts.WeekDay, "?")

	expr := fmt.Sprintf("cron(%s %s %s %s %s %s)",
		fallback(opts.Minute, "*"),
		fallback(opts.Hour, "*"),
		day,
		fallback(opts.Month, "*"),
		weekDay,
		fallback(opts.Year, "*"),
	)
	return Schedule{expression: expr}, nil
}

// ExpressionString returns the schedule expression.
func (s Schedule) ExpressionString() string {
	return s.expression
}

// IsZero reports whether no schedule was set.
func (s Schedule) IsZero() bool {
	return s.expression == ""
}

func (s Schedule) String() string {
	return s.expression
}

func rateExpression(amount int64, unit string) string {
	if amount != 1 {
		unit += "s"
	}
	return fmt.Sprintf("rate(%d %s)", amount, unit)
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

package calc

import (
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/intake/internal/domain"
)

// BudgetTriangle holds a fully resolved budget as integer strings.
type BudgetTriangle struct {
	Total     string
	Used      string
	Remaining string
}

// DateTriangle holds a fully resolved schedule.
type DateTriangle struct {
	Start    string
	End      string
	Duration string
}

// Area returns length × width when both are known and non-zero.
func Area(length, width any) (string, bool) {
	l, ok := CleanNumber(length)
	if !ok || l == 0 {
		return "", false
	}
	w, ok := CleanNumber(width)
	if !ok || w == 0 {
		return "", false
	}
	return FormatNumber(l * w), true
}

// Budget resolves the third budget value from any two. Total and used win
// over a stored remaining value. The result is only reported when all
// three values are known afterwards.
func Budget(total, used, remaining any) (BudgetTriangle, bool) {
	t, tOK := CleanNumber(total)
	u, uOK := CleanNumber(used)
	r, rOK := CleanNumber(remaining)

	switch {
	case tOK && uOK:
		r, rOK = t-u, true
	case tOK && rOK:
		u, uOK = t-r, true
	case uOK && rOK:
		t, tOK = u+r, true
	}
	if !tOK || !uOK || !rOK {
		return BudgetTriangle{}, false
	}
	return BudgetTriangle{
		Total:     strconv.FormatInt(int64(t), 10),
		Used:      strconv.FormatInt(int64(u), 10),
		Remaining: strconv.FormatInt(int64(r), 10),
	}, true
}

// Dates resolves the third schedule value from any two. End and duration
// win over a stored start date. A zero duration counts as unknown. Any
// value that is present but unparsable abandons the calculation.
func Dates(start, duration, end any) (DateTriangle, bool) {
	startAt, hasStart, ok := parseDate(start)
	if !ok {
		return DateTriangle{}, false
	}
	endAt, hasEnd, ok := parseDate(end)
	if !ok {
		return DateTriangle{}, false
	}
	days, hasDays, ok := parseDays(duration)
	if !ok {
		return DateTriangle{}, false
	}

	switch {
	case hasEnd && hasDays:
		startAt, hasStart = endAt.AddDate(0, 0, -days), true
	case hasStart && hasDays:
		endAt, hasEnd = startAt.AddDate(0, 0, days), true
	case hasStart && hasEnd:
		days, hasDays = daysBetween(startAt, endAt), true
	}
	if !hasStart || !hasEnd || !hasDays {
		return DateTriangle{}, false
	}
	return DateTriangle{
		Start:    startAt.Format(domain.DateLayout),
		End:      endAt.Format(domain.DateLayout),
		Duration: strconv.Itoa(days),
	}, true
}

func parseDate(v any) (t time.Time, present bool, ok bool) {
	if domain.IsBlank(v) {
		return time.Time{}, false, true
	}
	s, isString := v.(string)
	if !isString {
		return time.Time{}, false, false
	}
	t, err := time.Parse(domain.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false, false
	}
	return t, true, true
}

func parseDays(v any) (days int, present bool, ok bool) {
	if domain.IsBlank(v) {
		return 0, false, true
	}
	switch t := v.(type) {
	case float64:
		if t != float64(int(t)) {
			return 0, false, false
		}
		days = int(t)
	case int:
		days = t
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false, false
		}
		days = n
	default:
		return 0, false, false
	}
	if days == 0 {
		return 0, false, true
	}
	return days, true, true
}

func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

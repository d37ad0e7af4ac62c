package calc

import (
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArea(t *testing.T) {
	got, ok := Area("500", "8")
	require.True(t, ok)
	assert.Equal(t, "4000", got)

	got, ok = Area(float64(2.5), "4")
	require.True(t, ok)
	assert.Equal(t, "10", got)
}

func TestArea_MissingOrZeroLeavesFieldAlone(t *testing.T) {
	for _, tc := range [][2]any{{"500", nil}, {nil, "8"}, {"0", "8"}, {"abc", "8"}} {
		_, ok := Area(tc[0], tc[1])
		assert.False(t, ok, "inputs %#v", tc)
	}
}

func TestBudget_TotalAndUsed(t *testing.T) {
	got, ok := Budget("10000000", "2000000", nil)
	require.True(t, ok)
	assert.Equal(t, BudgetTriangle{Total: "10000000", Used: "2000000", Remaining: "8000000"}, got)
}

func TestBudget_TotalAndUsedOverrideStaleRemaining(t *testing.T) {
	got, ok := Budget("1000", "200", "999")
	require.True(t, ok)
	assert.Equal(t, "800", got.Remaining)
}

func TestBudget_TotalAndRemaining(t *testing.T) {
	got, ok := Budget("1.000.000", nil, "250.000")
	require.True(t, ok)
	assert.Equal(t, BudgetTriangle{Total: "1000000", Used: "750000", Remaining: "250000"}, got)
}

func TestBudget_UsedAndRemaining(t *testing.T) {
	got, ok := Budget(nil, "300", "700")
	require.True(t, ok)
	assert.Equal(t, BudgetTriangle{Total: "1000", Used: "300", Remaining: "700"}, got)
}

func TestBudget_PartialKnowledgeEmitsNothing(t *testing.T) {
	_, ok := Budget("1000", nil, nil)
	assert.False(t, ok)
	_, ok = Budget(nil, "none", "")
	assert.False(t, ok)
}

func TestBudget_Invariants_TwoOfThree(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 200; trial++ {
		total := int64(rng.Intn(50_000_000) + 1)
		used := int64(rng.Intn(int(total)))
		ts, us := strconv.FormatInt(total, 10), strconv.FormatInt(used, 10)

		got, ok := Budget(ts, us, nil)
		require.True(t, ok, "trial %d", trial)
		assert.Equal(t, ts, got.Total, "trial %d: total must not change", trial)
		assert.Equal(t, us, got.Used, "trial %d: used must not change", trial)
		assert.Equal(t, strconv.FormatInt(total-used, 10), got.Remaining, "trial %d", trial)

		back, ok := Budget(got.Total, nil, got.Remaining)
		require.True(t, ok)
		assert.Equal(t, us, back.Used, "trial %d: used recomputes from total and remaining", trial)

		sum, ok := Budget(nil, got.Used, got.Remaining)
		require.True(t, ok)
		assert.Equal(t, ts, sum.Total, "trial %d: total recomputes from used and remaining", trial)
	}
}

func TestDates_StartAndDuration(t *testing.T) {
	got, ok := Dates("2025-03-01", "30", nil)
	require.True(t, ok)
	assert.Equal(t, DateTriangle{Start: "2025-03-01", End: "2025-03-31", Duration: "30"}, got)
}

func TestDates_EndAndDurationWinOverStart(t *testing.T) {
	got, ok := Dates("2025-01-01", float64(10), "2025-02-10")
	require.True(t, ok)
	assert.Equal(t, "2025-01-31", got.Start)
}

func TestDates_StartAndEnd(t *testing.T) {
	got, ok := Dates("2024-02-01", nil, "2024-03-01")
	require.True(t, ok)
	assert.Equal(t, "29", got.Duration)
}

func TestDates_ZeroDurationIsUnknown(t *testing.T) {
	got, ok := Dates("2025-05-01", "0", "2025-05-11")
	require.True(t, ok)
	assert.Equal(t, "10", got.Duration)

	_, ok = Dates("2025-05-01", "0", nil)
	assert.False(t, ok)
}

func TestDates_UnparsableAbandons(t *testing.T) {
	_, ok := Dates("01.05.2025", "10", nil)
	assert.False(t, ok)
	_, ok = Dates("2025-05-01", "on gün", nil)
	assert.False(t, ok)
}

func TestDates_Invariants_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for trial := 0; trial < 200; trial++ {
		start := base.AddDate(0, 0, rng.Intn(1000)).Format("2006-01-02")
		days := strconv.Itoa(rng.Intn(720) + 1)

		got, ok := Dates(start, days, nil)
		require.True(t, ok, "trial %d", trial)
		assert.Equal(t, start, got.Start)
		assert.Equal(t, days, got.Duration)

		back, ok := Dates(got.Start, nil, got.End)
		require.True(t, ok)
		assert.Equal(t, days, back.Duration, "trial %d: duration recomputes from start and end", trial)
	}
}

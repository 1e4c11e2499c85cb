package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "already two decimals", in: 12.34, want: 12.34},
		{name: "half rounds away from zero", in: 0.125, want: 0.13},
		{name: "float artefact", in: 0.1 * 3, want: 0.3},
		{name: "negative", in: -1.005, want: -1.01},
		{name: "nan", in: math.NaN(), want: 0},
		{name: "inf", in: math.Inf(1), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Round2(tt.in))
		})
	}
}

func TestDailyWorkRecalculate(t *testing.T) {
	day := DailyWork{
		Items: []WorkItem{
			{ItemName: "collar", WageRate: 1.15, PiecesCompleted: 3, TotalWage: 999},
			{ItemName: "cuff", WageRate: math.NaN(), PiecesCompleted: 10},
			{ItemName: "hem", WageRate: 0.333, PiecesCompleted: 7},
			{ItemName: "button", WageRate: 2, PiecesCompleted: -4},
		},
	}

	day.Recalculate()

	assert.Equal(t, 3.45, day.Items[0].TotalWage)
	assert.Equal(t, 0.0, day.Items[1].WageRate)
	assert.Equal(t, 0.0, day.Items[1].TotalWage)
	assert.Equal(t, 2.33, day.Items[2].TotalWage)
	assert.Equal(t, 0, day.Items[3].PiecesCompleted)
	assert.Equal(t, 5.78, day.TotalEarned)

	for _, item := range day.Items {
		assert.Equal(t, Round2(item.WageRate*float64(item.PiecesCompleted)), item.TotalWage)
	}
}

func TestWorkerTotalEarnings(t *testing.T) {
	w := Worker{WorkHistory: []DailyWork{{TotalEarned: 10.1}, {TotalEarned: 20.2}, {TotalEarned: math.Inf(-1)}}}
	assert.Equal(t, 30.3, w.TotalEarnings())
	assert.Equal(t, 30.3, NewWorkerView(w).TotalEarnings)
}

func TestDateRangeContains(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	rng := DateRange{Start: &start, End: &end}

	assert.True(t, rng.Contains(start))
	assert.True(t, rng.Contains(time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)), "end is inclusive through the whole day")
	assert.False(t, rng.Contains(time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)))
	assert.False(t, rng.Contains(start.Add(-time.Second)))
	assert.True(t, DateRange{}.Contains(time.Time{}))
	assert.True(t, DateRange{}.IsZero())
}

func TestFilterAndOrderHistory(t *testing.T) {
	d := func(day int) time.Time { return time.Date(2025, 1, day, 9, 0, 0, 0, time.UTC) }
	history := []DailyWork{
		{Date: d(3), Notes: "a"},
		{Date: d(1), Notes: "b"},
		{Date: d(5), Notes: "c"},
		{Date: d(3), Notes: "d"},
	}

	sorted := NewestFirst(history)
	require.Len(t, sorted, 4)
	assert.Equal(t, []string{"c", "a", "d", "b"}, []string{sorted[0].Notes, sorted[1].Notes, sorted[2].Notes, sorted[3].Notes})
	assert.Equal(t, "a", history[0].Notes, "input is not mutated")

	start, end := d(2), d(4)
	filtered := FilterHistory(history, DateRange{Start: &start, End: &end})
	require.Len(t, filtered, 2)
	assert.Equal(t, "a", filtered[0].Notes)
	assert.Equal(t, "d", filtered[1].Notes)

	future := d(20)
	assert.Empty(t, FilterHistory(history, DateRange{Start: &future}))
}

func TestAddDailyWorkRequestToDailyWork(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	req := AddDailyWorkRequest{
		Items: []WorkItemRequest{
			{ItemName: "sleeve", WageRate: 2.5, PiecesCompleted: 4},
			{ItemName: "pocket", WageRate: 1.25, PiecesCompleted: 3},
		},
		Notes: "night shift",
	}

	day := req.ToDailyWork(now)

	assert.Equal(t, now, day.Date)
	assert.Equal(t, 13.75, day.TotalEarned)
	assert.Equal(t, "night shift", day.Notes)
}

func TestParseReportFormat(t *testing.T) {
	f, ok := ParseReportFormat("")
	assert.True(t, ok)
	assert.Equal(t, FormatPDF, f)

	f, ok = ParseReportFormat("raster")
	assert.True(t, ok)
	assert.Equal(t, FormatRaster, f)

	_, ok = ParseReportFormat("docx")
	assert.False(t, ok)
}

func TestUpdateWorkerRequestChanges(t *testing.T) {
	name, email, active := "  Asha Devi ", " asha@example.com", true
	changes := UpdateWorkerRequest{Name: &name, Email: &email, IsActive: &active}.Changes()

	require.NotNil(t, changes.Name)
	assert.Equal(t, "Asha Devi", *changes.Name)
	require.NotNil(t, changes.Email)
	assert.Equal(t, "asha@example.com", *changes.Email)
	assert.Nil(t, changes.Phone)
	assert.Nil(t, changes.Address)
	assert.Equal(t, &active, changes.IsActive)
	assert.Equal(t, "  Asha Devi ", name)
}

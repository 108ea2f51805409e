package stats

import (
	"alcyxob/liftlog/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-03-04 is a Wednesday.
var now = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

func ptr(v float64) *float64 { return &v }

func workout(date time.Time, minutes int, sets ...domain.Set) domain.Workout {
	return domain.Workout{
		ID:          date.Format(time.RFC3339),
		Date:        date,
		DurationMin: minutes,
		Exercises:   []domain.WorkoutExercise{{ExerciseID: "squat", Name: "Squat", Sets: sets}},
	}
}

func TestComputeTotals(t *testing.T) {
	got := ComputeTotals([]domain.Workout{workout(now, 30), workout(now, 60)})
	assert.Equal(t, Totals{WorkoutCount: 2, TotalMinutes: 90, AvgMinutes: 45}, got)

	assert.Equal(t, Totals{}, ComputeTotals(nil))

	got = ComputeTotals([]domain.Workout{workout(now, 10), workout(now, 11)})
	assert.Equal(t, 11, got.AvgMinutes, "10.5 rounds half away from zero")
}

func TestWeekly(t *testing.T) {
	recent := workout(now.Add(-2*24*time.Hour), 40,
		domain.Set{Reps: 10, Weight: ptr(50)},
		domain.Set{Reps: 8, Weight: ptr(60)},
		domain.Set{Reps: 12},
	)
	old := workout(now.Add(-10*24*time.Hour), 40, domain.Set{Reps: 10, Weight: ptr(100)})
	edge := workout(now.Add(-WeeklyWindow), 20, domain.Set{Reps: 1, Weight: ptr(5)})

	got := Weekly([]domain.Workout{recent, old, edge}, now)
	assert.Equal(t, 500.0+480.0+5.0, got.Volume)
	assert.Equal(t, 4, got.Sets)
}

func TestCard(t *testing.T) {
	w := domain.Workout{
		ID:          "w1",
		Date:        now,
		DurationMin: 50,
		Exercises: []domain.WorkoutExercise{
			{ExerciseID: "a", Name: "Row", Sets: []domain.Set{{Reps: 10, Weight: ptr(40)}, {Reps: 10, Weight: ptr(40)}}},
			{ExerciseID: "b", Name: "Plank", Sets: []domain.Set{{Reps: 1}}},
		},
	}

	card := Card(w)
	assert.Equal(t, "w1", card.WorkoutID)
	assert.Equal(t, 3, card.TotalSets)
	assert.Equal(t, 800.0, card.Volume)
	require.Len(t, card.Exercises, 2)
	assert.Equal(t, ExerciseSummary{ExerciseID: "b", Name: "Plank", Sets: 1}, card.Exercises[1])

	assert.Len(t, Cards([]domain.Workout{w, w}), 2)
	assert.Empty(t, Cards(nil))
}

func TestParseView(t *testing.T) {
	v, err := ParseView("")
	require.NoError(t, err)
	assert.Equal(t, ViewMonth, v)

	v, err = ParseView("year")
	require.NoError(t, err)
	assert.Equal(t, ViewYear, v)

	_, err = ParseView("decade")
	assert.Error(t, err)
}

func TestBuildCalendar_Month(t *testing.T) {
	workouts := []domain.Workout{
		workout(time.Date(2026, 3, 15, 23, 30, 0, 0, time.UTC), 30),
		workout(time.Date(2026, 3, 15, 7, 0, 0, 0, time.UTC), 30),
	}

	cal := BuildCalendar(ViewMonth, now, now, workouts, time.UTC)
	assert.Equal(t, ViewMonth, cal.View)
	assert.Equal(t, "2026-03-01", cal.Start)
	assert.Equal(t, "2026-03-31", cal.End)
	require.Len(t, cal.Days, 31)

	day15 := cal.Days[14]
	assert.Equal(t, "2026-03-15", day15.Date)
	assert.True(t, day15.HasWorkout)
	assert.Equal(t, 2, day15.Workouts)

	assert.True(t, cal.Days[3].IsToday)
	assert.False(t, cal.Days[3].HasWorkout)
	for i, d := range cal.Days {
		if i != 3 {
			assert.False(t, d.IsToday, d.Date)
		}
	}
}

func TestBuildCalendar_MonthUsesLocalDay(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	// 02:00 UTC on the 16th is still the 15th five hours west.
	workouts := []domain.Workout{workout(time.Date(2026, 3, 16, 2, 0, 0, 0, time.UTC), 30)}

	cal := BuildCalendar(ViewMonth, now, now, workouts, loc)
	assert.True(t, cal.Days[14].HasWorkout)
	assert.False(t, cal.Days[15].HasWorkout)
}

func TestBuildCalendar_Week(t *testing.T) {
	workouts := []domain.Workout{
		workout(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), 30),
		workout(time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC), 30),
	}

	cal := BuildCalendar(ViewWeek, now, now, workouts, time.UTC)
	require.Len(t, cal.Days, 7)
	assert.Equal(t, "2026-03-01", cal.Start)
	assert.Equal(t, "2026-03-07", cal.End)
	assert.Equal(t, "Sun", cal.Days[0].Weekday)
	assert.True(t, cal.Days[1].HasWorkout)
	assert.True(t, cal.Days[3].IsToday)
	for _, d := range cal.Days {
		assert.NotEqual(t, "2026-03-08", d.Date)
	}
}

func TestBuildCalendar_Year(t *testing.T) {
	workouts := []domain.Workout{
		workout(time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC), 30),
		workout(time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC), 30),
		workout(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), 30),
		workout(time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC), 30),
	}

	// the anchor does not move the year view
	cal := BuildCalendar(ViewYear, now.AddDate(-1, 0, 0), now, workouts, time.UTC)
	require.Len(t, cal.Months, 12)
	assert.Equal(t, "2026-01-01", cal.Start)
	assert.Equal(t, 2, cal.Months[0].Workouts)
	assert.Equal(t, 0, cal.Months[1].Workouts)
	assert.Equal(t, 1, cal.Months[2].Workouts)
	assert.Equal(t, "Mar", cal.Months[2].Label)
	assert.Empty(t, cal.Days)
}

func TestCurrentStreak(t *testing.T) {
	day := func(d int) domain.Workout {
		return workout(time.Date(2026, 3, d, 8, 0, 0, 0, time.UTC), 30)
	}

	s := CurrentStreak([]domain.Workout{day(4), day(3), day(2), day(1)}, now, time.UTC)
	assert.Equal(t, Streak{Days: 4, Label: "4-day streak"}, s)

	// nothing today yet, the run ending yesterday still counts
	s = CurrentStreak([]domain.Workout{day(3), day(2)}, now, time.UTC)
	assert.Equal(t, 2, s.Days)

	s = CurrentStreak([]domain.Workout{day(2)}, now, time.UTC)
	assert.Equal(t, Streak{Days: 0, Label: "0-day streak"}, s)
}

func TestSummarizeMeasurements(t *testing.T) {
	history := []domain.Measurement{
		{ID: "new", BodyMetrics: domain.BodyMetrics{WeightKg: ptr(70), WaistCm: ptr(80), ChestCm: ptr(95)}},
		{ID: "mid", BodyMetrics: domain.BodyMetrics{WeightKg: ptr(72)}},
		{ID: "old", BodyMetrics: domain.BodyMetrics{WeightKg: ptr(75), WaistCm: ptr(78.5), ArmCm: ptr(30)}},
	}

	summary := SummarizeMeasurements(history)
	require.NotNil(t, summary)
	assert.Equal(t, 3, summary.Entries)
	require.Len(t, summary.Changes, 2)

	weight := summary.Changes[0]
	assert.Equal(t, "weightKg", weight.Key)
	assert.Equal(t, ToneDown, weight.Tone)
	assert.Equal(t, "↓ 5.0 kg", weight.Text)
	assert.Equal(t, -5.0, weight.Delta)

	waist := summary.Changes[1]
	assert.Equal(t, "waistCm", waist.Key)
	assert.Equal(t, ToneUp, waist.Tone)
	assert.Equal(t, "↑ 1.5 cm", waist.Text)
}

func TestSummarizeMeasurements_Flat(t *testing.T) {
	history := []domain.Measurement{
		{BodyMetrics: domain.BodyMetrics{CalfCm: ptr(38)}},
		{BodyMetrics: domain.BodyMetrics{CalfCm: ptr(38)}},
	}
	summary := SummarizeMeasurements(history)
	require.NotNil(t, summary)
	require.Len(t, summary.Changes, 1)
	assert.Equal(t, ToneFlat, summary.Changes[0].Tone)
	assert.Equal(t, "→ 0.0 cm", summary.Changes[0].Text)
}

func TestSummarizeMeasurements_NeedsTwoEntries(t *testing.T) {
	assert.Nil(t, SummarizeMeasurements(nil))
	assert.Nil(t, SummarizeMeasurements([]domain.Measurement{{BodyMetrics: domain.BodyMetrics{WeightKg: ptr(70)}}}))
}

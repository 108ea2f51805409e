package plan

import (
	"alcyxob/liftlog/internal/domain"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

func newTestPlan(days []domain.PlanDay) *Plan {
	p := New(days)
	p.now = func() time.Time { return fixedNow }
	n := 0
	p.newID = func() string {
		n++
		return "plan-new-" + string(rune('0'+n))
	}
	return p
}

func ids(p *Plan) []string {
	out := []string{}
	for _, d := range p.Days {
		out = append(out, d.ID)
	}
	return out
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Leg Day!!", "leg-day"},
		{"  Push / Pull  ", "push-pull"},
		{"---", ""},
		{"", ""},
		{"ÜBER Day", "ber-day"},
		{strings.Repeat("a", 50), strings.Repeat("a", 40)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.in), tt.in)
	}
}

func TestDeriveTag(t *testing.T) {
	assert.Equal(t, "backDay", DeriveTag("backDay", "Wednesday", "Back", fixedNow), "catalog tags are kept verbatim")
	assert.Equal(t, "my-value", DeriveTag("My Value", "Label", "Focus", fixedNow))
	assert.Equal(t, "leg-day", DeriveTag("", "Leg Day!!", "Focus", fixedNow))
	assert.Equal(t, "glutes", DeriveTag("", "!!!", "Glutes", fixedNow))
	assert.Equal(t, FallbackTag(fixedNow), DeriveTag("", "", "", fixedNow))
	assert.Equal(t, "plan-1772625600000", FallbackTag(fixedNow))
}

func TestPickColor(t *testing.T) {
	assert.Contains(t, Palette, PickColor("Leg Day"))
	assert.Equal(t, PickColor("Leg Day"), PickColor("Leg Day"))
	assert.Equal(t, Palette[0], PickColor(""))
}

func TestParseExerciseLines(t *testing.T) {
	assert.Equal(t, []string{"Squat - 5x5", "Lunge"}, ParseExerciseLines("  Squat - 5x5\n\n   \nLunge  \n"))
	assert.Equal(t, []string{}, ParseExerciseLines(""))
}

func TestDefaultPlan(t *testing.T) {
	p := New(nil)
	require.Len(t, p.Days, 6)
	for _, d := range p.Days {
		assert.True(t, domain.TrainingDay(d.Tag).Valid(), d.Tag)
	}
}

func TestUpsert_AppendsWithDefaults(t *testing.T) {
	p := newTestPlan([]domain.PlanDay{})
	day := p.Upsert(Form{Exercises: []string{"Row\n\n Curl "}})

	assert.Equal(t, "plan-new-1", day.ID)
	assert.Equal(t, DefaultDayLabel, day.DayLabel)
	assert.Equal(t, DefaultFocus, day.Focus)
	assert.Equal(t, FallbackTag(fixedNow), day.Tag, "nothing to slug")
	assert.Equal(t, []string{"Row", "Curl"}, day.Exercises)
	assert.Equal(t, PickColor(DefaultDayLabel), day.Color)
	assert.Len(t, p.Days, 1)
}

func TestUpsert_ReplacesInPlace(t *testing.T) {
	p := newTestPlan(nil)
	day := p.Upsert(Form{ID: "plan-wed", DayLabel: "Hump Day", Focus: "Pull", Color: "#000000"})

	assert.Equal(t, []string{"plan-mon", "plan-tue", "plan-wed", "plan-thu", "plan-fri", "plan-sat"}, ids(p))
	assert.Equal(t, "backDay", day.Tag, "editing without a value keeps the tag")
	assert.Equal(t, "Hump Day", p.Days[2].DayLabel)
	assert.Equal(t, "#000000", p.Days[2].Color)
}

func TestUpsert_CustomTagCollision(t *testing.T) {
	p := newTestPlan([]domain.PlanDay{})
	first := p.Upsert(Form{DayLabel: "Leg Day"})
	second := p.Upsert(Form{DayLabel: "Leg Day!!"})
	again := p.Upsert(Form{ID: first.ID, DayLabel: "Leg Day"})

	assert.Equal(t, "leg-day", first.Tag)
	assert.Equal(t, "leg-day-2", second.Tag)
	assert.Equal(t, "leg-day", again.Tag, "a day does not collide with itself")
}

func TestUpsert_CatalogTagsMayRepeat(t *testing.T) {
	p := newTestPlan(nil)
	day := p.Upsert(Form{DayLabel: "Sunday", Value: "backDay"})
	assert.Equal(t, "backDay", day.Tag)
}

func TestDeleteAndUndo(t *testing.T) {
	p := newTestPlan(nil)

	require.NoError(t, p.Delete("plan-wed"))
	assert.NotContains(t, ids(p), "plan-wed")

	assert.True(t, p.UndoDelete())
	assert.Equal(t, "plan-wed", p.Days[2].ID)
	assert.False(t, p.UndoDelete())
	assert.Len(t, p.Days, 6)

	assert.ErrorIs(t, p.Delete("nope"), ErrDayNotFound)
}

func TestUndoDelete_ClampsIndex(t *testing.T) {
	p := newTestPlan(nil)
	require.NoError(t, p.Delete("plan-sat"))
	p.Days = p.Days[:2]

	assert.True(t, p.UndoDelete())
	assert.Equal(t, []string{"plan-mon", "plan-tue", "plan-sat"}, ids(p))
}

func TestFind(t *testing.T) {
	p := newTestPlan(nil)
	d, ok := p.Find("plan-fri")
	assert.True(t, ok)
	assert.Equal(t, "Friday", d.DayLabel)
	_, ok = p.Find("")
	assert.False(t, ok)
}

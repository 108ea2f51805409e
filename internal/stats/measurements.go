package stats

import (
	"alcyxob/liftlog/internal/domain"
	"fmt"
	"math"
)

// Tone is the direction of a measurement change.
type Tone string

const (
	ToneUp   Tone = "up"
	ToneDown Tone = "down"
	ToneFlat Tone = "flat"
)

var arrows = map[Tone]string{ToneUp: "↑", ToneDown: "↓", ToneFlat: "→"}

// FieldChange is the change of one tracked value between the oldest and the
// latest entry.
type FieldChange struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Unit  string  `json:"unit"`
	Delta float64 `json:"delta"`
	Tone  Tone    `json:"tone"`
	Text  string  `json:"text"`
}

// MeasurementSummary compares the newest and the oldest entry of history.
type MeasurementSummary struct {
	Entries int           `json:"entries"`
	Changes []FieldChange `json:"changes"`
}

// SummarizeMeasurements expects history newest first. It returns nil when
// there are fewer than two entries. Fields missing on either end are skipped.
func SummarizeMeasurements(history []domain.Measurement) *MeasurementSummary {
	if len(history) < 2 {
		return nil
	}
	latest := history[0].BodyMetrics
	oldest := history[len(history)-1].BodyMetrics

	summary := &MeasurementSummary{Entries: len(history), Changes: []FieldChange{}}
	for _, f := range domain.MetricFields {
		to, from := latest.Value(f.Key), oldest.Value(f.Key)
		if to == nil || from == nil {
			continue
		}
		delta := *to - *from
		tone := toneOf(delta)
		summary.Changes = append(summary.Changes, FieldChange{
			Key:   f.Key,
			Label: f.Label,
			Unit:  f.Unit,
			Delta: delta,
			Tone:  tone,
			Text:  fmt.Sprintf("%s %.1f %s", arrows[tone], math.Abs(delta), f.Unit),
		})
	}
	return summary
}

func toneOf(delta float64) Tone {
	switch {
	case delta > 0:
		return ToneUp
	case delta < 0:
		return ToneDown
	default:
		return ToneFlat
	}
}

package domain

import (
	"time"
)

// BodyMetrics holds the seven tracked body values. Each is optional.
type BodyMetrics struct {
	WeightKg *float64 `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	ChestCm  *float64 `bson:"chestCm,omitempty" json:"chestCm,omitempty"`
	WaistCm  *float64 `bson:"waistCm,omitempty" json:"waistCm,omitempty"`
	HipsCm   *float64 `bson:"hipsCm,omitempty" json:"hipsCm,omitempty"`
	ThighCm  *float64 `bson:"thighCm,omitempty" json:"thighCm,omitempty"`
	ArmCm    *float64 `bson:"armCm,omitempty" json:"armCm,omitempty"`
	CalfCm   *float64 `bson:"calfCm,omitempty" json:"calfCm,omitempty"`
}

// MetricField names one of the BodyMetrics values.
type MetricField struct {
	Key   string
	Label string
	Unit  string
}

// MetricFields lists the tracked values in display order.
var MetricFields = []MetricField{
	{Key: "weightKg", Label: "Weight", Unit: "kg"},
	{Key: "chestCm", Label: "Chest", Unit: "cm"},
	{Key: "waistCm", Label: "Waist", Unit: "cm"},
	{Key: "hipsCm", Label: "Hips", Unit: "cm"},
	{Key: "thighCm", Label: "Thigh", Unit: "cm"},
	{Key: "armCm", Label: "Arm", Unit: "cm"},
	{Key: "calfCm", Label: "Calf", Unit: "cm"},
}

// Value returns a pointer to the field named by key, nil for unknown keys.
func (b *BodyMetrics) Value(key string) *float64 {
	switch key {
	case "weightKg":
		return b.WeightKg
	case "chestCm":
		return b.ChestCm
	case "waistCm":
		return b.WaistCm
	case "hipsCm":
		return b.HipsCm
	case "thighCm":
		return b.ThighCm
	case "armCm":
		return b.ArmCm
	case "calfCm":
		return b.CalfCm
	}
	return nil
}

// Set assigns the field named by key. Unknown keys are ignored.
func (b *BodyMetrics) Set(key string, v *float64) {
	switch key {
	case "weightKg":
		b.WeightKg = v
	case "chestCm":
		b.ChestCm = v
	case "waistCm":
		b.WaistCm = v
	case "hipsCm":
		b.HipsCm = v
	case "thighCm":
		b.ThighCm = v
	case "armCm":
		b.ArmCm = v
	case "calfCm":
		b.CalfCm = v
	}
}

// Measurement is one dated body measurement entry.
type Measurement struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	UserID      string    `bson:"userId" json:"userId"`
	TakenAt     time.Time `bson:"takenAt" json:"takenAt"`
	BodyMetrics `bson:",inline"`
}

// Goal holds the user's target values. There is at most one per user.
type Goal struct {
	UserID      string    `bson:"userId" json:"userId"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
	BodyMetrics `bson:",inline"`
}

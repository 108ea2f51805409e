package domain

// PlanDay is one entry of a user's weekly schedule. Tag links the day to
// catalog exercises and to the per-week completion set.
type PlanDay struct {
	ID        string   `bson:"id" json:"id"`
	DayLabel  string   `bson:"dayLabel" json:"dayLabel"`
	Tag       string   `bson:"tag" json:"value"`
	Focus     string   `bson:"focus" json:"focus"`
	Exercises []string `bson:"exercises" json:"exercises"`
	Color     string   `bson:"color" json:"color"`
}

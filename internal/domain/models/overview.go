package models

// PeriodTotal is one aggregated cost row coming back from the database.
// Quarter and Month are zero for coarser groupings.
type PeriodTotal struct {
	Year    int
	Quarter int
	Month   int
	Total   float64
}

// PeriodChange pairs a period total with its change against the
// immediately preceding period. ChangePct is 0 when the previous period
// is missing (gap), zero, or this is the first period.
type PeriodChange struct {
	Year      int     `json:"year"`
	Quarter   int     `json:"quarter,omitempty"`
	Month     int     `json:"month,omitempty"`
	Total     float64 `json:"total"`
	ChangePct float64 `json:"change_pct"`
}

// CostSummary is the roll-up for the current calendar year, quarter and
// month relative to "now". Averages are total / vehicle count, 0.0 for
// an empty fleet.
type CostSummary struct {
	VehicleCount int `json:"vehicle_count"`

	YearTotal   float64 `json:"year_total"`
	YearAverage float64 `json:"year_average"`

	QuarterTotal   float64 `json:"quarter_total"`
	QuarterAverage float64 `json:"quarter_average"`

	MonthTotal   float64 `json:"month_total"`
	MonthAverage float64 `json:"month_average"`

	YoYChangePct float64 `json:"yoy_change_pct"`
}

// RecurringIssue is one entry of the top part-failure list.
type RecurringIssue struct {
	PartName string `json:"part_name"`
	Count    int    `json:"count"`
}

// VehicleRef identifies a vehicle in health drill-down lists.
type VehicleRef struct {
	Registration string `json:"registration"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
}

// HealthMeasure aggregates one gap measure (service / insurance /
// license) across the fleet: percentage per bucket plus actionable
// drill-down lists.
type HealthMeasure struct {
	GoodPct     float64 `json:"good_pct"`
	WarningPct  float64 `json:"warning_pct"`
	CriticalPct float64 `json:"critical_pct"`

	Warning  []VehicleRef `json:"warning"`
	Critical []VehicleRef `json:"critical"`
}

// HealthReport holds the three independent classifications per vehicle.
type HealthReport struct {
	Service   HealthMeasure `json:"service"`
	Insurance HealthMeasure `json:"insurance"`
	License   HealthMeasure `json:"license"`
}

// OverviewReport is the full maintenance analytics payload for one
// owner's fleet.
type OverviewReport struct {
	Costs     CostSummary      `json:"costs"`
	Yearly    []PeriodChange   `json:"yearly"`
	Quarterly []PeriodChange   `json:"quarterly"`
	Monthly   []PeriodChange   `json:"monthly"`
	TopIssues []RecurringIssue `json:"top_issues"`
	Health    HealthReport     `json:"health"`
}

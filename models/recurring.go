package models

type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

// RecurringSettings is expanded once at booking time into concrete dates; the rule itself is not kept.
type RecurringSettings struct {
	Frequency  Frequency `json:"frequency"`
	Interval   int       `json:"interval,omitempty"`
	Count      int       `json:"count,omitempty"`
	EndDate    string    `json:"endDate,omitempty"`
	DaysOfWeek []int     `json:"daysOfWeek,omitempty"`
	DayOfMonth int       `json:"dayOfMonth,omitempty"`
}

type SeriesFailure struct {
	Date      string `json:"date"`
	ErrorCode string `json:"errorCode"`
	Reason    string `json:"reason"`
}

type SeriesResult struct {
	SeriesRef string          `json:"seriesRef"`
	Created   []Appointment   `json:"created"`
	Failed    []SeriesFailure `json:"failed"`
}

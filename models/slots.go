package models

// SlotRequest asks for start times of RequiredDuration minutes on a resource's day.
type SlotRequest struct {
	ResourceID       string `json:"resourceId"`
	Date             string `json:"date"`
	RequiredDuration int    `json:"requiredDuration"`
	Granularity      int    `json:"granularity"`
}

type ResourceAvailability struct {
	ResourceID string `json:"resourceId"`
	Starts     []int  `json:"-"`
}

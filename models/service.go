package models

// Service is a catalogue entry a customer can book.
type Service struct {
	ID                  string `bson:"id" json:"id"`
	SalonID             string `bson:"salonId" json:"salonId"`
	Name                string `bson:"name" json:"name"`
	DurationMinutes     int    `bson:"durationMinutes" json:"durationMinutes"`
	Price               Money  `bson:"price" json:"price"`
	SlotIntervalMinutes int    `bson:"slotIntervalMinutes,omitempty" json:"slotIntervalMinutes,omitempty"`
	Active              bool   `bson:"active" json:"active"`
}

// ServiceSelection is one service chosen for an appointment, resolved against the catalogue.
type ServiceSelection struct {
	ServiceID           string `json:"serviceId"`
	Name                string `json:"name"`
	DurationMinutes     int    `json:"durationMinutes"`
	Price               Money  `json:"price"`
	Quantity            int    `json:"quantity"`
	SlotIntervalMinutes int    `json:"slotIntervalMinutes,omitempty"`
}

// EffectiveQuantity treats a missing quantity as one.
func (s ServiceSelection) EffectiveQuantity() int {
	if s.Quantity <= 0 {
		return 1
	}
	return s.Quantity
}

// TotalDuration is the sum of duration * quantity over the selections.
func TotalDuration(selections []ServiceSelection) int {
	total := 0
	for _, s := range selections {
		total += s.DurationMinutes * s.EffectiveQuantity()
	}
	return total
}

// MaxDurationOf returns the largest total duration among the given selection sets.
func MaxDurationOf(sets ...[]ServiceSelection) int {
	longest := 0
	for _, set := range sets {
		if d := TotalDuration(set); d > longest {
			longest = d
		}
	}
	return longest
}

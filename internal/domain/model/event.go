package model

import "time"

// Event is a timestamped activity record. Incoming order is not meaningful.
type Event struct {
	Type         string    `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
	NewValue     *float64  `json:"newValue,omitempty"`
	PointsChange *float64  `json:"pointsChange,omitempty"`
	Platform     string    `json:"platform,omitempty"`
	Significance string    `json:"significance,omitempty"`
	Description  string    `json:"description,omitempty"`
}

// Value returns NewValue or 0.
func (e Event) Value() float64 {
	if e.NewValue == nil {
		return 0
	}
	return *e.NewValue
}

// Delta returns PointsChange or 0.
func (e Event) Delta() float64 {
	if e.PointsChange == nil {
		return 0
	}
	return *e.PointsChange
}

package model

// Alarm is a titled, described, time-of-day reminder.
type Alarm struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Time        string `json:"time"`                  // HH:MM, 24-hour
	DateCreated *int64 `json:"dateCreated,omitempty"` // Epoch millis; absent on older records
}

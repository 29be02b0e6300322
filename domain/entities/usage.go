package entities

import "time"

// DayFormat is the calendar-day key used by the usage ledger. Days are
// reckoned in UTC so that a user's quota resets at a fixed instant.
const DayFormat = "2006-01-02"

// DayOf returns the ledger day key for the given instant.
func DayOf(t time.Time) string {
	return t.UTC().Format(DayFormat)
}

// UsageRecord is the per-user, per-day accumulator of practice minutes and
// session count. At most one record exists per (user, day); it is created
// lazily on the first session end of the day and only ever incremented.
type UsageRecord struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	UserID        string    `json:"user_id" bson:"user_id"`
	Date          string    `json:"date" bson:"date"`
	MinutesUsed   int       `json:"minutes_used" bson:"minutes_used"`
	SessionsCount int       `json:"sessions_count" bson:"sessions_count"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

// BillableMinutes converts a session duration into ledger minutes. Minutes
// are floored, but every ended session is charged at least one minute: a
// 10 second session still consumes 1 minute of quota.
func BillableMinutes(durationSeconds int) int {
	minutes := durationSeconds / 60
	if minutes < 1 {
		return 1
	}
	return minutes
}

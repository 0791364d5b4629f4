package models

import "time"

type ReminderType string

const (
	ReminderTypeMeal  ReminderType = "meal"
	ReminderTypeSnack ReminderType = "snack"
	ReminderTypeWater ReminderType = "water"
)

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// ReminderStatus is the persisted lifecycle status. The "countdown" label is
// derived at read time and never stored.
type ReminderStatus string

const (
	StatusPending   ReminderStatus = "pending"
	StatusDelayed   ReminderStatus = "delayed"
	StatusPostponed ReminderStatus = "postponed"
	StatusMissed    ReminderStatus = "missed"
	StatusCompleted ReminderStatus = "completed"
	StatusSkipped   ReminderStatus = "skipped"
)

// IsTerminal reports whether no further transition is allowed.
func (s ReminderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusSkipped
}

// ScheduledReminder is one generated entry of a day plan.
type ScheduledReminder struct {
	Type          ReminderType `json:"type"`
	ScheduledTime string       `json:"scheduled_time"` // HH:MM
	MealType      MealType     `json:"meal_type,omitempty"`
	At            time.Time    `json:"at"`
	Rescheduled   bool         `json:"rescheduled,omitempty"`
}

// Reminder is the durable record materialized from a ScheduledReminder.
type Reminder struct {
	ID            string         `json:"id"`
	UserID        int64          `json:"user_id"`
	DayKey        string         `json:"day_key"`
	Type          ReminderType   `json:"type"`
	MealType      MealType       `json:"meal_type,omitempty"`
	ScheduledTime string         `json:"scheduled_time"` // HH:MM
	ScheduledAt   time.Time      `json:"scheduled_at"`   // resolved instant, zero for legacy rows
	Status        ReminderStatus `json:"status"`
	DelayedUntil  *time.Time     `json:"delayed_until"` // target of a delayed or postponed reminder
	CompletedAt   *time.Time     `json:"completed_at"`
	NotifiedAt    *time.Time     `json:"notified_at"`     // Last notification time for this reminder
	LastMessageID *int           `json:"last_message_id"` // Last sent message ID for deletion before resend
	UpdatedAt     time.Time      `json:"updated_at"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Label returns a short human name for the reminder.
func (r *Reminder) Label() string {
	switch r.Type {
	case ReminderTypeWater:
		return "Water"
	case ReminderTypeSnack:
		return "Snack"
	}
	switch r.MealType {
	case MealBreakfast:
		return "Breakfast"
	case MealLunch:
		return "Lunch"
	case MealDinner:
		return "Dinner"
	}
	return "Meal"
}

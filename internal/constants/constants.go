package constants

// HabitType distinguishes habits you build up from habits you quit
type HabitType string

// Frequency represents how often a habit recurs
type Frequency string

// Recurring represents a task's recurrence pattern
type Recurring string

// GoalStatus represents the lifecycle state of a goal
type GoalStatus string

// Priority represents task/goal priority
type Priority string

const (
	AppName            = "stride"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/stride/stride.db"
	Version            = "v0.3.0"

	// DateFormat is the civil-day format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the time-of-day format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// DefaultTimezone is the reference timezone for civil-day boundaries.
	// Every day-derivation call goes through calendar.Config so the toggle
	// path and the report path can never disagree on what "today" is.
	DefaultTimezone = "UTC"

	// Habit types
	HabitBuild HabitType = "build"
	HabitQuit  HabitType = "quit"

	// Habit frequencies
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"

	// Task recurrence
	RecurringNone    Recurring = "none"
	RecurringDaily   Recurring = "daily"
	RecurringWeekly  Recurring = "weekly"
	RecurringMonthly Recurring = "monthly"

	// Goal statuses
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalCancelled GoalStatus = "cancelled"

	// Priorities
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"

	// TrendWindowDays is the trailing window used by premium trend reports
	TrendWindowDays = 7

	// ExpiryWindowDays is the "due soon" horizon for goal reports
	ExpiryWindowDays = 7

	// CompletionTimelineDays is the trailing window for the goal completion timeline
	CompletionTimelineDays = 30

	DefaultCategory = "General"
)

// WeekdayNames lists the full weekday names in time.Weekday order
// (Sunday first). Habit and task weekday sets use these names.
var WeekdayNames = []string{
	"Sunday",
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
}

package storage

import (
	"path/filepath"

	"github.com/strideapp/stride/internal/models"
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetAllHabits(includeArchived bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	ArchiveHabit(id string) error
	DeleteHabit(id string) error

	// Goals
	AddGoal(models.Goal) error
	GetGoal(id string) (models.Goal, error)
	GetAllGoals() ([]models.Goal, error)
	UpdateGoal(models.Goal) error
	DeleteGoal(id string) error

	// Tasks
	AddTask(models.Task) error
	GetTask(id string) (models.Task, error)
	GetAllTasks() ([]models.Task, error)
	UpdateTask(models.Task) error
	DeleteTask(id string) error

	// Utils
	GetConfigPath() string
}

// NewProvider selects a backend from the config path: ".json" files get the
// JSON store, anything else the SQLite store. Postgres is chosen explicitly
// via NewPostgresStore with a connection string.
func NewProvider(path string) Provider {
	if filepath.Ext(path) == ".json" {
		return NewJSONStore(path)
	}
	return NewSQLiteStore(path)
}

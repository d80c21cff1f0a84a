package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/models"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

// schema is applied on every Init and Load; all statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS habits (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL,
		frequency TEXT NOT NULL,
		days TEXT NOT NULL DEFAULT '[]',
		start_date TEXT NOT NULL,
		created_at TEXT NOT NULL,
		completed_dates TEXT NOT NULL DEFAULT '[]',
		slip_dates TEXT NOT NULL DEFAULT '[]',
		streak INTEGER NOT NULL DEFAULT 0,
		longest_streak INTEGER NOT NULL DEFAULT 0,
		last_completed_at TEXT,
		linked_goal_id TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		icon TEXT NOT NULL DEFAULT '',
		is_archived INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS goals (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		target_date TEXT NOT NULL,
		status TEXT NOT NULL,
		progress INTEGER NOT NULL DEFAULT 0,
		linked_habit_ids TEXT NOT NULL DEFAULT '[]',
		priority TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		missed_days INTEGER NOT NULL DEFAULT 0,
		current_streak INTEGER NOT NULL DEFAULT 0,
		longest_streak INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		completed_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		recurring TEXT NOT NULL,
		days TEXT NOT NULL DEFAULT '[]',
		start_time TEXT NOT NULL DEFAULT '',
		end_time TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		priority TEXT NOT NULL,
		completed_dates TEXT NOT NULL DEFAULT '[]',
		is_completed INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,
}

func (s *SQLiteStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.bootstrap(); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// Initialize default settings if not present
	if _, err := s.GetSettings(); err != nil {
		defaults := models.Settings{Timezone: constants.DefaultTimezone}
		if err := s.SaveSettings(defaults); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'stride init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	return s.bootstrap()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) bootstrap() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) GetSettings() (models.Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	settings := models.Settings{}
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		switch key {
		case "timezone":
			settings.Timezone = value
		case "premium":
			settings.Premium = value == "true"
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}

	if count == 0 {
		return models.Settings{}, fmt.Errorf("settings not found")
	}

	return settings, nil
}

func (s *SQLiteStore) SaveSettings(settings models.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	if _, err := stmt.Exec("timezone", settings.Timezone); err != nil {
		return err
	}
	premium := "false"
	if settings.Premium {
		premium = "true"
	}
	if _, err := stmt.Exec("premium", premium); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) AddHabit(habit models.Habit) error {
	return s.writeHabit(habit, "INSERT")
}

func (s *SQLiteStore) UpdateHabit(habit models.Habit) error {
	return s.writeHabit(habit, "INSERT OR REPLACE")
}

func (s *SQLiteStore) writeHabit(habit models.Habit, verb string) error {
	days, err := encodeStrings(habit.Days)
	if err != nil {
		return err
	}
	completed, err := encodeStrings(habit.CompletedDates)
	if err != nil {
		return err
	}
	slips, err := encodeStrings(habit.SlipDates)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(verb+` INTO habits (
		id, title, description, type, frequency, days, start_date, created_at,
		completed_dates, slip_dates, streak, longest_streak, last_completed_at,
		linked_goal_id, category, icon, is_archived
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.Title, habit.Description, string(habit.Type), string(habit.Frequency),
		days, encodeTime(habit.StartDate), encodeTime(habit.CreatedAt),
		completed, slips, habit.Streak, habit.LongestStreak, encodeTimePtr(habit.LastCompletedAt),
		habit.LinkedGoalID, habit.Category, habit.Icon, habit.IsArchived,
	)
	return err
}

func (s *SQLiteStore) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, title, description, type, frequency, days, start_date, created_at,
		       completed_dates, slip_dates, streak, longest_streak, last_completed_at,
		       linked_goal_id, category, icon, is_archived
		FROM habits WHERE id = ?`, id)
	return scanHabit(row)
}

func (s *SQLiteStore) GetAllHabits(includeArchived bool) ([]models.Habit, error) {
	query := `
		SELECT id, title, description, type, frequency, days, start_date, created_at,
		       completed_dates, slip_dates, streak, longest_streak, last_completed_at,
		       linked_goal_id, category, icon, is_archived
		FROM habits`
	if !includeArchived {
		query += " WHERE is_archived = 0"
	}
	query += " ORDER BY created_at"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		habit, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, habit)
	}
	return habits, rows.Err()
}

func (s *SQLiteStore) ArchiveHabit(id string) error {
	res, err := s.db.Exec("UPDATE habits SET is_archived = 1 WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res, "habit", id)
}

func (s *SQLiteStore) DeleteHabit(id string) error {
	res, err := s.db.Exec("DELETE FROM habits WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res, "habit", id)
}

func (s *SQLiteStore) AddGoal(goal models.Goal) error {
	return s.writeGoal(goal, "INSERT")
}

func (s *SQLiteStore) UpdateGoal(goal models.Goal) error {
	return s.writeGoal(goal, "INSERT OR REPLACE")
}

func (s *SQLiteStore) writeGoal(goal models.Goal, verb string) error {
	linked, err := encodeStrings(goal.LinkedHabitIDs)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(verb+` INTO goals (
		id, title, description, target_date, status, progress, linked_habit_ids,
		priority, category, missed_days, current_streak, longest_streak,
		created_at, completed_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		goal.ID, goal.Title, goal.Description, encodeTime(goal.TargetDate), string(goal.Status),
		goal.Progress, linked, string(goal.Priority), goal.Category,
		goal.MissedDays, goal.CurrentStreak, goal.LongestStreak,
		encodeTime(goal.CreatedAt), encodeTimePtr(goal.CompletedAt),
	)
	return err
}

func (s *SQLiteStore) GetGoal(id string) (models.Goal, error) {
	row := s.db.QueryRow(`
		SELECT id, title, description, target_date, status, progress, linked_habit_ids,
		       priority, category, missed_days, current_streak, longest_streak,
		       created_at, completed_at
		FROM goals WHERE id = ?`, id)
	return scanGoal(row)
}

func (s *SQLiteStore) GetAllGoals() ([]models.Goal, error) {
	rows, err := s.db.Query(`
		SELECT id, title, description, target_date, status, progress, linked_habit_ids,
		       priority, category, missed_days, current_streak, longest_streak,
		       created_at, completed_at
		FROM goals ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

func (s *SQLiteStore) DeleteGoal(id string) error {
	res, err := s.db.Exec("DELETE FROM goals WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res, "goal", id)
}

func (s *SQLiteStore) AddTask(task models.Task) error {
	return s.writeTask(task, "INSERT")
}

func (s *SQLiteStore) UpdateTask(task models.Task) error {
	return s.writeTask(task, "INSERT OR REPLACE")
}

func (s *SQLiteStore) writeTask(task models.Task, verb string) error {
	days, err := encodeStrings(task.Days)
	if err != nil {
		return err
	}
	completed, err := encodeStrings(task.CompletedDates)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(verb+` INTO tasks (
		id, title, description, recurring, days, start_time, end_time,
		category, priority, completed_dates, is_completed, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Title, task.Description, string(task.Recurring), days,
		task.StartTime, task.EndTime, task.Category, string(task.Priority),
		completed, task.IsCompleted, encodeTime(task.CreatedAt),
	)
	return err
}

func (s *SQLiteStore) GetTask(id string) (models.Task, error) {
	row := s.db.QueryRow(`
		SELECT id, title, description, recurring, days, start_time, end_time,
		       category, priority, completed_dates, is_completed, created_at
		FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

func (s *SQLiteStore) GetAllTasks() ([]models.Task, error) {
	rows, err := s.db.Query(`
		SELECT id, title, description, recurring, days, start_time, end_time,
		       category, priority, completed_dates, is_completed, created_at
		FROM tasks ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (s *SQLiteStore) DeleteTask(id string) error {
	res, err := s.db.Exec("DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res, "task", id)
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

func requireRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s not found: %s", kind, id)
	}
	return nil
}

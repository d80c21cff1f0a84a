package storage

import (
	"database/sql"
	"fmt"

	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/models"
	_ "github.com/lib/pq"
)

type PostgresStore struct {
	connStr string
	db      *sql.DB
}

func NewPostgresStore(connStr string) *PostgresStore {
	return &PostgresStore{
		connStr: connStr,
	}
}

var pgSchema = []string{
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
		is_archived BOOLEAN NOT NULL DEFAULT FALSE
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
		is_completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	)`,
}

func (s *PostgresStore) Init() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := s.bootstrap(); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if _, err := s.GetSettings(); err != nil {
		defaults := models.Settings{Timezone: constants.DefaultTimezone}
		if err := s.SaveSettings(defaults); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *PostgresStore) Load() error {
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	return s.bootstrap()
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PostgresStore) bootstrap() error {
	for _, stmt := range pgSchema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) GetSettings() (models.Settings, error) {
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

func (s *PostgresStore) SaveSettings(settings models.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`)
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

func (s *PostgresStore) AddHabit(habit models.Habit) error {
	return s.writeHabit(habit, false)
}

func (s *PostgresStore) UpdateHabit(habit models.Habit) error {
	return s.writeHabit(habit, true)
}

func (s *PostgresStore) writeHabit(habit models.Habit, upsert bool) error {
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

	query := `INSERT INTO habits (
		id, title, description, type, frequency, days, start_date, created_at,
		completed_dates, slip_dates, streak, longest_streak, last_completed_at,
		linked_goal_id, category, icon, is_archived
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	if upsert {
		query += ` ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title, description = EXCLUDED.description,
			type = EXCLUDED.type, frequency = EXCLUDED.frequency,
			days = EXCLUDED.days, start_date = EXCLUDED.start_date,
			created_at = EXCLUDED.created_at, completed_dates = EXCLUDED.completed_dates,
			slip_dates = EXCLUDED.slip_dates, streak = EXCLUDED.streak,
			longest_streak = EXCLUDED.longest_streak, last_completed_at = EXCLUDED.last_completed_at,
			linked_goal_id = EXCLUDED.linked_goal_id, category = EXCLUDED.category,
			icon = EXCLUDED.icon, is_archived = EXCLUDED.is_archived`
	}

	_, err = s.db.Exec(query,
		habit.ID, habit.Title, habit.Description, string(habit.Type), string(habit.Frequency),
		days, encodeTime(habit.StartDate), encodeTime(habit.CreatedAt),
		completed, slips, habit.Streak, habit.LongestStreak, encodeTimePtr(habit.LastCompletedAt),
		habit.LinkedGoalID, habit.Category, habit.Icon, habit.IsArchived,
	)
	return err
}

func (s *PostgresStore) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, title, description, type, frequency, days, start_date, created_at,
		       completed_dates, slip_dates, streak, longest_streak, last_completed_at,
		       linked_goal_id, category, icon, is_archived
		FROM habits WHERE id = $1`, id)
	return scanHabit(row)
}

func (s *PostgresStore) GetAllHabits(includeArchived bool) ([]models.Habit, error) {
	query := `
		SELECT id, title, description, type, frequency, days, start_date, created_at,
		       completed_dates, slip_dates, streak, longest_streak, last_completed_at,
		       linked_goal_id, category, icon, is_archived
		FROM habits`
	if !includeArchived {
		query += " WHERE is_archived = FALSE"
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

func (s *PostgresStore) ArchiveHabit(id string) error {
	res, err := s.db.Exec("UPDATE habits SET is_archived = TRUE WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRow(res, "habit", id)
}

func (s *PostgresStore) DeleteHabit(id string) error {
	res, err := s.db.Exec("DELETE FROM habits WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRow(res, "habit", id)
}

func (s *PostgresStore) AddGoal(goal models.Goal) error {
	return s.writeGoal(goal, false)
}

func (s *PostgresStore) UpdateGoal(goal models.Goal) error {
	return s.writeGoal(goal, true)
}

func (s *PostgresStore) writeGoal(goal models.Goal, upsert bool) error {
	linked, err := encodeStrings(goal.LinkedHabitIDs)
	if err != nil {
		return err
	}

	query := `INSERT INTO goals (
		id, title, description, target_date, status, progress, linked_habit_ids,
		priority, category, missed_days, current_streak, longest_streak,
		created_at, completed_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	if upsert {
		query += ` ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title, description = EXCLUDED.description,
			target_date = EXCLUDED.target_date, status = EXCLUDED.status,
			progress = EXCLUDED.progress, linked_habit_ids = EXCLUDED.linked_habit_ids,
			priority = EXCLUDED.priority, category = EXCLUDED.category,
			missed_days = EXCLUDED.missed_days, current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak, created_at = EXCLUDED.created_at,
			completed_at = EXCLUDED.completed_at`
	}

	_, err = s.db.Exec(query,
		goal.ID, goal.Title, goal.Description, encodeTime(goal.TargetDate), string(goal.Status),
		goal.Progress, linked, string(goal.Priority), goal.Category,
		goal.MissedDays, goal.CurrentStreak, goal.LongestStreak,
		encodeTime(goal.CreatedAt), encodeTimePtr(goal.CompletedAt),
	)
	return err
}

func (s *PostgresStore) GetGoal(id string) (models.Goal, error) {
	row := s.db.QueryRow(`
		SELECT id, title, description, target_date, status, progress, linked_habit_ids,
		       priority, category, missed_days, current_streak, longest_streak,
		       created_at, completed_at
		FROM goals WHERE id = $1`, id)
	return scanGoal(row)
}

func (s *PostgresStore) GetAllGoals() ([]models.Goal, error) {
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

func (s *PostgresStore) DeleteGoal(id string) error {
	res, err := s.db.Exec("DELETE FROM goals WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRow(res, "goal", id)
}

func (s *PostgresStore) AddTask(task models.Task) error {
	return s.writeTask(task, false)
}

func (s *PostgresStore) UpdateTask(task models.Task) error {
	return s.writeTask(task, true)
}

func (s *PostgresStore) writeTask(task models.Task, upsert bool) error {
	days, err := encodeStrings(task.Days)
	if err != nil {
		return err
	}
	completed, err := encodeStrings(task.CompletedDates)
	if err != nil {
		return err
	}

	query := `INSERT INTO tasks (
		id, title, description, recurring, days, start_time, end_time,
		category, priority, completed_dates, is_completed, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	if upsert {
		query += ` ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title, description = EXCLUDED.description,
			recurring = EXCLUDED.recurring, days = EXCLUDED.days,
			start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time,
			category = EXCLUDED.category, priority = EXCLUDED.priority,
			completed_dates = EXCLUDED.completed_dates, is_completed = EXCLUDED.is_completed,
			created_at = EXCLUDED.created_at`
	}

	_, err = s.db.Exec(query,
		task.ID, task.Title, task.Description, string(task.Recurring), days,
		task.StartTime, task.EndTime, task.Category, string(task.Priority),
		completed, task.IsCompleted, encodeTime(task.CreatedAt),
	)
	return err
}

func (s *PostgresStore) GetTask(id string) (models.Task, error) {
	row := s.db.QueryRow(`
		SELECT id, title, description, recurring, days, start_time, end_time,
		       category, priority, completed_dates, is_completed, created_at
		FROM tasks WHERE id = $1`, id)
	return scanTask(row)
}

func (s *PostgresStore) GetAllTasks() ([]models.Task, error) {
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

func (s *PostgresStore) DeleteTask(id string) error {
	res, err := s.db.Exec("DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRow(res, "task", id)
}

func (s *PostgresStore) GetConfigPath() string {
	return s.connStr
}

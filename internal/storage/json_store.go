package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/models"
)

type Store struct {
	Version  int                     `json:"version"`
	Settings models.Settings         `json:"settings"`
	Habits   map[string]models.Habit `json:"habits"`
	Goals    map[string]models.Goal  `json:"goals"`
	Tasks    map[string]models.Task  `json:"tasks"`
}

type JSONStore struct {
	path  string
	mu    sync.Mutex
	store *Store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	// Initialize with default settings
	s.store = &Store{
		Version: 1,
		Settings: models.Settings{
			Timezone: constants.DefaultTimezone,
		},
		Habits: make(map[string]models.Habit),
		Goals:  make(map[string]models.Goal),
		Tasks:  make(map[string]models.Task),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'stride init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &Store{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	// Ensure maps are initialized
	if s.store.Habits == nil {
		s.store.Habits = make(map[string]models.Habit)
	}
	if s.store.Goals == nil {
		s.store.Goals = make(map[string]models.Goal)
	}
	if s.store.Tasks == nil {
		s.store.Tasks = make(map[string]models.Task)
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) GetSettings() (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return models.Settings{}, fmt.Errorf("storage not loaded")
	}
	return s.store.Settings, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Settings = settings
	return s.save()
}

func (s *JSONStore) AddHabit(habit models.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Habits[habit.ID] = habit
	return s.save()
}

func (s *JSONStore) GetHabit(id string) (models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return models.Habit{}, fmt.Errorf("storage not loaded")
	}
	habit, ok := s.store.Habits[id]
	if !ok {
		return models.Habit{}, fmt.Errorf("habit not found: %s", id)
	}
	return habit, nil
}

func (s *JSONStore) GetAllHabits(includeArchived bool) ([]models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	habits := make([]models.Habit, 0, len(s.store.Habits))
	for _, habit := range s.store.Habits {
		if habit.IsArchived && !includeArchived {
			continue
		}
		habits = append(habits, habit)
	}
	return habits, nil
}

func (s *JSONStore) UpdateHabit(habit models.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	if _, ok := s.store.Habits[habit.ID]; !ok {
		return fmt.Errorf("habit not found: %s", habit.ID)
	}
	s.store.Habits[habit.ID] = habit
	return s.save()
}

func (s *JSONStore) ArchiveHabit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	habit, ok := s.store.Habits[id]
	if !ok {
		return fmt.Errorf("habit not found: %s", id)
	}
	habit.IsArchived = true
	s.store.Habits[id] = habit
	return s.save()
}

func (s *JSONStore) DeleteHabit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	if _, ok := s.store.Habits[id]; !ok {
		return fmt.Errorf("habit not found: %s", id)
	}
	delete(s.store.Habits, id)
	return s.save()
}

func (s *JSONStore) AddGoal(goal models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Goals[goal.ID] = goal
	return s.save()
}

func (s *JSONStore) GetGoal(id string) (models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return models.Goal{}, fmt.Errorf("storage not loaded")
	}
	goal, ok := s.store.Goals[id]
	if !ok {
		return models.Goal{}, fmt.Errorf("goal not found: %s", id)
	}
	return goal, nil
}

func (s *JSONStore) GetAllGoals() ([]models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	goals := make([]models.Goal, 0, len(s.store.Goals))
	for _, goal := range s.store.Goals {
		goals = append(goals, goal)
	}
	return goals, nil
}

func (s *JSONStore) UpdateGoal(goal models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	if _, ok := s.store.Goals[goal.ID]; !ok {
		return fmt.Errorf("goal not found: %s", goal.ID)
	}
	s.store.Goals[goal.ID] = goal
	return s.save()
}

func (s *JSONStore) DeleteGoal(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	if _, ok := s.store.Goals[id]; !ok {
		return fmt.Errorf("goal not found: %s", id)
	}
	delete(s.store.Goals, id)
	return s.save()
}

func (s *JSONStore) AddTask(task models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Tasks[task.ID] = task
	return s.save()
}

func (s *JSONStore) GetTask(id string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return models.Task{}, fmt.Errorf("storage not loaded")
	}
	task, ok := s.store.Tasks[id]
	if !ok {
		return models.Task{}, fmt.Errorf("task not found: %s", id)
	}
	return task, nil
}

func (s *JSONStore) GetAllTasks() ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	tasks := make([]models.Task, 0, len(s.store.Tasks))
	for _, task := range s.store.Tasks {
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (s *JSONStore) UpdateTask(task models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	if _, ok := s.store.Tasks[task.ID]; !ok {
		return fmt.Errorf("task not found: %s", task.ID)
	}
	s.store.Tasks[task.ID] = task
	return s.save()
}

func (s *JSONStore) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	if _, ok := s.store.Tasks[id]; !ok {
		return fmt.Errorf("task not found: %s", id)
	}
	delete(s.store.Tasks, id)
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

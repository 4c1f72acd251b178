package task

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/tford-dev/tasks-app-api/internal/task/entity"
	taskrepo "github.com/tford-dev/tasks-app-api/internal/task/repo"
	userentity "github.com/tford-dev/tasks-app-api/internal/user/entity"
	"github.com/tford-dev/tasks-app-api/internal/validate"
)

// Repository is the store surface the service needs; *repo.TaskRepo
// satisfies it and tests substitute fakes.
type Repository interface {
	Create(ctx context.Context, t *entity.Task) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.Task, error)
	ListByUser(ctx context.Context, userID int64) ([]entity.Task, error)
	Update(ctx context.Context, t *entity.Task) error
	Delete(ctx context.Context, id int64) error
}

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrAccessDenied = errors.New("access denied")
)

// Authorize decides whether user may read or mutate task. An absent
// task is not-found; a task owned by someone else is forbidden, and the
// caller learns nothing about its contents.
func Authorize(u *userentity.User, t *entity.Task) error {
	if t == nil {
		return ErrTaskNotFound
	}
	if t.UserID != u.ID {
		return ErrAccessDenied
	}
	return nil
}

// Input is the mutable task payload from create/update requests.
type Input struct {
	Title       string
	Description string
	Time        string
}

func (in Input) check() error {
	return validate.Check(
		validate.NonEmpty("title", in.Title, "You must enter a value for title."),
		validate.NonEmpty("description", in.Description, "You must enter a value for description."),
	)
}

// TaskService orchestrates task CRUD and the ownership decision.
type TaskService struct {
	repo Repository
}

func NewTaskService(db *sqlx.DB, r Repository) *TaskService {
	if r == nil {
		r = taskrepo.NewTaskRepo(db)
	}
	return &TaskService{repo: r}
}

// Create stores a new task owned by u.
func (s *TaskService) Create(ctx context.Context, u *userentity.User, in Input) (*entity.Task, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	t := &entity.Task{
		Title:       in.Title,
		Description: in.Description,
		Time:        in.Time,
		UserID:      u.ID,
	}
	if _, err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get returns the task if u owns it.
func (s *TaskService) Get(ctx context.Context, u *userentity.User, id int64) (*entity.Task, error) {
	t, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(u, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ListForUser returns u's tasks, newest created first.
func (s *TaskService) ListForUser(ctx context.Context, u *userentity.User) ([]entity.Task, error) {
	return s.repo.ListByUser(ctx, u.ID)
}

// Update validates the input first so an invalid payload never touches
// the stored row, then applies the ownership decision and mutates.
func (s *TaskService) Update(ctx context.Context, u *userentity.User, id int64, in Input) error {
	if err := in.check(); err != nil {
		return err
	}
	t, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(u, t); err != nil {
		return err
	}
	t.Title = in.Title
	t.Description = in.Description
	t.Time = in.Time
	return s.repo.Update(ctx, t)
}

// Delete removes the task if u owns it.
func (s *TaskService) Delete(ctx context.Context, u *userentity.User, id int64) error {
	t, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(u, t); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *TaskService) fetch(ctx context.Context, id int64) (*entity.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

package repo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tford-dev/tasks-app-api/internal/task/entity"
)

func newRepoWithMock(t *testing.T) (*TaskRepo, sqlmock.Sqlmock, *sqlx.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return NewTaskRepo(sqlxDB), mock, sqlxDB
}

var taskColumns = []string{"id", "title", "description", "time", "user_id", "created_at", "updated_at"}

func TestCreate_ReturnsID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO tasks \(title, description, time, user_id\)`).
		WithArgs("t", "d", "8:00 AM", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	task := &entity.Task{Title: "t", Description: "d", Time: "8:00 AM", UserID: 1}
	id, err := repo.Create(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUser_ScopesAndOrders(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM tasks WHERE user_id=\$1 ORDER BY created_at DESC`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(taskColumns).
			AddRow(int64(2), "newer", "d", "", int64(1), now, now).
			AddRow(int64(1), "older", "d", "", int64(1), now.Add(-time.Hour), now))

	tasks, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "newer", tasks[0].Title)
	assert.Equal(t, "older", tasks[1].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUser_EmptyIsNotNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM tasks WHERE user_id=\$1`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(taskColumns))

	tasks, err := repo.ListByUser(context.Background(), 9)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestGetByID_NoRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM tasks WHERE id=\$1`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUpdate_MutatesRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE tasks SET title=\$2, description=\$3, time=\$4, updated_at=NOW\(\) WHERE id=\$1`).
		WithArgs(int64(5), "t2", "d2", "noon").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &entity.Task{ID: 5, Title: "t2", Description: "d2", Time: "noon"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_RemovesRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM tasks WHERE id=\$1`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

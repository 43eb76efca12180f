package threads

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var (
	cols = []string{"id", "user_id", "last_activity_at", "created_at"}
	t0   = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
)

const (
	insertQ  = `(?s)^INSERT\s+INTO\s+threads\s*\(user_id,\s*last_activity_at,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$2\)\s*RETURNING\s+id\s*$`
	activeQ  = `(?s)^SELECT\s+id,\s*user_id,\s*last_activity_at,\s*created_at\s+FROM\s+threads\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+last_activity_at\s*>=\s*\$2\s+ORDER\s+BY\s+last_activity_at\s+DESC,\s*id\s+ASC\s+LIMIT\s+1\s*$`
	byIDQ    = `(?s)^SELECT\s+id,\s*user_id,\s*last_activity_at,\s*created_at\s+FROM\s+threads\s+WHERE\s+id\s*=\s*\$1\s*$`
	touchQ   = `(?s)^UPDATE\s+threads\s+SET\s+last_activity_at\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1\s*$`
	listAllQ = `(?s)^SELECT\s+id,\s*user_id,\s*last_activity_at,\s*created_at\s+FROM\s+threads\s+ORDER\s+BY\s+last_activity_at\s+DESC,\s*id\s+ASC\s+LIMIT\s+\$1\s+OFFSET\s+\$2\s*$`
	listInQ  = `(?s)^SELECT\s+id,\s*user_id,\s*last_activity_at,\s*created_at\s+FROM\s+threads\s+WHERE\s+user_id\s+IN\s+\(\$1,\s*\$2\)\s+ORDER\s+BY\s+last_activity_at\s+DESC,\s*id\s+ASC\s+LIMIT\s+\$3\s+OFFSET\s+\$4\s*$`
)

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).WithArgs(int64(1), t0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))

	got, err := repo.Create(context.Background(), 1, t0)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.ID)
	assert.Equal(t, int64(1), got.UserID)
	assert.Equal(t, t0, got.LastActivityAt)
	assert.Equal(t, t0, got.CreatedAt)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).WithArgs(int64(1), t0).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), 1, t0)
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestFindActive(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	cutoff := t0.Add(-30 * time.Minute)
	mock.ExpectQuery(activeQ).WithArgs(int64(1), cutoff).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(4), int64(1), t0, t0.Add(-time.Hour)))

	got, err := repo.FindActive(context.Background(), 1, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.ID)
	assert.Equal(t, t0, got.LastActivityAt)
}

func TestFindActive_None(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(activeQ).WithArgs(int64(1), t0).WillReturnRows(sqlmock.NewRows(cols))

	_, err := repo.FindActive(context.Background(), 1, t0)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byIDQ).WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestTouch(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(touchQ).WithArgs(int64(4), t0).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Touch(context.Background(), 4, t0))

	mock.ExpectExec(touchQ).WithArgs(int64(5), t0).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Touch(context.Background(), 5, t0), common.ErrorNotFound)

	mock.ExpectExec(touchQ).WithArgs(int64(6), t0).WillReturnError(errors.New("db err"))
	err := repo.Touch(context.Background(), 6, t0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: db err")
}

func TestList_AllUsers(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listAllQ).WithArgs(10, 20).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(2), int64(1), t0, t0).
			AddRow(int64(1), int64(2), t0.Add(-time.Minute), t0.Add(-time.Hour)))

	got, err := repo.List(context.Background(), nil, 10, 20)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(1), got[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_FilteredUsers(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listInQ).WithArgs(int64(1), int64(2), 5, 0).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(3), int64(2), t0, t0))

	got, err := repo.List(context.Background(), []int64{1, 2}, 5, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_ScanError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listAllQ).WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(cols).AddRow("not-an-int", int64(1), t0, t0))

	_, err := repo.List(context.Background(), nil, 10, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/blogapi/internal/common"
)

func newMockModel(t *testing.T) (*BlogModel, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return newBlogModel(db), mock
}

func blogRows() *sqlmock.Rows {
	return sqlmock.NewRows(blogColumns)
}

func addBlogRow(rows *sqlmock.Rows, id int, title string, state State, tags string) *sqlmock.Rows {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return rows.AddRow(id, title, "", "body", 1, string(state), int64(0), 1, tags, now, now, 1)
}

func TestModelInsert(t *testing.T) {
	testCases := []struct {
		name        string
		dbErr       error
		expectedErr error
	}{
		{name: "success"},
		{name: "duplicate title", dbErr: &pq.Error{Code: pgerrcode.UniqueViolation, Constraint: "blogs_title_key"}, expectedErr: ErrDuplicateTitle},
		{name: "unknown author", dbErr: &pq.Error{Code: pgerrcode.ForeignKeyViolation, Constraint: "blogs_author_id_fkey"}, expectedErr: ErrUserForeignKey},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, mock := newMockModel(t)

			exp := mock.ExpectQuery("INSERT INTO blogs").
				WithArgs("Title", "", "body", 1, StateDraft, 1, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg())
			if tc.dbErr != nil {
				exp.WillReturnError(tc.dbErr)
			} else {
				exp.WillReturnRows(sqlmock.NewRows([]string{"id", "read_count", "version"}).AddRow(7, 0, 1))
			}

			blog := &Blog{Title: "Title", Body: "body", AuthorID: 1, State: StateDraft, ReadingTime: 1}
			err := m.insert(context.Background(), blog)
			if tc.expectedErr != nil {
				assert.Equal(t, tc.expectedErr, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, 7, blog.ID)
			assert.Equal(t, 1, blog.Version)
			assert.Equal(t, []string{}, blog.Tags)
		})
	}
}

func TestModelInsertUnexpectedError(t *testing.T) {
	m, mock := newMockModel(t)

	mock.ExpectQuery("INSERT INTO blogs").WillReturnError(errors.New("connection reset"))

	err := m.insert(context.Background(), &Blog{Title: "t", Body: "b", AuthorID: 1, State: StateDraft})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert blog")
}

func TestModelFindOne(t *testing.T) {
	m, mock := newMockModel(t)

	mock.ExpectQuery(`SELECT (.+) FROM blogs WHERE \(id = \$1 AND state = \$2\) LIMIT 1`).
		WithArgs(3, "published").
		WillReturnRows(addBlogRow(blogRows(), 3, "Found", StatePublished, "{go,web}"))

	blog, err := m.findOne(context.Background(), WithID(3), Published())
	require.NoError(t, err)
	assert.Equal(t, 3, blog.ID)
	assert.Equal(t, StatePublished, blog.State)
	assert.Equal(t, []string{"go", "web"}, blog.Tags)
}

func TestModelFindOneNotFound(t *testing.T) {
	m, mock := newMockModel(t)

	mock.ExpectQuery(`SELECT (.+) FROM blogs`).
		WithArgs(3).
		WillReturnError(sql.ErrNoRows)

	_, err := m.findOne(context.Background(), WithID(3))
	assert.Equal(t, common.ErrRecordNotFound, err)
}

func TestModelFindMany(t *testing.T) {
	m, mock := newMockModel(t)

	q := NewPublicQuery(ListParams{Page: 3, Limit: 5, Search: "go", OrderBy: OrderByReadCount, Order: OrderAsc})

	rows := addBlogRow(blogRows(), 11, "Go one", StatePublished, "{}")
	rows = addBlogRow(rows, 12, "Go two", StatePublished, "{go}")

	mock.ExpectQuery(`SELECT (.+) FROM blogs WHERE \(state = \$1 AND \(title ILIKE \$2 OR EXISTS \(SELECT 1 FROM unnest\(tags\) AS tag WHERE tag ILIKE \$3\)\)\) ORDER BY read_count ASC, id ASC LIMIT 5 OFFSET 10`).
		WithArgs("published", "%go%", "%go%").
		WillReturnRows(rows)

	blogs, err := m.findMany(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, blogs, 2)
	assert.Equal(t, 11, blogs[0].ID)
	assert.Equal(t, []string{}, blogs[0].Tags)
	assert.Equal(t, []string{"go"}, blogs[1].Tags)
}

func TestModelCount(t *testing.T) {
	m, mock := newMockModel(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM blogs WHERE \(author_id = \$1 AND state = \$2\)`).
		WithArgs(4, "draft").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	total, err := m.count(context.Background(), AuthoredBy(4), InState(StateDraft))
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
}

func TestModelUpdate(t *testing.T) {
	testCases := []struct {
		name        string
		dbErr       error
		expectedErr error
	}{
		{name: "success"},
		{name: "stale version", dbErr: sql.ErrNoRows, expectedErr: common.ErrEditConflict},
		{name: "duplicate title", dbErr: &pq.Error{Code: pgerrcode.UniqueViolation, Constraint: "blogs_title_key"}, expectedErr: ErrDuplicateTitle},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, mock := newMockModel(t)

			exp := mock.ExpectQuery("UPDATE blogs").
				WithArgs("Title", "", "body", StatePublished, 1, sqlmock.AnyArg(), sqlmock.AnyArg(), 5, 2)
			if tc.dbErr != nil {
				exp.WillReturnError(tc.dbErr)
			} else {
				exp.WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(3))
			}

			blog := &Blog{ID: 5, Title: "Title", Body: "body", State: StatePublished, ReadingTime: 1, Version: 2}
			err := m.update(context.Background(), blog)
			if tc.expectedErr != nil {
				assert.Equal(t, tc.expectedErr, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, 3, blog.Version)
		})
	}
}

func TestModelIncrementReadCount(t *testing.T) {
	m, mock := newMockModel(t)

	mock.ExpectQuery(`UPDATE blogs\s+SET read_count = read_count \+ 1`).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"read_count"}).AddRow(42))

	mock.ExpectQuery(`UPDATE blogs\s+SET read_count = read_count \+ 1`).
		WithArgs(10).
		WillReturnError(sql.ErrNoRows)

	count, err := m.incrementReadCount(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)

	_, err = m.incrementReadCount(context.Background(), 10)
	assert.Equal(t, common.ErrRecordNotFound, err)
}

func TestModelDelete(t *testing.T) {
	m, mock := newMockModel(t)

	mock.ExpectExec("DELETE FROM blogs").WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM blogs").WithArgs(2).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, m.delete(context.Background(), 1))
	assert.Equal(t, common.ErrRecordNotFound, m.delete(context.Background(), 2))
}

package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/sushihentaime/blogapi/internal/common"
)

var (
	ErrDuplicateTitle = errors.New("a blog with this title already exists")
	ErrUserForeignKey = errors.New("author does not exist")
)

const (
	titleUniqueConstraint = "blogs_title_key"
	authorFKConstraint    = "blogs_author_id_fkey"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var blogColumns = []string{
	"id", "title", "description", "body", "author_id", "state", "read_count",
	"reading_time", "tags", "created_at", "updated_at", "version",
}

// blogStore is the persistence boundary of BlogService.
type blogStore interface {
	insert(ctx context.Context, blog *Blog) error
	findOne(ctx context.Context, conds ...Condition) (*Blog, error)
	findMany(ctx context.Context, q Query) ([]Blog, error)
	count(ctx context.Context, conds ...Condition) (int64, error)
	update(ctx context.Context, blog *Blog) error
	incrementReadCount(ctx context.Context, id int) (int64, error)
	delete(ctx context.Context, id int) error
}

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

func where(conds []Condition) sq.And {
	and := make(sq.And, 0, len(conds))
	for _, c := range conds {
		and = append(and, c)
	}

	return and
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBlog(row scanner) (*Blog, error) {
	var b Blog
	err := row.Scan(&b.ID, &b.Title, &b.Description, &b.Body, &b.AuthorID, &b.State, &b.ReadCount,
		&b.ReadingTime, pq.Array(&b.Tags), &b.CreatedAt, &b.UpdatedAt, &b.Version)
	if err != nil {
		return nil, err
	}

	if b.Tags == nil {
		b.Tags = []string{}
	}

	return &b, nil
}

func (m *BlogModel) insert(ctx context.Context, blog *Blog) error {
	query := `
		INSERT INTO blogs (title, description, body, author_id, state, reading_time, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, read_count, version`

	if blog.Tags == nil {
		blog.Tags = []string{}
	}

	args := []any{blog.Title, blog.Description, blog.Body, blog.AuthorID, blog.State, blog.ReadingTime,
		pq.Array(blog.Tags), blog.CreatedAt, blog.UpdatedAt}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&blog.ID, &blog.ReadCount, &blog.Version)
	if err != nil {
		switch {
		case common.UniqueViolation(err, titleUniqueConstraint):
			return ErrDuplicateTitle
		case common.ForeignKeyViolation(err, authorFKConstraint):
			return ErrUserForeignKey
		default:
			return fmt.Errorf("insert blog: %w", err)
		}
	}

	return nil
}

// findOne returns the single blog matching every condition.
func (m *BlogModel) findOne(ctx context.Context, conds ...Condition) (*Blog, error) {
	query, args, err := psql.Select(blogColumns...).From("blogs").Where(where(conds)).Limit(1).ToSql()
	if err != nil {
		return nil, err
	}

	blog, err := scanBlog(m.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return blog, nil
}

// findMany returns one page of the blogs matching q, in the order q sorts them.
func (m *BlogModel) findMany(ctx context.Context, q Query) ([]Blog, error) {
	query, args, err := psql.Select(blogColumns...).
		From("blogs").
		Where(where(q.Conditions)).
		OrderBy(q.orderBy()...).
		Limit(uint64(q.Limit)).
		Offset(q.Offset()).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, *blog)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

func (m *BlogModel) count(ctx context.Context, conds ...Condition) (int64, error) {
	query, args, err := psql.Select("count(*)").From("blogs").Where(where(conds)).ToSql()
	if err != nil {
		return 0, err
	}

	var total int64
	if err := m.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

// update writes the mutable fields of blog. The row must still carry blog.Version.
func (m *BlogModel) update(ctx context.Context, blog *Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, description = $2, body = $3, state = $4, reading_time = $5, tags = $6,
			updated_at = $7, version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING version`

	if blog.Tags == nil {
		blog.Tags = []string{}
	}

	args := []any{blog.Title, blog.Description, blog.Body, blog.State, blog.ReadingTime, pq.Array(blog.Tags),
		blog.UpdatedAt, blog.ID, blog.Version}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&blog.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return common.ErrEditConflict
		case common.UniqueViolation(err, titleUniqueConstraint):
			return ErrDuplicateTitle
		default:
			return fmt.Errorf("update blog: %w", err)
		}
	}

	return nil
}

// incrementReadCount adds one read to a published blog and returns the new count.
func (m *BlogModel) incrementReadCount(ctx context.Context, id int) (int64, error) {
	query := `
		UPDATE blogs
		SET read_count = read_count + 1
		WHERE id = $1 AND state = 'published'
		RETURNING read_count`

	var readCount int64
	err := m.db.QueryRowContext(ctx, query, id).Scan(&readCount)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return 0, common.ErrRecordNotFound
		default:
			return 0, err
		}
	}

	return readCount, nil
}

func (m *BlogModel) delete(ctx context.Context, id int) error {
	query := `
		DELETE FROM blogs
		WHERE id = $1`

	res, err := m.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return common.ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

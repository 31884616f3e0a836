package blogservice

import (
	"math"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/sushihentaime/blogapi/internal/common"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20

	OrderByReadCount   = "read_count"
	OrderByReadingTime = "reading_time"
	OrderByTimestamp   = "timestamp"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ListParams are the parameters of the public listing.
type ListParams struct {
	Page    int
	Limit   int
	Search  string
	OrderBy string
	Order   string
}

// OwnerListParams are the parameters of the listing of the caller's own blogs.
type OwnerListParams struct {
	Page  int
	Limit int
	State string
}

// Condition is a named predicate over a Blog. It can be evaluated in memory with Match
// and rendered as a SQL WHERE fragment through squirrel.
type Condition interface {
	sq.Sqlizer
	Match(b Blog) bool
}

type stateIs State

func (c stateIs) Match(b Blog) bool { return b.State == State(c) }

func (c stateIs) ToSql() (string, []any, error) {
	return sq.Eq{"state": string(c)}.ToSql()
}

type authoredBy int

func (c authoredBy) Match(b Blog) bool { return b.AuthorID == int(c) }

func (c authoredBy) ToSql() (string, []any, error) {
	return sq.Eq{"author_id": int(c)}.ToSql()
}

type idIs int

func (c idIs) Match(b Blog) bool { return b.ID == int(c) }

func (c idIs) ToSql() (string, []any, error) {
	return sq.Eq{"id": int(c)}.ToSql()
}

type titleOrTagsContain string

func (c titleOrTagsContain) Match(b Blog) bool {
	term := strings.ToLower(string(c))
	if strings.Contains(strings.ToLower(b.Title), term) {
		return true
	}

	for _, tag := range b.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}

	return false
}

func (c titleOrTagsContain) ToSql() (string, []any, error) {
	pattern := "%" + escapeLike(string(c)) + "%"

	return sq.Or{
		sq.ILike{"title": pattern},
		sq.Expr("EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE ?)", pattern),
	}.ToSql()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes term match literally inside a LIKE pattern.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// Published matches blogs visible to everyone.
func Published() Condition { return stateIs(StatePublished) }

// InState matches blogs in the given state.
func InState(s State) Condition { return stateIs(s) }

// AuthoredBy matches blogs written by the given user.
func AuthoredBy(userID int) Condition { return authoredBy(userID) }

// WithID matches the blog with the given id.
func WithID(id int) Condition { return idIs(id) }

// TitleOrTagsContain matches blogs whose title or any tag contains term, ignoring case.
func TitleOrTagsContain(term string) Condition { return titleOrTagsContain(term) }

// ValidState reports whether s names one of the two blog states.
func ValidState(s string) bool {
	return common.PermittedValue(State(s), StateDraft, StatePublished)
}

// sortField maps an orderBy value onto a column and the matching Blog field comparison.
type sortField struct {
	column string
	cmp    func(a, b Blog) int
}

var sortFields = map[string]sortField{
	OrderByReadCount: {
		column: "read_count",
		cmp:    func(a, b Blog) int { return compare(a.ReadCount, b.ReadCount) },
	},
	OrderByReadingTime: {
		column: "reading_time",
		cmp:    func(a, b Blog) int { return compare(a.ReadingTime, b.ReadingTime) },
	},
	OrderByTimestamp: {
		column: "created_at",
		cmp:    func(a, b Blog) int { return a.CreatedAt.Compare(b.CreatedAt) },
	},
}

func compare[T int | int64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Query describes a filtered, sorted and paginated listing.
type Query struct {
	Conditions []Condition
	OrderBy    string
	Descending bool
	Page       int
	Limit      int
}

// NewPublicQuery builds the query of the public listing. Only published blogs are ever matched.
func NewPublicQuery(p ListParams) Query {
	q := Query{
		Conditions: []Condition{Published()},
		OrderBy:    OrderByTimestamp,
		Descending: p.Order != OrderAsc,
		Page:       p.Page,
		Limit:      p.Limit,
	}

	if _, ok := sortFields[p.OrderBy]; ok {
		q.OrderBy = p.OrderBy
	}

	if p.Search != "" {
		q.Conditions = append(q.Conditions, TitleOrTagsContain(p.Search))
	}

	return q.withDefaults()
}

// NewOwnerQuery builds the listing of an author's own blogs, newest first.
// A state filter other than draft or published is ignored.
func NewOwnerQuery(authorID int, p OwnerListParams) Query {
	q := Query{
		Conditions: []Condition{AuthoredBy(authorID)},
		OrderBy:    OrderByTimestamp,
		Descending: true,
		Page:       p.Page,
		Limit:      p.Limit,
	}

	if ValidState(p.State) {
		q.Conditions = append(q.Conditions, InState(State(p.State)))
	}

	return q.withDefaults()
}

func (q Query) withDefaults() Query {
	if q.Page < 1 {
		q.Page = DefaultPage
	}

	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}

	return q
}

// Offset is (page-1)*limit, saturating at the largest offset postgres accepts.
func (q Query) Offset() uint64 {
	if q.Page <= 1 || q.Limit < 1 {
		return 0
	}

	page, limit := uint64(q.Page-1), uint64(q.Limit)

	if page > math.MaxInt64/limit {
		return math.MaxInt64
	}

	return page * limit
}

// Match reports whether b satisfies every condition of the query.
func (q Query) Match(b Blog) bool {
	for _, c := range q.Conditions {
		if !c.Match(b) {
			return false
		}
	}

	return true
}

// Compare orders two blogs the way the query sorts them. Ties are broken by id in the same direction.
func (q Query) Compare(a, b Blog) int {
	c := sortFields[q.OrderBy].cmp(a, b)
	if c == 0 {
		c = compare(a.ID, b.ID)
	}

	if q.Descending {
		return -c
	}

	return c
}

func (q Query) direction() string {
	if q.Descending {
		return "DESC"
	}

	return "ASC"
}

// orderBy returns the ORDER BY clauses of the query.
func (q Query) orderBy() []string {
	dir := q.direction()
	return []string{sortFields[q.OrderBy].column + " " + dir, "id " + dir}
}

func newPagination(page, limit int, total int64) Pagination {
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}

	return Pagination{
		Page:       page,
		TotalPages: pages,
		Total:      total,
		Limit:      limit,
	}
}

package blogservice

import (
	"database/sql"
	"time"
)

type State string

const (
	StateDraft     State = "draft"
	StatePublished State = "published"
)

type Blog struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// Body is stored in Markdown format.
	Body        string    `json:"body"`
	AuthorID    int       `json:"author_id"`
	State       State     `json:"state"`
	ReadCount   int64     `json:"read_count"`
	ReadingTime int       `json:"reading_time"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m   blogStore
	now func() time.Time
}

type Pagination struct {
	Page       int   `json:"page"`
	TotalPages int64 `json:"total_pages"`
	Total      int64 `json:"total"`
	Limit      int   `json:"limit"`
}

type BlogList struct {
	Blogs      []Blog     `json:"blogs"`
	Pagination Pagination `json:"pagination"`
}

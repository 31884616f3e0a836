package blogservice

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/sushihentaime/blogapi/internal/common"
)

func NewBlogService(db *sql.DB) *BlogService {
	return &BlogService{m: newBlogModel(db), now: time.Now}
}

type CreateBlogRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Body        string   `json:"body"`
	Tags        []string `json:"tags"`
	// State is accepted for compatibility but new blogs always start as drafts.
	State string `json:"state"`
}

// UpdateBlogRequest carries a partial update. A nil field is left unchanged.
type UpdateBlogRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Body        *string  `json:"body"`
	Tags        []string `json:"tags"`
	State       *string  `json:"state"`
}

// CreateBlog stores a new draft written by authorID.
func (s *BlogService) CreateBlog(ctx context.Context, authorID int, req *CreateBlogRequest) (*Blog, error) {
	title := strings.TrimSpace(req.Title)
	body := sanitizeMarkdown(req.Body)
	description := sanitizeMarkdown(strings.TrimSpace(req.Description))
	tags := sanitizeTags(req.Tags)

	v := common.NewValidator()
	validateID(v, authorID, "author_id")
	validateTitle(v, title)
	validateBody(v, body)
	validateDescription(v, description)
	validateTags(v, tags)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	now := s.now().UTC()
	blog := &Blog{
		Title:       title,
		Description: description,
		Body:        body,
		AuthorID:    authorID,
		State:       StateDraft,
		ReadingTime: EstimateReadingTime(body),
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.m.insert(ctx, blog); err != nil {
		return nil, err
	}

	return blog, nil
}

// GetPublishedBlog returns a published blog and records one read of it. Drafts are reported as not found.
func (s *BlogService) GetPublishedBlog(ctx context.Context, id int) (*Blog, error) {
	if id < 1 {
		return nil, common.ErrRecordNotFound
	}

	blog, err := s.m.findOne(ctx, WithID(id), Published())
	if err != nil {
		return nil, err
	}

	readCount, err := s.m.incrementReadCount(ctx, id)
	if err != nil {
		return nil, err
	}
	blog.ReadCount = readCount

	return blog, nil
}

// UpdateBlog applies req to the blog identified by id. Only the author may update a blog.
// A missing or foreign blog is reported before an invalid payload.
func (s *BlogService) UpdateBlog(ctx context.Context, userID, id int, req *UpdateBlogRequest) (*Blog, error) {
	blog, err := s.ownedBlog(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		req.Title = &title
	}

	if req.Body != nil {
		body := sanitizeMarkdown(*req.Body)
		req.Body = &body
	}

	if req.Description != nil {
		description := sanitizeMarkdown(strings.TrimSpace(*req.Description))
		req.Description = &description
	}

	if req.Tags != nil {
		req.Tags = sanitizeTags(req.Tags)
	}

	v := common.NewValidator()
	if req.Title != nil {
		validateTitle(v, *req.Title)
	}
	if req.Body != nil {
		validateBody(v, *req.Body)
	}
	if req.Description != nil {
		validateDescription(v, *req.Description)
	}
	validateTags(v, req.Tags)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if req.Title != nil {
		blog.Title = *req.Title
	}

	if req.Description != nil {
		blog.Description = *req.Description
	}

	if req.Body != nil {
		blog.Body = *req.Body
		blog.ReadingTime = EstimateReadingTime(blog.Body)
	}

	if req.Tags != nil {
		blog.Tags = req.Tags
	}

	if req.State != nil && ValidState(*req.State) {
		blog.State = State(*req.State)
	}

	blog.UpdatedAt = s.now().UTC()

	if err := s.m.update(ctx, blog); err != nil {
		return nil, err
	}

	return blog, nil
}

// DeleteBlog removes the blog identified by id. Only the author may delete a blog.
func (s *BlogService) DeleteBlog(ctx context.Context, userID, id int) error {
	if _, err := s.ownedBlog(ctx, userID, id); err != nil {
		return err
	}

	return s.m.delete(ctx, id)
}

// ownedBlog loads a blog in any state and checks that userID wrote it.
// A missing blog is reported before a foreign one.
func (s *BlogService) ownedBlog(ctx context.Context, userID, id int) (*Blog, error) {
	if id < 1 {
		return nil, common.ErrRecordNotFound
	}

	blog, err := s.m.findOne(ctx, WithID(id))
	if err != nil {
		return nil, err
	}

	if blog.AuthorID != userID {
		return nil, common.ErrForbidden
	}

	return blog, nil
}

// ListPublishedBlogs returns one page of published blogs.
func (s *BlogService) ListPublishedBlogs(ctx context.Context, p ListParams) (*BlogList, error) {
	return s.list(ctx, NewPublicQuery(p))
}

// ListOwnBlogs returns one page of the blogs written by authorID, drafts included.
func (s *BlogService) ListOwnBlogs(ctx context.Context, authorID int, p OwnerListParams) (*BlogList, error) {
	return s.list(ctx, NewOwnerQuery(authorID, p))
}

func (s *BlogService) list(ctx context.Context, q Query) (*BlogList, error) {
	total, err := s.m.count(ctx, q.Conditions...)
	if err != nil {
		return nil, err
	}

	blogs := []Blog{}
	if total > 0 && q.Offset() < uint64(total) {
		blogs, err = s.m.findMany(ctx, q)
		if err != nil {
			return nil, err
		}
	}

	return &BlogList{Blogs: blogs, Pagination: newPagination(q.Page, q.Limit, total)}, nil
}

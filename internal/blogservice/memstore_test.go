package blogservice

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/sushihentaime/blogapi/internal/common"
)

// memStore is an in-memory blogStore evaluating conditions with Match.
type memStore struct {
	mu     sync.Mutex
	nextID int
	blogs  map[int]Blog
	// authors lists the user ids inserts may reference.
	authors map[int]bool
}

func newMemStore(authors ...int) *memStore {
	s := &memStore{nextID: 1, blogs: make(map[int]Blog), authors: make(map[int]bool)}
	for _, id := range authors {
		s.authors[id] = true
	}
	return s
}

func newTestService(store blogStore, now time.Time) *BlogService {
	return &BlogService{m: store, now: func() time.Time { return now }}
}

func (s *memStore) titleTaken(title string, exceptID int) bool {
	for id, b := range s.blogs {
		if id != exceptID && b.Title == title {
			return true
		}
	}
	return false
}

func (s *memStore) insert(_ context.Context, blog *Blog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authors[blog.AuthorID] {
		return ErrUserForeignKey
	}

	if s.titleTaken(blog.Title, 0) {
		return ErrDuplicateTitle
	}

	blog.ID = s.nextID
	blog.Version = 1
	s.nextID++
	s.blogs[blog.ID] = cloneBlog(*blog)

	return nil
}

func (s *memStore) findOne(_ context.Context, conds ...Condition) (*Blog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := Query{Conditions: conds}
	for _, b := range s.blogs {
		if q.Match(b) {
			found := cloneBlog(b)
			return &found, nil
		}
	}

	return nil, common.ErrRecordNotFound
}

func (s *memStore) matching(q Query) []Blog {
	var out []Blog
	for _, b := range s.blogs {
		if q.Match(b) {
			out = append(out, cloneBlog(b))
		}
	}
	return out
}

func (s *memStore) findMany(_ context.Context, q Query) ([]Blog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.matching(q)
	slices.SortFunc(all, q.Compare)

	start := q.Offset()
	if start >= uint64(len(all)) {
		return []Blog{}, nil
	}

	end := min(start+uint64(q.Limit), uint64(len(all)))
	return all[start:end], nil
}

func (s *memStore) count(_ context.Context, conds ...Condition) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return int64(len(s.matching(Query{Conditions: conds}))), nil
}

func (s *memStore) update(_ context.Context, blog *Blog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.blogs[blog.ID]
	if !ok || stored.Version != blog.Version {
		return common.ErrEditConflict
	}

	if s.titleTaken(blog.Title, blog.ID) {
		return ErrDuplicateTitle
	}

	blog.Version++
	s.blogs[blog.ID] = cloneBlog(*blog)

	return nil
}

func (s *memStore) incrementReadCount(_ context.Context, id int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.blogs[id]
	if !ok || b.State != StatePublished {
		return 0, common.ErrRecordNotFound
	}

	b.ReadCount++
	s.blogs[id] = b

	return b.ReadCount, nil
}

func (s *memStore) delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blogs[id]; !ok {
		return common.ErrRecordNotFound
	}

	delete(s.blogs, id)

	return nil
}

// put stores b as is, bypassing the service.
func (s *memStore) put(b Blog) Blog {
	s.mu.Lock()
	defer s.mu.Unlock()

	b.ID = s.nextID
	if b.Version == 0 {
		b.Version = 1
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	s.nextID++
	s.blogs[b.ID] = cloneBlog(b)

	return b
}

func (s *memStore) get(id int) (Blog, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.blogs[id]
	return b, ok
}

func cloneBlog(b Blog) Blog {
	b.Tags = slices.Clone(b.Tags)
	if b.Tags == nil {
		b.Tags = []string{}
	}
	return b
}

package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bhvr/bhvr-api-go/internal/model"
	"github.com/bhvr/bhvr-api-go/internal/repository"
)

// memUserStore mimics the MySQL store, including the unique email key.
type memUserStore struct {
	mu      sync.Mutex
	nextID  int64
	byEmail map[string]*model.User
	err     error
}

func newMemUserStore() *memUserStore {
	return &memUserStore{byEmail: make(map[string]*model.User)}
}

func (s *memUserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}

	key := strings.ToLower(user.Email)
	if _, ok := s.byEmail[key]; ok {
		return repository.ErrDuplicateEmail
	}
	s.nextID++
	user.ID = s.nextID
	user.Email = key
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	s.byEmail[key] = &stored
	return nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	u, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	for _, u := range s.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) delete(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byEmail, email)
}

func (s *memUserStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byEmail)
}

type memPostStore struct {
	mu      sync.Mutex
	nextID  int64
	posts   map[int64]*model.Post
	authors map[int64]model.Author
}

func newMemPostStore(authors ...model.Author) *memPostStore {
	s := &memPostStore{posts: make(map[int64]*model.Post), authors: make(map[int64]model.Author)}
	for _, a := range authors {
		s.authors[a.ID] = a
	}
	return s
}

func (s *memPostStore) Create(_ context.Context, post *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	post.ID = s.nextID
	post.CreatedAt = time.Now().UTC().Add(time.Duration(s.nextID) * time.Millisecond)
	post.UpdatedAt = post.CreatedAt
	stored := *post
	s.posts[post.ID] = &stored
	return nil
}

func (s *memPostStore) GetByID(_ context.Context, id int64) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, repository.ErrPostNotFound
	}
	cp := *p
	cp.Author = s.authors[p.AuthorID]
	return &cp, nil
}

func (s *memPostStore) List(ctx context.Context) ([]model.Post, error) {
	return s.filter(func(*model.Post) bool { return true }), nil
}

func (s *memPostStore) ListByAuthor(_ context.Context, authorID int64) ([]model.Post, error) {
	return s.filter(func(p *model.Post) bool { return p.AuthorID == authorID }), nil
}

func (s *memPostStore) Update(_ context.Context, post *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[post.ID]; !ok {
		return repository.ErrPostNotFound
	}
	stored := *post
	s.posts[post.ID] = &stored
	return nil
}

func (s *memPostStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return repository.ErrPostNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *memPostStore) filter(keep func(*model.Post) bool) []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Post{}
	for _, p := range s.posts {
		if keep(p) {
			cp := *p
			cp.Author = s.authors[p.AuthorID]
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

var errStoreDown = errors.New("store down")

package handler

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/bhvr/bhvr-api-go/internal/model"
	"github.com/bhvr/bhvr-api-go/internal/repository"
)

type memStore struct {
	mu     sync.Mutex
	users  map[int64]*model.User
	posts  map[int64]*model.Post
	nextID int64
}

func newMemStore() *memStore {
	return &memStore{users: make(map[int64]*model.User), posts: make(map[int64]*model.Post)}
}

func (s *memStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(user.Email)
	for _, u := range s.users {
		if u.Email == email {
			return repository.ErrDuplicateEmail
		}
	}
	s.nextID++
	user.ID = s.nextID
	user.Email = email
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *memStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) deleteUser(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

// postStore shares the user table so posts can embed their author.
type postStore struct{ *memStore }

func (s postStore) Create(_ context.Context, post *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	post.ID = s.nextID
	cp := *post
	s.posts[post.ID] = &cp
	return nil
}

func (s postStore) GetByID(_ context.Context, id int64) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, repository.ErrPostNotFound
	}
	return s.withAuthor(p), nil
}

func (s postStore) List(_ context.Context) ([]model.Post, error) {
	return s.filter(func(*model.Post) bool { return true }), nil
}

func (s postStore) ListByAuthor(_ context.Context, authorID int64) ([]model.Post, error) {
	return s.filter(func(p *model.Post) bool { return p.AuthorID == authorID }), nil
}

func (s postStore) Update(_ context.Context, post *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *post
	s.posts[post.ID] = &cp
	return nil
}

func (s postStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return repository.ErrPostNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s postStore) filter(keep func(*model.Post) bool) []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Post{}
	for _, p := range s.posts {
		if keep(p) {
			out = append(out, *s.withAuthor(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s postStore) withAuthor(p *model.Post) *model.Post {
	cp := *p
	if u, ok := s.users[p.AuthorID]; ok {
		cp.Author = model.Author{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return &cp
}

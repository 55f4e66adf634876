package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bhvr/bhvr-api-go/internal/model"
	"github.com/bhvr/bhvr-api-go/internal/repository"
)

// PostStore persists posts.
type PostStore interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	List(ctx context.Context) ([]model.Post, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id int64) error
}

// PostService handles post business logic.
type PostService struct {
	posts PostStore
}

// NewPostService creates a new PostService.
func NewPostService(posts PostStore) *PostService {
	return &PostService{posts: posts}
}

// List returns every post, newest first.
func (s *PostService) List(ctx context.Context) ([]model.PostResponse, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}
	return postsToResponse(posts), nil
}

// ListByAuthor returns the posts of one author, newest first.
func (s *PostService) ListByAuthor(ctx context.Context, authorID int64) ([]model.PostResponse, error) {
	posts, err := s.posts.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return postsToResponse(posts), nil
}

// Get returns a single post.
func (s *PostService) Get(ctx context.Context, id int64) (model.PostResponse, error) {
	post, err := s.find(ctx, id)
	if err != nil {
		return model.PostResponse{}, err
	}
	return post.Response(), nil
}

// Create stores a new unpublished post written by authorID.
func (s *PostService) Create(ctx context.Context, authorID int64, req model.CreatePostRequest) (model.PostResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return model.PostResponse{}, ErrTitleRequired
	}

	post := &model.Post{
		Title:    title,
		Content:  req.Content,
		AuthorID: authorID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return model.PostResponse{}, fmt.Errorf("create post: %w", err)
	}

	// Re-read to pick up the joined author.
	return s.Get(ctx, post.ID)
}

// Update applies the fields present in req to a post owned by userID.
func (s *PostService) Update(ctx context.Context, userID, id int64, req model.UpdatePostRequest) (model.PostResponse, error) {
	post, err := s.find(ctx, id)
	if err != nil {
		return model.PostResponse{}, err
	}
	if post.AuthorID != userID {
		return model.PostResponse{}, ErrNotPostOwner
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return model.PostResponse{}, ErrTitleRequired
		}
		post.Title = title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Published != nil {
		post.Published = *req.Published
	}

	if err := s.posts.Update(ctx, post); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return model.PostResponse{}, ErrPostNotFound
		}
		return model.PostResponse{}, fmt.Errorf("update post: %w", err)
	}

	return post.Response(), nil
}

// Delete removes a post owned by userID.
func (s *PostService) Delete(ctx context.Context, userID, id int64) error {
	post, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return ErrNotPostOwner
	}

	err = s.posts.Delete(ctx, id)
	if errors.Is(err, repository.ErrPostNotFound) {
		return ErrPostNotFound
	}
	return err
}

func (s *PostService) find(ctx context.Context, id int64) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// postsToResponse converts a slice of Post to a slice of PostResponse.
func postsToResponse(posts []model.Post) []model.PostResponse {
	result := make([]model.PostResponse, len(posts))
	for i := range posts {
		result[i] = posts[i].Response()
	}
	return result
}

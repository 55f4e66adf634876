package service

import (
	"context"
	"testing"

	"github.com/bhvr/bhvr-api-go/internal/model"
)

var (
	alice = model.Author{ID: 1, Name: "Alice", Email: "alice@example.com"}
	bob   = model.Author{ID: 2, Name: "Bob", Email: "bob@example.com"}
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestCreatePost_TitleRequired(t *testing.T) {
	svc := NewPostService(newMemPostStore(alice))

	_, err := svc.Create(context.Background(), alice.ID, model.CreatePostRequest{Title: "  "})
	if err != ErrTitleRequired {
		t.Errorf("expected ErrTitleRequired, got %v", err)
	}
}

func TestCreatePost_Success(t *testing.T) {
	svc := NewPostService(newMemPostStore(alice))

	post, err := svc.Create(context.Background(), alice.ID, model.CreatePostRequest{Title: "Hello", Content: "World"})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if post.Published {
		t.Error("new posts must be unpublished")
	}
	if post.Author != alice {
		t.Errorf("Author = %+v, want %+v", post.Author, alice)
	}
}

func TestGetPost_NotFound(t *testing.T) {
	svc := NewPostService(newMemPostStore())

	if _, err := svc.Get(context.Background(), 42); err != ErrPostNotFound {
		t.Errorf("expected ErrPostNotFound, got %v", err)
	}
}

func TestUpdatePost(t *testing.T) {
	ctx := context.Background()
	svc := NewPostService(newMemPostStore(alice, bob))

	created, err := svc.Create(ctx, alice.ID, model.CreatePostRequest{Title: "Draft", Content: "v1"})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	tests := []struct {
		name    string
		userID  int64
		postID  int64
		req     model.UpdatePostRequest
		wantErr error
	}{
		{name: "not owner", userID: bob.ID, postID: created.ID, req: model.UpdatePostRequest{Title: strPtr("x")}, wantErr: ErrNotPostOwner},
		{name: "missing post", userID: alice.ID, postID: 999, req: model.UpdatePostRequest{}, wantErr: ErrPostNotFound},
		{name: "empty title", userID: alice.ID, postID: created.ID, req: model.UpdatePostRequest{Title: strPtr("")}, wantErr: ErrTitleRequired},
		{name: "publish only", userID: alice.ID, postID: created.ID, req: model.UpdatePostRequest{Published: boolPtr(true)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Update(ctx, tt.userID, tt.postID, tt.req)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("Update() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Update() unexpected error: %v", err)
			}
			if !got.Published || got.Title != "Draft" || got.Content != "v1" {
				t.Errorf("partial update changed unrelated fields: %+v", got)
			}
		})
	}
}

// vanishingPostStore deletes each post right after it is read, so the
// following write finds it gone.
type vanishingPostStore struct {
	*memPostStore
}

func (s vanishingPostStore) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	p, err := s.memPostStore.GetByID(ctx, id)
	if err == nil {
		s.memPostStore.Delete(ctx, id)
	}
	return p, err
}

func TestUpdatePost_DeletedConcurrently(t *testing.T) {
	ctx := context.Background()
	store := newMemPostStore(alice)
	created, err := NewPostService(store).Create(ctx, alice.ID, model.CreatePostRequest{Title: "Hello"})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	svc := NewPostService(vanishingPostStore{store})
	_, err = svc.Update(ctx, alice.ID, created.ID, model.UpdatePostRequest{Published: boolPtr(true)})
	if err != ErrPostNotFound {
		t.Errorf("expected ErrPostNotFound, got %v", err)
	}
}

func TestDeletePost(t *testing.T) {
	ctx := context.Background()
	svc := NewPostService(newMemPostStore(alice, bob))

	created, err := svc.Create(ctx, alice.ID, model.CreatePostRequest{Title: "Bye"})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	if err := svc.Delete(ctx, bob.ID, created.ID); err != ErrNotPostOwner {
		t.Errorf("expected ErrNotPostOwner, got %v", err)
	}
	if err := svc.Delete(ctx, alice.ID, created.ID); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if err := svc.Delete(ctx, alice.ID, created.ID); err != ErrPostNotFound {
		t.Errorf("expected ErrPostNotFound on second delete, got %v", err)
	}
}

func TestListPosts(t *testing.T) {
	ctx := context.Background()
	svc := NewPostService(newMemPostStore(alice, bob))

	for _, in := range []struct {
		author int64
		title  string
	}{{alice.ID, "a1"}, {bob.ID, "b1"}, {alice.ID, "a2"}} {
		if _, err := svc.Create(ctx, in.author, model.CreatePostRequest{Title: in.title}); err != nil {
			t.Fatalf("Create() unexpected error: %v", err)
		}
	}

	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(all) != 3 || all[0].Title != "a2" {
		t.Errorf("List() = %+v, want 3 posts newest first", all)
	}

	mine, err := svc.ListByAuthor(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListByAuthor() unexpected error: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("ListByAuthor() returned %d posts, want 2", len(mine))
	}

	none, err := svc.ListByAuthor(ctx, 77)
	if err != nil {
		t.Fatalf("ListByAuthor() unexpected error: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", none)
	}
}

func TestPostsToResponse_EmptySlice(t *testing.T) {
	result := postsToResponse(nil)

	if result == nil {
		t.Fatal("expected non-nil empty slice, got nil")
	}
	if len(result) != 0 {
		t.Errorf("expected 0 posts, got %d", len(result))
	}
}

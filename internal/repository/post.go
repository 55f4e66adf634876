package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bhvr/bhvr-api-go/internal/model"
)

var ErrPostNotFound = errors.New("post not found")

// postSelect joins each post with the public fields of its author.
const postSelect = `SELECT p.id, p.title, p.content, p.published, p.author_id, p.created_at, p.updated_at,
		u.id, u.name, u.email
	FROM posts p JOIN users u ON u.id = p.author_id`

// PostRepository handles post persistence operations.
type PostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts a new post and sets its generated ID and timestamps.
func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	query := `INSERT INTO posts (title, content, published, author_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.db.ExecContext(ctx, query, post.Title, post.Content, post.Published, post.AuthorID, now, now)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	post.ID = id
	post.CreatedAt = now
	post.UpdatedAt = now
	return nil
}

// GetByID retrieves a post and its author.
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	row := r.db.QueryRowContext(ctx, postSelect+` WHERE p.id = ?`, id)

	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// List retrieves all posts, newest first.
func (r *PostRepository) List(ctx context.Context) ([]model.Post, error) {
	return r.list(ctx, postSelect+` ORDER BY p.created_at DESC, p.id DESC`)
}

// ListByAuthor retrieves the posts written by one user, newest first.
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID int64) ([]model.Post, error) {
	return r.list(ctx, postSelect+` WHERE p.author_id = ? ORDER BY p.created_at DESC, p.id DESC`, authorID)
}

// Update writes the mutable fields of post and refreshes its UpdatedAt.
// It returns ErrPostNotFound if the post no longer exists.
func (r *PostRepository) Update(ctx context.Context, post *model.Post) error {
	query := `UPDATE posts SET title = ?, content = ?, published = ?, updated_at = ? WHERE id = ?`

	now := time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.db.ExecContext(ctx, query, post.Title, post.Content, post.Published, now, post.ID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	// MySQL counts changed rows, not matched ones, so zero can also mean
	// the row already held these values.
	if rowsAffected == 0 {
		exists, err := r.exists(ctx, post.ID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrPostNotFound
		}
	}

	post.UpdatedAt = now
	return nil
}

func (r *PostRepository) exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM posts WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes a post.
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrPostNotFound
	}

	return nil
}

func (r *PostRepository) list(ctx context.Context, query string, args ...any) ([]model.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}

	return posts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*model.Post, error) {
	p := &model.Post{}
	err := row.Scan(
		&p.ID, &p.Title, &p.Content, &p.Published, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt,
		&p.Author.ID, &p.Author.Name, &p.Author.Email,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

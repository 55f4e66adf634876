package model

import "time"

// Post represents a post row joined with its author.
type Post struct {
	ID        int64
	Title     string
	Content   string
	Published bool
	AuthorID  int64
	Author    Author
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Author is the subset of a user embedded in post responses.
type Author struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreatePostRequest represents a post creation request.
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdatePostRequest represents a partial post update. Nil fields are left unchanged.
type UpdatePostRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Published *bool   `json:"published"`
}

// PostResponse represents a post in API responses.
type PostResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Published bool      `json:"published"`
	AuthorID  int64     `json:"authorId"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Response converts p into its API representation.
func (p *Post) Response() PostResponse {
	return PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Published: p.Published,
		AuthorID:  p.AuthorID,
		Author:    p.Author,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

package service

import (
	"context"

	"github.com/example/post-service/internal/models"
	"github.com/example/post-service/internal/userclient"
)

// PostStore is the persistence collaborator. Save inserts when the post has no
// id yet (assigning one) and updates otherwise. FindByID returns (nil, nil)
// when the id is absent.
type PostStore interface {
	Save(ctx context.Context, p *models.Post) error
	FindByID(ctx context.Context, id int) (*models.Post, error)
	FindAll(ctx context.Context) ([]models.Post, error)
	Delete(ctx context.Context, p *models.Post) error
}

// UserDetailClient looks up user attributes for enrichment.
type UserDetailClient interface {
	GetUser(ctx context.Context, userID int) (*userclient.UserDetails, error)
}

// PostCache is a best-effort read cache for persisted posts.
type PostCache interface {
	GetPost(ctx context.Context, id int) (*models.Post, bool, error)
	SetPost(ctx context.Context, post *models.Post) error
	InvalidatePost(ctx context.Context, id int) error
}

// PostIndexer keeps the search index in step with the store.
type PostIndexer interface {
	IndexPost(ctx context.Context, id int, doc map[string]interface{}) error
	DeletePost(ctx context.Context, id int) error
	SearchPosts(ctx context.Context, query string) ([]map[string]interface{}, error)
}

package service

import (
	"context"
	"log"

	"github.com/example/post-service/internal/models"
)

// PostService coordinates the post lifecycle: persistence through PostStore,
// best-effort user enrichment on create and reads, cache invalidation and
// search indexing on writes. Update and the by-user listing intentionally skip
// enrichment, matching the observed behavior of the service this replaces.
type PostService struct {
	store PostStore
	users UserDetailClient
	cache PostCache
	es    PostIndexer
}

func NewPostService(store PostStore, users UserDetailClient, cache PostCache, es PostIndexer) *PostService {
	return &PostService{store: store, users: users, cache: cache, es: es}
}

type CreatePostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	UserID  int    `json:"userId"`
}

type UpdatePostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	post := &models.Post{Title: in.Title, Content: in.Content, UserID: in.UserID}
	if err := s.store.Save(ctx, post); err != nil {
		return nil, err
	}
	_ = s.es.IndexPost(ctx, post.ID, searchDoc(post))
	s.fetchAndSetUserDetails(ctx, post)
	return post, nil
}

func (s *PostService) ApprovePost(ctx context.Context, id int) error {
	post, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		return &NotFoundError{ID: id}
	}
	post.Approved = true
	if err := s.store.Save(ctx, post); err != nil {
		return err
	}
	_ = s.cache.InvalidatePost(ctx, id)
	return nil
}

func (s *PostService) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		s.fetchAndSetUserDetails(ctx, &posts[i])
	}
	return posts, nil
}

func (s *PostService) GetPost(ctx context.Context, id int) (*models.Post, error) {
	if cached, found, err := s.cache.GetPost(ctx, id); err == nil && found {
		s.fetchAndSetUserDetails(ctx, cached)
		return cached, nil
	}
	post, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, &NotFoundError{ID: id}
	}
	// Cache before enriching so stale user details never outlive a request.
	_ = s.cache.SetPost(ctx, post)
	s.fetchAndSetUserDetails(ctx, post)
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, id int, in UpdatePostInput) (*models.Post, error) {
	post, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, &NotFoundError{ID: id}
	}
	post.Title = in.Title
	post.Content = in.Content
	if err := s.store.Save(ctx, post); err != nil {
		return nil, err
	}
	_ = s.cache.InvalidatePost(ctx, id)
	_ = s.es.IndexPost(ctx, id, searchDoc(post))
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, id int) error {
	post, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		return &NotFoundError{ID: id}
	}
	if err := s.store.Delete(ctx, post); err != nil {
		return err
	}
	_ = s.cache.InvalidatePost(ctx, id)
	_ = s.es.DeletePost(ctx, id)
	return nil
}

func (s *PostService) GetPostsByUserID(ctx context.Context, userID int) ([]models.Post, error) {
	all, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	posts := make([]models.Post, 0)
	for _, p := range all {
		if p.UserID == userID {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

func (s *PostService) SearchPosts(ctx context.Context, q string) ([]map[string]interface{}, error) {
	return s.es.SearchPosts(ctx, q)
}

// fetchAndSetUserDetails fills in the display-only user attributes. Lookup
// failures are logged and otherwise ignored; the post keeps whatever values it
// already had.
func (s *PostService) fetchAndSetUserDetails(ctx context.Context, post *models.Post) {
	details, err := s.users.GetUser(ctx, post.UserID)
	if err != nil {
		log.Printf("error fetching user details for user id %d: %v", post.UserID, err)
		return
	}
	post.UserName = details.Username
	post.UserEmail = details.Email
}

func searchDoc(p *models.Post) map[string]interface{} {
	return map[string]interface{}{
		"id":      p.ID,
		"title":   p.Title,
		"content": p.Content,
		"userId":  p.UserID,
	}
}

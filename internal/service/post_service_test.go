package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/post-service/internal/models"
	"github.com/example/post-service/internal/userclient"
)

// mockPostStore is a map-backed stand-in for the gorm repository. It hands out
// copies so in-memory mutation of a returned post never leaks into "storage",
// and it discards the transient user fields the way a real row write would.
type mockPostStore struct {
	posts     map[int]models.Post
	nextID    int
	findCalls int
	saveErr   error
	deleteErr error
}

func newMockPostStore() *mockPostStore {
	return &mockPostStore{posts: make(map[int]models.Post)}
}

func (m *mockPostStore) Save(ctx context.Context, p *models.Post) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if p.ID == 0 {
		m.nextID++
		p.ID = m.nextID
	}
	stored := *p
	stored.UserName = ""
	stored.UserEmail = ""
	m.posts[stored.ID] = stored
	return nil
}

func (m *mockPostStore) FindByID(ctx context.Context, id int) (*models.Post, error) {
	m.findCalls++
	if p, ok := m.posts[id]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

func (m *mockPostStore) FindAll(ctx context.Context) ([]models.Post, error) {
	ids := make([]int, 0, len(m.posts))
	for id := range m.posts {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	posts := make([]models.Post, 0, len(ids))
	for _, id := range ids {
		posts = append(posts, m.posts[id])
	}
	return posts, nil
}

func (m *mockPostStore) Delete(ctx context.Context, p *models.Post) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.posts, p.ID)
	return nil
}

type mockUserClient struct {
	users map[int]userclient.UserDetails
	err   error
	calls int
}

func (m *mockUserClient) GetUser(ctx context.Context, userID int) (*userclient.UserDetails, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.users[userID]; ok {
		return &u, nil
	}
	return nil, fmt.Errorf("user service returned status 404 for user %d", userID)
}

type mockCache struct {
	entries map[int][]byte
}

func newMockCache() *mockCache { return &mockCache{entries: make(map[int][]byte)} }

func (m *mockCache) GetPost(ctx context.Context, id int) (*models.Post, bool, error) {
	b, ok := m.entries[id]
	if !ok {
		return nil, false, nil
	}
	var post models.Post
	if err := json.Unmarshal(b, &post); err != nil {
		return nil, false, err
	}
	return &post, true, nil
}

func (m *mockCache) SetPost(ctx context.Context, post *models.Post) error {
	b, err := json.Marshal(post)
	if err != nil {
		return err
	}
	m.entries[post.ID] = b
	return nil
}

func (m *mockCache) InvalidatePost(ctx context.Context, id int) error {
	delete(m.entries, id)
	return nil
}

type mockIndexer struct {
	indexed []int
	deleted []int
	results []map[string]interface{}
	err     error
}

func (m *mockIndexer) IndexPost(ctx context.Context, id int, doc map[string]interface{}) error {
	if m.err != nil {
		return m.err
	}
	m.indexed = append(m.indexed, id)
	return nil
}

func (m *mockIndexer) DeletePost(ctx context.Context, id int) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockIndexer) SearchPosts(ctx context.Context, query string) ([]map[string]interface{}, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

type fixture struct {
	svc   *PostService
	store *mockPostStore
	users *mockUserClient
	cache *mockCache
	es    *mockIndexer
}

func newFixture() *fixture {
	store := newMockPostStore()
	users := &mockUserClient{users: map[int]userclient.UserDetails{
		7: {Username: "alice", Email: "a@x.com"},
		8: {Username: "bob", Email: "b@x.com"},
	}}
	c := newMockCache()
	es := &mockIndexer{}
	return &fixture{
		svc:   NewPostService(store, users, c, es),
		store: store,
		users: users,
		cache: c,
		es:    es,
	}
}

func TestCreatePost(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	post, err := f.svc.CreatePost(ctx, CreatePostInput{Title: "T", Content: "C", UserID: 7})
	require.NoError(t, err)

	assert.NotZero(t, post.ID)
	assert.Equal(t, "T", post.Title)
	assert.Equal(t, "C", post.Content)
	assert.Equal(t, 7, post.UserID)
	assert.False(t, post.Approved)
	assert.Equal(t, "alice", post.UserName)
	assert.Equal(t, "a@x.com", post.UserEmail)

	// User details are display-only and must not reach storage.
	stored := f.store.posts[post.ID]
	assert.Empty(t, stored.UserName)
	assert.Empty(t, stored.UserEmail)

	assert.Equal(t, []int{post.ID}, f.es.indexed)
}

func TestCreatePostEnrichmentFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.users.err = errors.New("connection refused")

	post, err := f.svc.CreatePost(context.Background(), CreatePostInput{Title: "T", Content: "C", UserID: 7})
	require.NoError(t, err)
	assert.NotZero(t, post.ID)
	assert.Empty(t, post.UserName)
	assert.Empty(t, post.UserEmail)
}

func TestCreatePostStoreError(t *testing.T) {
	f := newFixture()
	f.store.saveErr = errors.New("connection reset")

	_, err := f.svc.CreatePost(context.Background(), CreatePostInput{Title: "T", Content: "C", UserID: 7})
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
}

func TestApprovePost(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	post, err := f.svc.CreatePost(ctx, CreatePostInput{Title: "T", Content: "C", UserID: 7})
	require.NoError(t, err)

	require.NoError(t, f.svc.ApprovePost(ctx, post.ID))
	got, err := f.svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, got.Approved)

	// Approving an already-approved post succeeds and keeps it approved.
	require.NoError(t, f.svc.ApprovePost(ctx, post.ID))
	got, err = f.svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, got.Approved)
}

func TestApprovePostNotFound(t *testing.T) {
	f := newFixture()
	err := f.svc.ApprovePost(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "Post not found with id: 42", err.Error())
}

func TestGetPost(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	post, err := f.svc.CreatePost(ctx, CreatePostInput{Title: "T", Content: "C", UserID: 7})
	require.NoError(t, err)

	got, err := f.svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)
	assert.Equal(t, "alice", got.UserName)
	assert.Equal(t, "a@x.com", got.UserEmail)
}

func TestGetPostNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.svc.GetPost(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "Post not found with id: 999", err.Error())
}

func TestGetPostServedFromCacheStillEnriched(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	post, err := f.svc.CreatePost(ctx, CreatePostInput{Title: "T", Content: "C", UserID: 7})
	require.NoError(t, err)

	_, err = f.svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	findCalls := f.store.findCalls

	got, err := f.svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, findCalls, f.store.findCalls, "second read should not hit the store")
	assert.Equal(t, "alice", got.UserName, "enrichment runs on cached reads too")
}

func TestGetAllPostsEnrichesEach(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.svc.CreatePost(ctx, CreatePostInput{Title: "A", Content: "x", UserID: 7})
	require.NoError(t, err)
	_, err = f.svc.CreatePost(ctx, CreatePostInput{Title: "B", Content: "y", UserID: 13})
	require.NoError(t, err)

	posts, err := f.svc.GetAllPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	// User 7 resolves, user 13 does not; the second post still comes back.
	assert.Equal(t, "alice", posts[0].UserName)
	assert.Empty(t, posts[1].UserName)
	assert.Empty(t, posts[1].UserEmail)
}

func TestUpdatePost(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	post, err := f.svc.CreatePost(ctx, CreatePostInput{Title: "T", Content: "C", UserID: 7})
	require.NoError(t, err)
	require.NoError(t, f.svc.ApprovePost(ctx, post.ID))
	userCalls := f.users.calls

	updated, err := f.svc.UpdatePost(ctx, post.ID, UpdatePostInput{Title: "T2", Content: "C2"})
	require.NoError(t, err)
	assert.Equal(t, "T2", updated.Title)
	assert.Equal(t, "C2", updated.Content)
	assert.Equal(t, 7, updated.UserID)
	assert.True(t, updated.Approved)
	assert.Equal(t, userCalls, f.users.calls, "update does not re-enrich")
	assert.Empty(t, updated.UserName)
}

func TestUpdatePostNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.svc.UpdatePost(context.Background(), 5, UpdatePostInput{Title: "T", Content: "C"})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestDeletePost(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	post, err := f.svc.CreatePost(ctx, CreatePostInput{Title: "T", Content: "C", UserID: 7})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeletePost(ctx, post.ID))
	_, err = f.svc.GetPost(ctx, post.ID)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, []int{post.ID}, f.es.deleted)
}

func TestDeletePostNotFound(t *testing.T) {
	f := newFixture()
	err := f.svc.DeletePost(context.Background(), 3)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestGetPostsByUserID(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for _, in := range []CreatePostInput{
		{Title: "A", Content: "x", UserID: 7},
		{Title: "B", Content: "y", UserID: 8},
		{Title: "C", Content: "z", UserID: 7},
	} {
		_, err := f.svc.CreatePost(ctx, in)
		require.NoError(t, err)
	}

	posts, err := f.svc.GetPostsByUserID(ctx, 7)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	for _, p := range posts {
		assert.Equal(t, 7, p.UserID)
	}

	none, err := f.svc.GetPostsByUserID(ctx, 99)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestIndexerFailureDoesNotAffectWrites(t *testing.T) {
	f := newFixture()
	f.es.err = errors.New("es unavailable")
	ctx := context.Background()

	post, err := f.svc.CreatePost(ctx, CreatePostInput{Title: "T", Content: "C", UserID: 7})
	require.NoError(t, err)
	_, err = f.svc.UpdatePost(ctx, post.ID, UpdatePostInput{Title: "T2", Content: "C2"})
	require.NoError(t, err)
	require.NoError(t, f.svc.DeletePost(ctx, post.ID))
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/example/post-service/internal/db"
	"github.com/example/post-service/internal/models"
)

type PostRepository struct{ db *db.Database }

func NewPostRepository(database *db.Database) *PostRepository {
	return &PostRepository{db: database}
}

// Save inserts the post when it has no id yet and updates it otherwise. New
// posts get an activity_log row in the same transaction.
func (r *PostRepository) Save(ctx context.Context, p *models.Post) error {
	if p.ID == 0 {
		return r.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.WithContext(ctx).Create(p).Error; err != nil {
				return err
			}
			return r.logActivity(ctx, tx, "new_post", p.ID)
		})
	}
	return r.db.Gorm.WithContext(ctx).Save(p).Error
}

// FindByID returns (nil, nil) when no post has the given id.
func (r *PostRepository) FindByID(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	if err := r.db.Gorm.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) FindAll(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.Gorm.WithContext(ctx).Order("id").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepository) Delete(ctx context.Context, p *models.Post) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Delete(&models.Post{}, p.ID).Error; err != nil {
			return err
		}
		return r.logActivity(ctx, tx, "delete_post", p.ID)
	})
}

func (r *PostRepository) logActivity(ctx context.Context, tx *gorm.DB, action string, postID int) error {
	log := models.ActivityLog{Action: action, PostID: postID}
	return tx.WithContext(ctx).Create(&log).Error
}

// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	ListAll(ctx context.Context) ([]*models.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error)
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	GetPostID(ctx context.Context, id uint) (uint, error)
	Create(ctx context.Context, comment *models.Comment) error
	UpdateText(ctx context.Context, id uint, text string) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// authorFields restricts eager-loaded users to the columns the API exposes.
func authorFields(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username")
}

// postFields restricts the eager-loaded parent post to id and title; user_id
// is needed to resolve the post author's nested preload.
func postFields(db *gorm.DB) *gorm.DB {
	return db.Select("id", "title", "user_id")
}

// ListAll returns every comment grouped by author (user_id ascending),
// newest-first within each group, with the author and the parent post
// (including the post's author) eagerly joined.
func (r *commentRepository) ListAll(ctx context.Context) ([]*models.Comment, error) {
	comments := make([]*models.Comment, 0)
	err := r.db.WithContext(ctx).
		Preload("User", authorFields).
		Preload("Post", postFields).
		Preload("Post.User", authorFields).
		Order("user_id asc, created_at desc").
		Find(&comments).Error
	return comments, err
}

// ListByPost returns the comments of a single post, newest-first, with only
// the author joined (the caller already knows the post).
func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	comments := make([]*models.Comment, 0)
	err := r.db.WithContext(ctx).
		Preload("User", authorFields).
		Where("post_id = ?", postID).
		Order("created_at desc").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Preload("User", authorFields).
		Preload("Post", postFields).
		Preload("Post.User", authorFields).
		First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetPostID looks up only the parent post id of a comment. Used for cache
// invalidation around the bulk write operations.
func (r *commentRepository) GetPostID(ctx context.Context, id uint) (uint, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Select("id", "post_id").First(&comment, id).Error; err != nil {
		return 0, err
	}
	return comment.PostID, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// UpdateText performs a bulk update scoped to the single id and reports the
// number of rows affected. It deliberately does not load the row first.
func (r *commentRepository) UpdateText(ctx context.Context, id uint, text string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", id).
		Update("text", text)
	return res.RowsAffected, res.Error
}

// Delete removes the comment row. Comments have no soft-delete column, so
// this is a physical delete. Reports the number of rows removed.
func (r *commentRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	return res.RowsAffected, res.Error
}

package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
	"github.com/koinonia-app/koinonia-api/internal/domain/post"
	"github.com/koinonia-app/koinonia-api/internal/logger"
	"github.com/koinonia-app/koinonia-api/internal/storage"
)

// PostRepository implements storage.PostRepository using GORM.
type PostRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{
		db:  db,
		log: logger.Repository("post"),
	}
}

func (r *PostRepository) Create(ps *post.Post) error {
	r.log.Debug("creating post", "author_id", ps.AuthorID)

	if err := ps.Validate(); err != nil {
		return err
	}

	if err := r.db.Create(ps).Error; err != nil {
		r.log.Error("failed to create post", "error", err)
		return fmt.Errorf("failed to create post: %w", err)
	}

	r.log.Info("post created", "id", ps.ID)
	return nil
}

func (r *PostRepository) GetByID(id uuid.UUID) (*post.Post, error) {
	var ps post.Post
	if err := r.db.First(&ps, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		r.log.Error("failed to get post by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get post by ID: %w", err)
	}
	return &ps, nil
}

func (r *PostRepository) Update(ps *post.Post) error {
	if err := ps.Validate(); err != nil {
		return err
	}

	if err := r.db.Save(ps).Error; err != nil {
		r.log.Error("failed to update post", "error", err, "id", ps.ID)
		return fmt.Errorf("failed to update post: %w", err)
	}

	r.log.Info("post updated", "id", ps.ID)
	return nil
}

func (r *PostRepository) Delete(id uuid.UUID) error {
	res := r.db.Delete(&post.Post{}, "id = ?", id)
	if res.Error != nil {
		r.log.Error("failed to delete post", "error", res.Error, "id", id)
		return fmt.Errorf("failed to delete post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}

	r.log.Info("post deleted", "id", id)
	return nil
}

func (r *PostRepository) List(groupID *uuid.UUID, p storage.PaginationParams) ([]*post.Post, int64, error) {
	p.Normalize()

	query := r.db.Model(&post.Post{})
	if groupID != nil {
		query = query.Where("group_id = ?", *groupID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.log.Error("failed to count posts", "error", err)
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	var posts []*post.Post
	if err := query.Order("created_at DESC").
		Offset(p.Offset()).Limit(p.PageSize).
		Find(&posts).Error; err != nil {
		r.log.Error("failed to list posts", "error", err)
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, total, nil
}

// ClearGroup detaches all posts from a group being deleted; the posts
// themselves stay in the feed.
func (r *PostRepository) ClearGroup(groupID uuid.UUID) error {
	if err := r.db.Model(&post.Post{}).
		Where("group_id = ?", groupID).
		Update("group_id", nil).Error; err != nil {
		r.log.Error("failed to clear group from posts", "error", err, "group_id", groupID)
		return fmt.Errorf("failed to clear group from posts: %w", err)
	}
	return nil
}

func (r *PostRepository) CreateComment(c *post.Comment) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if err := r.db.Create(c).Error; err != nil {
		r.log.Error("failed to create comment", "error", err, "post_id", c.PostID)
		return fmt.Errorf("failed to create comment: %w", err)
	}

	r.log.Info("comment created", "id", c.ID, "post_id", c.PostID)
	return nil
}

func (r *PostRepository) ListComments(postID uuid.UUID) ([]*post.Comment, error) {
	var comments []*post.Comment
	if err := r.db.Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		r.log.Error("failed to list comments", "error", err, "post_id", postID)
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (r *PostRepository) FindLike(userID, postID uuid.UUID) (*post.Like, error) {
	var like post.Like
	if err := r.db.Where("user_id = ? AND post_id = ?", userID, postID).First(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.Error("failed to find like", "error", err, "post_id", postID)
		return nil, fmt.Errorf("failed to find like: %w", err)
	}
	return &like, nil
}

func (r *PostRepository) CreateLike(l *post.Like) error {
	if err := r.db.Create(l).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return storage.ErrRelationshipExists
		}
		r.log.Error("failed to create like", "error", err, "post_id", l.PostID)
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

func (r *PostRepository) DeleteLike(userID, postID uuid.UUID) error {
	res := r.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&post.Like{})
	if res.Error != nil {
		r.log.Error("failed to delete like", "error", res.Error, "post_id", postID)
		return fmt.Errorf("failed to delete like: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostRepository) CountLikes(postID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Model(&post.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		r.log.Error("failed to count likes", "error", err, "post_id", postID)
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

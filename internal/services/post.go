package services

import (
	"errors"

	"github.com/google/uuid"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
	"github.com/koinonia-app/koinonia-api/internal/domain/policy"
	"github.com/koinonia-app/koinonia-api/internal/domain/post"
	"github.com/koinonia-app/koinonia-api/internal/logger"
	"github.com/koinonia-app/koinonia-api/internal/storage"
)

// PostService handles feed posts, comments and likes.
type PostService struct {
	store  storage.Store
	policy *policy.Engine
}

// NewPostService creates a new post service.
func NewPostService(store storage.Store, engine *policy.Engine) *PostService {
	return &PostService{store: store, policy: engine}
}

// CreatePostRequest is the payload for creating a post.
type CreatePostRequest struct {
	Content  string     `json:"content" binding:"required"`
	ImageURL string     `json:"image_url"`
	GroupID  *uuid.UUID `json:"group_id"`
}

// Create makes a post, optionally attached to a group the author can see.
func (s *PostService) Create(authorID uuid.UUID, req CreatePostRequest) (*post.Post, error) {
	if req.GroupID != nil {
		g, err := s.store.Groups().GetByID(*req.GroupID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, err
			}
			return nil, common.Internal(err)
		}
		if err := s.policy.AuthorizeView(authorID, g); err != nil {
			return nil, err
		}
	}

	ps := post.New(req.Content, req.ImageURL, authorID, req.GroupID)
	if err := ps.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Posts().Create(ps); err != nil {
		if errors.Is(err, common.ErrValidation) {
			return nil, err
		}
		return nil, common.Internal(err)
	}

	logger.Service("posts").Debug("Post created", "post_id", ps.ID, "author_id", authorID)
	return ps, nil
}

// Get returns a post by ID. Posts are visible to every authenticated user.
func (s *PostService) Get(postID uuid.UUID) (*post.Post, error) {
	ps, err := s.store.Posts().GetByID(postID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, common.Internal(err)
	}
	return ps, nil
}

// UpdatePostRequest carries the editable post fields.
type UpdatePostRequest struct {
	Content  *string `json:"content"`
	ImageURL *string `json:"image_url"`
}

// Update edits a post. Author only.
func (s *PostService) Update(userID, postID uuid.UUID, req UpdatePostRequest) (*post.Post, error) {
	ps, err := s.store.Posts().GetByID(postID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, common.Internal(err)
	}
	if err := s.policy.AuthorizeManage(userID, ps); err != nil {
		return nil, err
	}

	if req.Content != nil {
		ps.Content = *req.Content
	}
	if req.ImageURL != nil {
		ps.ImageURL = *req.ImageURL
	}

	if err := ps.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Posts().Update(ps); err != nil {
		return nil, common.Internal(err)
	}
	return ps, nil
}

// Delete removes a post. Author only.
func (s *PostService) Delete(userID, postID uuid.UUID) error {
	ps, err := s.store.Posts().GetByID(postID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return err
		}
		return common.Internal(err)
	}
	if err := s.policy.AuthorizeManage(userID, ps); err != nil {
		return err
	}

	if err := s.store.Posts().Delete(postID); err != nil {
		return common.Internal(err)
	}
	return nil
}

// List returns the feed, newest first, optionally filtered to a group the
// viewer can see.
func (s *PostService) List(viewerID uuid.UUID, groupID *uuid.UUID, p storage.PaginationParams) ([]*post.Post, int64, error) {
	if groupID != nil {
		g, err := s.store.Groups().GetByID(*groupID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, 0, err
			}
			return nil, 0, common.Internal(err)
		}
		if err := s.policy.AuthorizeView(viewerID, g); err != nil {
			return nil, 0, err
		}
	}

	posts, total, err := s.store.Posts().List(groupID, p)
	if err != nil {
		return nil, 0, common.Internal(err)
	}
	return posts, total, nil
}

// Comment adds a reply to a post.
func (s *PostService) Comment(userID, postID uuid.UUID, content string) (*post.Comment, error) {
	if _, err := s.Get(postID); err != nil {
		return nil, err
	}

	c := &post.Comment{
		ID:      uuid.New(),
		Content: content,
		UserID:  userID,
		PostID:  postID,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Posts().CreateComment(c); err != nil {
		if errors.Is(err, common.ErrValidation) {
			return nil, err
		}
		return nil, common.Internal(err)
	}
	return c, nil
}

// Comments lists a post's replies, oldest first.
func (s *PostService) Comments(postID uuid.UUID) ([]*post.Comment, error) {
	if _, err := s.Get(postID); err != nil {
		return nil, err
	}

	comments, err := s.store.Posts().ListComments(postID)
	if err != nil {
		return nil, common.Internal(err)
	}
	return comments, nil
}

// ToggleLike likes an unliked post and unlikes a liked one, returning
// whether the post ends up liked and the new like count. A race between
// two toggles resolves to one of the two serial orders.
func (s *PostService) ToggleLike(userID, postID uuid.UUID) (bool, int64, error) {
	if _, err := s.Get(postID); err != nil {
		return false, 0, err
	}

	existing, err := s.store.Posts().FindLike(userID, postID)
	if err != nil {
		return false, 0, common.Internal(err)
	}

	liked := false
	if existing == nil {
		err := s.store.Posts().CreateLike(&post.Like{ID: uuid.New(), UserID: userID, PostID: postID})
		switch {
		case err == nil:
			liked = true
		case errors.Is(err, storage.ErrRelationshipExists):
			// Lost the race to our own earlier request; the like stands.
			liked = true
		default:
			return false, 0, common.Internal(err)
		}
	} else {
		if err := s.store.Posts().DeleteLike(userID, postID); err != nil && !errors.Is(err, common.ErrNotFound) {
			return false, 0, common.Internal(err)
		}
	}

	count, err := s.store.Posts().CountLikes(postID)
	if err != nil {
		return liked, 0, common.Internal(err)
	}
	return liked, count, nil
}

// LikeCount returns the number of likes on a post.
func (s *PostService) LikeCount(postID uuid.UUID) (int64, error) {
	if _, err := s.Get(postID); err != nil {
		return 0, err
	}
	count, err := s.store.Posts().CountLikes(postID)
	if err != nil {
		return 0, common.Internal(err)
	}
	return count, nil
}

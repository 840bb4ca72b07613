package post

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/koinonia-app/koinonia-api/internal/domain/common"
)

// Post is a feed entry, optionally attached to a group. Posts carry no
// privacy flag: every authenticated user can read them, and only the
// author can change or remove them.
type Post struct {
	ID       uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Content  string     `json:"content" gorm:"type:text;not null"`
	ImageURL string     `json:"image_url,omitempty"`
	AuthorID uuid.UUID  `json:"author_id" gorm:"type:uuid;not null"`
	GroupID  *uuid.UUID `json:"group_id,omitempty" gorm:"type:uuid"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Post) TableName() string {
	return "posts"
}

// BeforeCreate sets a UUID before creating the record
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// New creates a post by the given author.
func New(content, imageURL string, authorID uuid.UUID, groupID *uuid.UUID) *Post {
	return &Post{
		ID:       uuid.New(),
		Content:  content,
		ImageURL: imageURL,
		AuthorID: authorID,
		GroupID:  groupID,
	}
}

// Validate checks if the post data is valid
func (p *Post) Validate() error {
	if p.Content == "" {
		return common.Validationf("content is required")
	}
	if p.AuthorID == uuid.Nil {
		return common.Validationf("author_id is required")
	}
	return nil
}

func (p *Post) GetID() uuid.UUID      { return p.ID }
func (p *Post) GetOwnerID() uuid.UUID { return p.AuthorID }
func (p *Post) IsPrivate() bool       { return false }

func (p *Post) ObjectKind() common.ObjectKind { return common.ObjectKindPost }

// Comment is a reply on a post.
type Comment struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Content string    `json:"content" gorm:"type:text;not null"`
	UserID  uuid.UUID `json:"user_id" gorm:"type:uuid;not null"`
	PostID  uuid.UUID `json:"post_id" gorm:"type:uuid;not null;index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Comment) TableName() string {
	return "post_comments"
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Validate checks if the comment data is valid
func (c *Comment) Validate() error {
	if c.Content == "" {
		return common.Validationf("content is required")
	}
	return nil
}

// Like marks that a user liked a post. Liking is a toggle: a second like
// request removes the row rather than conflicting.
type Like struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_post_likes_user_post"`
	PostID uuid.UUID `json:"post_id" gorm:"type:uuid;not null;uniqueIndex:idx_post_likes_user_post"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Like) TableName() string {
	return "post_likes"
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

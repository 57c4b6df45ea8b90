package services

import (
	"errors"
	"strings"
	"time"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// PostService owns the post/comment lifecycle: publish, author-gated
// edit, comment. There is no delete operation.
type PostService struct {
	db *gorm.DB
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

// PostUpdate carries the mutable fields of a post. A nil Image leaves
// the stored image untouched; GroupID nil detaches the post from its
// group. Author and publication date are never updatable.
type PostUpdate struct {
	Text    string
	GroupID *uint
	Image   *string
}

// CreatePost publishes a new post. The publication date is assigned
// here, server-side, and stays immutable afterwards.
func (s *PostService) CreatePost(author uint, text string, groupID *uint, image string) (*models.Post, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	post := models.Post{
		Text:    text,
		PubDate: time.Now(),
		UserID:  author,
		GroupID: groupID,
		Image:   image,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPost loads a post with its author and group.
func (s *PostService) GetPost(postID uint) (*models.Post, error) {
	var post models.Post
	err := s.db.Preload("User").Preload("Group").First(&post, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// UpdatePost applies an author-gated edit. ErrNotAuthor means the caller
// should navigate to the detail page without touching the post.
func (s *PostService) UpdatePost(actor, postID uint, upd PostUpdate) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if post.UserID != actor {
		return nil, ErrNotAuthor
	}
	if strings.TrimSpace(upd.Text) == "" {
		return nil, ErrEmptyText
	}

	// A column map keeps pub_date and user_id out of the UPDATE entirely
	// and lets group_id go back to NULL.
	changes := map[string]interface{}{
		"text":     upd.Text,
		"group_id": upd.GroupID,
	}
	if upd.Image != nil {
		changes["image"] = *upd.Image
	}

	if err := s.db.Model(&post).Updates(changes).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// AddComment attaches a comment to a post. Any authenticated user may
// comment on any post.
func (s *PostService) AddComment(author, postID uint, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	comment := models.Comment{
		PostID:  &post.ID,
		UserID:  author,
		Text:    text,
		Created: time.Now(),
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Comments returns a post's comments, newest first.
func (s *PostService) Comments(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.Preload("User").
		Where("post_id = ?", postID).
		Order("created DESC, id DESC").
		Find(&comments).Error
	return comments, err
}

// AuthorPostCount returns how many posts a user has published.
func (s *PostService) AuthorPostCount(userID uint) int64 {
	var count int64
	s.db.Model(&models.Post{}).Where("user_id = ?", userID).Count(&count)
	return count
}

package services

import (
	"errors"
	"time"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// SocialService manages the Follow and Like edges. The composite unique
// indexes and check constraints on the edge tables stay authoritative;
// the service pre-checks exist to keep constraint errors off the normal
// path, not to replace them.
type SocialService struct {
	db *gorm.DB
}

func NewSocialService(db *gorm.DB) *SocialService {
	return &SocialService{db: db}
}

// Follow ensures a follow edge from follower to author. Repeated calls
// are not an error and never create a second edge (the product surface
// is a toggle button). Self-follow is rejected.
func (s *SocialService) Follow(follower, author uint) error {
	if follower == author {
		return ErrSelfFollow
	}

	edge := models.Follow{UserID: follower, AuthorID: author}
	err := s.db.Where("user_id = ? AND author_id = ?", follower, author).
		FirstOrCreate(&edge).Error
	if err != nil {
		// A concurrent request may have inserted the edge first; the
		// unique index then fails our insert, but the edge existing is
		// exactly what the caller asked for.
		if s.IsFollowing(follower, author) {
			return nil
		}
		return err
	}
	return nil
}

// Unfollow deletes the edge if present. A missing edge is a no-op.
func (s *SocialService) Unfollow(follower, author uint) error {
	return s.db.Where("user_id = ? AND author_id = ?", follower, author).
		Delete(&models.Follow{}).Error
}

// IsFollowing reports whether a follow edge exists.
func (s *SocialService) IsFollowing(user, author uint) bool {
	var count int64
	s.db.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", user, author).
		Count(&count)
	return count > 0
}

// LikePost records a like. Liking your own post is rejected, liking a
// post twice is silently absorbed to match the follow toggle semantics.
func (s *SocialService) LikePost(user, postID uint) error {
	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if post.UserID == user {
		return ErrSelfLike
	}

	like := models.Like{UserID: user, PostID: &postID, Created: time.Now()}
	err := s.db.Where("user_id = ? AND post_id = ?", user, postID).
		FirstOrCreate(&like).Error
	if err != nil {
		if s.HasLikedPost(user, postID) {
			return nil
		}
		return err
	}
	return nil
}

// UnlikePost deletes the like if present; absent is a no-op.
func (s *SocialService) UnlikePost(user, postID uint) error {
	return s.db.Where("user_id = ? AND post_id = ?", user, postID).
		Delete(&models.Like{}).Error
}

// LikeComment mirrors LikePost for the comment edge. No page exposes it
// yet, the schema and the XOR constraint already support it.
func (s *SocialService) LikeComment(user, commentID uint) error {
	var comment models.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if comment.UserID == user {
		return ErrSelfLike
	}

	like := models.Like{UserID: user, CommentID: &commentID, Created: time.Now()}
	err := s.db.Where("user_id = ? AND comment_id = ?", user, commentID).
		FirstOrCreate(&like).Error
	if err != nil {
		if s.hasLikedComment(user, commentID) {
			return nil
		}
		return err
	}
	return nil
}

// UnlikeComment deletes the like if present; absent is a no-op.
func (s *SocialService) UnlikeComment(user, commentID uint) error {
	return s.db.Where("user_id = ? AND comment_id = ?", user, commentID).
		Delete(&models.Like{}).Error
}

// HasLikedPost reports whether user already liked the post.
func (s *SocialService) HasLikedPost(user, postID uint) bool {
	var count int64
	s.db.Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", user, postID).
		Count(&count)
	return count > 0
}

func (s *SocialService) hasLikedComment(user, commentID uint) bool {
	var count int64
	s.db.Model(&models.Like{}).
		Where("user_id = ? AND comment_id = ?", user, commentID).
		Count(&count)
	return count > 0
}

// PostLikeCount returns the number of likes on a post.
func (s *SocialService) PostLikeCount(postID uint) int64 {
	var count int64
	s.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count)
	return count
}

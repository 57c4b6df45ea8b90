package models

import (
	"time"
)

// Like marks a post or a comment as liked by a user. Exactly one of
// PostID/CommentID is set; the check constraint makes the XOR explicit
// at the storage layer. One like per (user, post) and per (user, comment),
// PG treats NULL target columns as distinct so the partial pairs stay unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_post;uniqueIndex:idx_like_comment;check:chk_like_target,(post_id IS NULL) <> (comment_id IS NULL)" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	PostID    *uint     `gorm:"uniqueIndex:idx_like_post" json:"post_id"`
	Post      *Post     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"post"`
	CommentID *uint     `gorm:"uniqueIndex:idx_like_comment" json:"comment_id"`
	Comment   *Comment  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comment"`
	Created   time.Time `json:"created"`
}

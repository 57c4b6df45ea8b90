package models

import (
	"time"
)

type Comment struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	PostID  *uint     `gorm:"index" json:"post_id"`
	Post    *Post     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"post"`
	UserID  uint      `gorm:"not null;index" json:"user_id"`
	User    User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Text    string    `gorm:"type:text;not null" json:"text"`
	Created time.Time `gorm:"not null" json:"created"` // set once at creation
}

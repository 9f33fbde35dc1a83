package model

import "time"

// Review is a reader rating of a story, 1..5.
type Review struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	StoryID    string    `gorm:"type:varchar(36);index:idx_review_story;not null" json:"story_id"`
	ReviewerID string    `gorm:"type:varchar(36);index:idx_review_reviewer;not null" json:"reviewer_id"`
	Rating     int       `gorm:"not null" json:"rating"`
	ReviewText string    `gorm:"type:text" json:"review_text,omitempty"`
	CreatedAt  time.Time `gorm:"index:idx_review_created" json:"created_at"`
}

func (Review) TableName() string { return "reviews" }

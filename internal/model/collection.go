package model

import "time"

// Collection is a named, user-owned group of stories.
type Collection struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID      string    `gorm:"type:varchar(36);index:idx_collection_user;not null" json:"user_id"`
	Name        string    `gorm:"type:varchar(120);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	IsPublic    bool      `gorm:"index:idx_collection_public;not null;default:false" json:"is_public"`
	CreatedAt   time.Time `gorm:"index:idx_collection_created" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Collection) TableName() string { return "collections" }

// CollectionStory links a collection to a story at a display position.
// Positions grow monotonically per collection and are never renumbered on
// delete, so gaps are normal. There is deliberately no unique
// (collection_id, story_id) index: duplicate membership is tolerated.
type CollectionStory struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CollectionID string    `gorm:"type:varchar(36);index:idx_membership_collection;not null" json:"collection_id"`
	StoryID      string    `gorm:"type:varchar(36);index:idx_membership_story;not null" json:"story_id"`
	Position     int       `gorm:"not null" json:"position"`
	CreatedAt    time.Time `json:"created_at"`
}

func (CollectionStory) TableName() string { return "collection_stories" }

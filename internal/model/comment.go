package model

import "time"

// Comment 快照下的评论，只追加
type Comment struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(32)"`
	SnapshotID     string    `json:"snapshotId" gorm:"type:varchar(96);index:idx_comment_snapshot;not null"`
	AuthorID       string    `json:"authorId" gorm:"type:varchar(64);not null"`
	AuthorUsername string    `json:"authorUsername" gorm:"type:varchar(64)"`
	Text           string    `json:"text" gorm:"type:text;not null"`
	CreatedAt      time.Time `json:"timestamp" gorm:"index:idx_comment_snapshot"`
}

func (Comment) TableName() string { return "comments" }

// Cheer 每个用户对每个快照最多一次
type Cheer struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	SnapshotID string `gorm:"type:varchar(96);index:ux_cheer_pair,unique;not null"`
	UserID     string `gorm:"type:varchar(64);index:ux_cheer_pair,unique;not null"`
	CreatedAt  time.Time
}

func (Cheer) TableName() string { return "cheers" }

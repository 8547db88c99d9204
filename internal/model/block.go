package model

import "time"

// Block 拉黑关系（A 拉黑 B），即 A.blocked 中的一项
type Block struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	BlockerID string `gorm:"type:varchar(64);index:idx_block_pair,unique;not null"`
	BlockedID string `gorm:"type:varchar(64);index:idx_block_pair,unique;index:idx_block_blocked;not null"`
	CreatedAt time.Time
}

func (Block) TableName() string { return "blocks" }

package model

import "time"

// User 用户基本信息；关系集合不落在本表，由 follows / fans / blocks 三张表承载
type User struct {
	ID              string    `json:"uid" gorm:"primaryKey;type:varchar(64)"`
	Email           string    `json:"email" gorm:"type:varchar(255)"`
	Username        string    `json:"username" gorm:"type:varchar(64);uniqueIndex:ux_users_username;not null"`
	ProfileImageURL *string   `json:"profileImageURL,omitempty" gorm:"type:varchar(512)"`
	CreatedAt       time.Time `json:"createdAt"`
	LastActive      time.Time `json:"lastActive"`

	Following []string `json:"following" gorm:"-"`
	Followers []string `json:"followers" gorm:"-"`
	Blocked   []string `json:"blocked" gorm:"-"`
}

func (User) TableName() string { return "users" }

// UserSummary 列表与搜索结果使用的精简视图
type UserSummary struct {
	UID             string  `json:"uid"`
	Username        string  `json:"username"`
	ProfileImageURL *string `json:"profileImageURL,omitempty"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{UID: u.ID, Username: u.Username, ProfileImageURL: u.ProfileImageURL}
}

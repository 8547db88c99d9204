package model

import "time"

// FeedEntry 读时组装，不落库
type FeedEntry struct {
	ID                string     `json:"id"`
	UserID            string     `json:"userId"`
	Username          string     `json:"username"`
	ProfileImageURL   *string    `json:"profileImageURL,omitempty"`
	Date              string     `json:"date"`
	HasSnapshot       bool       `json:"hasSnapshot"`
	Hours             HourMap    `json:"hourglassData,omitempty"`
	Entries           []TimeSlot `json:"entries"`
	LastUpdated       time.Time  `json:"lastUpdated"`
	CheerCount        int64      `json:"cheerCount"`
	CheeredByViewer   bool       `json:"cheeredByViewer"`
	Comments          []*Comment `json:"comments"`
	IsMutualFollowing bool       `json:"isMutualFollowing"`
	// Redacted 非互关时网格、评论、加油均被服务端移除，只保留身份信息
	Redacted bool `json:"redacted"`
}

// Feed 查看者当天的动态流
type Feed struct {
	ViewerID string      `json:"viewerId"`
	Date     string      `json:"date"`
	Entries  []FeedEntry `json:"entries"`
	// PromptStartGrid 查看者今天尚未开始填写，好友数据暂不展示
	PromptStartGrid bool      `json:"promptStartGrid"`
	Stale           bool      `json:"stale"`
	GeneratedAt     time.Time `json:"generatedAt"`
}

// Redact 去掉非互关条目的内容
func (e *FeedEntry) Redact() {
	e.Hours = nil
	e.Entries = []TimeSlot{}
	e.Comments = nil
	e.CheerCount = 0
	e.CheeredByViewer = false
	e.Redacted = true
}

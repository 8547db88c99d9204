package event

import "time"

// Event 总线上传递的事件；订阅者按具体类型做 type switch
type Event interface {
	Name() string
}

// FollowChanged 关注/取消关注
type FollowChanged struct {
	FollowerID string
	FolloweeID string
	Following  bool
	At         time.Time
}

func (FollowChanged) Name() string { return "follow.changed" }

// BlockChanged 拉黑/取消拉黑；拉黑时双方的关注边已在同一事务内移除
type BlockChanged struct {
	BlockerID string
	BlockedID string
	Blocked   bool
	At        time.Time
}

func (BlockChanged) Name() string { return "block.changed" }

// ProfileChanged 用户名或头像变更
type ProfileChanged struct {
	UserID      string
	OldUsername string
	NewUsername string
	At          time.Time
}

func (ProfileChanged) Name() string { return "profile.changed" }

// CategoriesChanged 用户类别配置变更
type CategoriesChanged struct {
	UserID string
	At     time.Time
}

func (CategoriesChanged) Name() string { return "categories.changed" }

// SnapshotSaved 某天的网格被保存
type SnapshotSaved struct {
	UserID string
	Date   string
	Hours  int
	At     time.Time
}

func (SnapshotSaved) Name() string { return "snapshot.saved" }

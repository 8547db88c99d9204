package model

import (
	"fmt"
	"sort"
	"time"
)

const (
	HoursPerDay = 24
	// DateLayout 快照日期格式（按查看者时区取日）
	DateLayout = "2006-01-02"

	VisibilityFollowers = "followers"
)

// HourMap 小时(0-23) -> 类别，稀疏
type HourMap map[int]ActivityCategory

// Validate 校验小时键范围与类别内容
func (h HourMap) Validate() error {
	for hour, cat := range h {
		if hour < 0 || hour >= HoursPerDay {
			return fmt.Errorf("hour %d out of range [0,23]", hour)
		}
		if err := cat.Validate(); err != nil {
			return fmt.Errorf("hour %d: %w", hour, err)
		}
	}
	return nil
}

// Merge 按键覆盖，不删除 other 中缺失的小时
func (h HourMap) Merge(other HourMap) HourMap {
	out := make(HourMap, len(h)+len(other))
	for k, v := range h {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Hours 升序返回已填写的小时
func (h HourMap) Hours() []int {
	hours := make([]int, 0, len(h))
	for k := range h {
		hours = append(hours, k)
	}
	sort.Ints(hours)
	return hours
}

// TimeSlot 半小时粒度的格子（0-47），客户端网格按此渲染
type TimeSlot struct {
	TimeSlot int              `json:"timeSlot"`
	Category ActivityCategory `json:"category"`
}

// Slots 把每个小时展开为两个半小时格子
func (h HourMap) Slots() []TimeSlot {
	hours := h.Hours()
	slots := make([]TimeSlot, 0, len(hours)*2)
	for _, hour := range hours {
		slots = append(slots,
			TimeSlot{TimeSlot: hour * 2, Category: h[hour]},
			TimeSlot{TimeSlot: hour*2 + 1, Category: h[hour]},
		)
	}
	return slots
}

// Snapshot 某用户某一天的网格，(user_id, date) 唯一
type Snapshot struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(96)"`
	UserID      string    `json:"userId" gorm:"type:varchar(64);uniqueIndex:ux_snapshot_user_date;not null"`
	Date        string    `json:"date" gorm:"type:varchar(10);uniqueIndex:ux_snapshot_user_date;not null"`
	Username    string    `json:"username" gorm:"type:varchar(64)"`
	Hours       HourMap   `json:"hourglassData" gorm:"serializer:json;type:text"`
	Visibility  string    `json:"visibility" gorm:"type:varchar(16);not null;default:followers"`
	LastUpdated time.Time `json:"lastUpdated" gorm:"index"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Snapshot) TableName() string { return "snapshots" }

// SnapshotID 与文档 ID 保持一致：<uid>_<YYYY-MM-DD>
func SnapshotID(userID, date string) string { return userID + "_" + date }

package model

import (
	"errors"
	"strings"
	"time"
)

// Color 四通道颜色，取值均在 [0,1]
type Color struct {
	Red     float64 `json:"red"`
	Green   float64 `json:"green"`
	Blue    float64 `json:"blue"`
	Opacity float64 `json:"opacity"`
}

func (c Color) Validate() error {
	for _, v := range []float64{c.Red, c.Green, c.Blue, c.Opacity} {
		if v < 0 || v > 1 {
			return errors.New("color channels must be within [0,1]")
		}
	}
	return nil
}

// ActivityCategory 活动类别的值对象，快照中按值保存
type ActivityCategory struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Color     Color  `json:"color"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

func (a ActivityCategory) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return errors.New("category name is required")
	}
	return a.Color.Validate()
}

// Category 用户自己的类别配置
type Category struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID   string    `json:"ownerId" gorm:"type:varchar(64);index:ux_category_owner_name,unique;not null"`
	Name      string    `json:"name" gorm:"type:varchar(64);index:ux_category_owner_name,unique;not null"`
	Color     Color     `json:"color" gorm:"embedded;embeddedPrefix:color_"`
	IsDefault bool      `json:"isDefault" gorm:"not null;default:false"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Category) TableName() string { return "activity_categories" }

func (c *Category) Value() ActivityCategory {
	return ActivityCategory{ID: c.ID, Name: c.Name, Color: c.Color, IsDefault: c.IsDefault}
}

// DefaultCategories 每个用户首次使用时预置的类别
func DefaultCategories() []ActivityCategory {
	return []ActivityCategory{
		{Name: "Sleep", Color: Color{Red: 0, Green: 0, Blue: 0, Opacity: 1}, IsDefault: true},
		{Name: "Productive", Color: Color{Red: 0, Green: 0.48, Blue: 1, Opacity: 1}, IsDefault: true},
		{Name: "Exercise", Color: Color{Red: 1, Green: 0.23, Blue: 0.19, Opacity: 1}, IsDefault: true},
		{Name: "Leisure", Color: Color{Red: 0.2, Green: 0.78, Blue: 0.35, Opacity: 1}, IsDefault: true},
		{Name: "Other", Color: Color{Red: 0.56, Green: 0.56, Blue: 0.58, Opacity: 1}, IsDefault: true},
	}
}

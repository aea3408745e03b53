package model

import (
	"encoding/json"
	"time"
)

// Metadata 键值元数据存储，value 约定为 JSON 数组
// （grades、subjects、sections、questionTypes 等分类字典）。
type Metadata struct {
	Key       string          `gorm:"primaryKey;size:64" json:"key"`
	Value     json.RawMessage `gorm:"type:json;not null" json:"value"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (Metadata) TableName() string {
	return "metadata"
}

// MetadataItem 字典项的约定形状，仅用于种子数据与名称解析。
type MetadataItem struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

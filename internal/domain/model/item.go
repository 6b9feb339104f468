package model

import (
	"time"

	"gorm.io/gorm"
)

// 商品（衣類1点/ロット）のライフサイクル状態。
// 真実はstatus_historiesで、このフィールドは同一Tx内で書く投影。
type ItemStatus string

const (
	ItemStatusAvailable  ItemStatus = "available"
	ItemStatusOnHold     ItemStatus = "on_hold"
	ItemStatusSold       ItemStatus = "sold"
	ItemStatusWrittenOff ItemStatus = "written_off"
)

type Item struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null;index" json:"nome"`
	Description string         `gorm:"type:text" json:"descricao"`
	Category    string         `gorm:"type:varchar(100);index" json:"categoria"`
	Size        string         `gorm:"type:varchar(20)" json:"tamanho"`
	Color       string         `gorm:"type:varchar(50)" json:"cor"`
	Price       int64          `gorm:"not null" json:"preco"`
	Quantity    int64          `gorm:"not null" json:"quantidade"`
	AgentID     int64          `gorm:"index" json:"agente_id"`
	Status      ItemStatus     `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

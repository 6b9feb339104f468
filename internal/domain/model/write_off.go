package model

import "time"

// 破損・紛失による在庫除却。取り消し不可。
type WriteOff struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Code      string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"codigo"`
	ItemID    int64     `gorm:"not null;index" json:"item_id"`
	Quantity  int64     `gorm:"not null" json:"quantidade"`
	Date      time.Time `gorm:"not null;index" json:"data"`
	Reason    string    `gorm:"type:varchar(255);not null" json:"motivo"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

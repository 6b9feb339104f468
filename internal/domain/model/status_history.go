package model

import "time"

// 商品ステータス遷移の追記専用ログ。更新・削除しない。
// 「現在のステータス」は最新エントリのNewStatus。
type StatusHistoryEntry struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemID int64 `gorm:"not null;index" json:"item_id"`

	// 新規作成時は空文字（遷移元なし）
	PriorStatus ItemStatus `gorm:"type:varchar(20)" json:"status_anterior"`
	NewStatus   ItemStatus `gorm:"type:varchar(20);not null" json:"status_novo"`

	// 同一トランザクションの全エントリで同じ時刻を共有する
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

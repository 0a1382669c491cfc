package schema

import "time"

// PartnerHint 一方留给系统的提示（如"最近很想要一条围巾"），
// 生成对方建议时作为个性化素材。
type PartnerHint struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RelationshipID string    `gorm:"size:64;index" json:"relationship_id"`
	AuthorID       string    `gorm:"size:64;index" json:"author_id"` // 写下提示的一方
	HintType       string    `gorm:"size:30" json:"hint_type"`       // gift_idea/activity_wish/general
	HintText       string    `gorm:"type:text" json:"hint_text"`
	Active         bool      `gorm:"default:true;index" json:"active"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (PartnerHint) TableName() string {
	return "partner_hints"
}

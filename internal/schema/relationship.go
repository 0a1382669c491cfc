package schema

import "time"

// Relationship 一段关系的主记录，两名成员共享
type Relationship struct {
	ID             string    `gorm:"primaryKey;size:64" json:"id"`
	MemberAID      string    `gorm:"size:64;index" json:"member_a_id"`
	MemberBID      string    `gorm:"size:64;index" json:"member_b_id"`
	LivingTogether bool      `json:"living_together"`
	DurationMonths int       `json:"duration_months"`
	Status         string    `gorm:"size:20;default:active" json:"status"` // active/paused/ended
	DateFrequency  string    `gorm:"size:20" json:"date_frequency"`        // weekly/monthly/rarely
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (Relationship) TableName() string {
	return "relationships"
}

// PartnerOf 返回关系中另一名成员的 ID，userID 不在关系内时返回空串
func (r *Relationship) PartnerOf(userID string) string {
	switch userID {
	case r.MemberAID:
		return r.MemberBID
	case r.MemberBID:
		return r.MemberAID
	default:
		return ""
	}
}

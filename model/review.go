package model

import "time"

// Review is one customer's rating of a family. Customer name and avatar are
// copied in at write time so historical reviews survive profile edits.
type Review struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	FamilyID       uint      `gorm:"not null;uniqueIndex:idx_review_customer_family" json:"family_id"`
	CustomerID     uint      `gorm:"not null;uniqueIndex:idx_review_customer_family" json:"customer_id"`
	Rating         int       `gorm:"not null" json:"rating"`
	Comment        string    `json:"comment"`
	CustomerName   string    `json:"customer_name"`
	CustomerAvatar string    `json:"customer_avatar"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

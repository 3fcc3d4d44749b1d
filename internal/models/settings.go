package models

import "time"

// Settings is a singleton row; SettingsID is the only id ever written.
const SettingsID = 1

type Settings struct {
	ID           int     `gorm:"primaryKey" json:"id"`
	AdmissionFee float64 `gorm:"not null;default:0" json:"admission_fee"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

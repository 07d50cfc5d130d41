package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a staff account allowed to use the dashboard.
type User struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"             json:"id"`
	Login       string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"login"`
	DisplayName string    `gorm:"type:varchar(255)"                    json:"displayName"`
	Password    string    `gorm:"type:varchar(255);not null"           json:"-"`
	IsAdmin     bool      `gorm:"not null;default:false"               json:"isAdmin"`
	CreatedAt   time.Time `gorm:"autoCreateTime"                       json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"                       json:"updatedAt"`
}

func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

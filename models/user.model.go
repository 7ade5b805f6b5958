package models

import "time"

const (
	RoleUser        = "User"
	RoleContributor = "Contributor"
	RoleAdmin       = "Admin"
)

type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserName    string    `json:"userName" gorm:"type:varchar(191);uniqueIndex;not null"`
	Email       string    `json:"email" gorm:"default:''"`
	FirstName   string    `json:"firstName" gorm:"default:''"`
	LastName    string    `json:"lastName" gorm:"default:''"`
	DisplayName string    `json:"displayName" gorm:"default:''"`
	Role        string    `json:"role" gorm:"default:'User'"` // User, Contributor, Admin
	Password    string    `json:"-" gorm:"not null"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserSummary is the trimmed user shape embedded in other payloads.
type UserSummary struct {
	ID          uint   `json:"id"`
	UserName    string `json:"userName"`
	DisplayName string `json:"displayName"`
}

// Summary falls back to the user name when no display name is set.
func (u User) Summary() UserSummary {
	display := u.DisplayName
	if display == "" {
		display = u.UserName
	}
	return UserSummary{ID: u.ID, UserName: u.UserName, DisplayName: display}
}

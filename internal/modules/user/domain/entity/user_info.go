package entity

import (
	"time"
)

// UserInfo 用户表。DepartmentId 可空，引用 org.Department
type UserInfo struct {
	Id           int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Uuid         string    `gorm:"column:uuid;type:char(36);uniqueIndex;not null" json:"uuid"`
	Username     string    `gorm:"column:username;type:varchar(64);uniqueIndex;not null" json:"username"`
	Password     string    `gorm:"column:password;type:varchar(128);not null" json:"-"`
	IsAdmin      int8      `gorm:"column:is_admin;type:tinyint;not null;default:0" json:"is_admin"`
	DepartmentId *int64    `gorm:"column:department_id;index" json:"department_id"`
	CreatedAt    time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (UserInfo) TableName() string {
	return "user_info"
}

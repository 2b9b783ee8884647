package entity

import (
	"time"
)

// Department 部门，用户与部门级授权都引用它
type Department struct {
	Id        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(80);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (Department) TableName() string {
	return "department"
}

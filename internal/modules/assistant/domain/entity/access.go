package entity

// AssistantUserAccess 按用户授权，(assistant, user) 唯一。
// 拥有者不会出现为授权行，由 SharingService 保证而非数据库约束
type AssistantUserAccess struct {
	Id          int64  `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	AssistantId string `gorm:"column:assistant_id;type:char(36);not null;uniqueIndex:idx_assistant_user" json:"assistant"`
	UserId      int64  `gorm:"column:user_id;not null;uniqueIndex:idx_assistant_user" json:"user"`
	Permission  string `gorm:"column:permission;type:varchar(4);not null" json:"permission"`
}

func (AssistantUserAccess) TableName() string {
	return "assistant_user_access"
}

// AssistantDepartmentAccess 按部门授权，(assistant, department) 唯一
type AssistantDepartmentAccess struct {
	Id           int64  `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	AssistantId  string `gorm:"column:assistant_id;type:char(36);not null;uniqueIndex:idx_assistant_dept" json:"assistant"`
	DepartmentId int64  `gorm:"column:department_id;not null;uniqueIndex:idx_assistant_dept" json:"department"`
	Permission   string `gorm:"column:permission;type:varchar(4);not null" json:"permission"`
}

func (AssistantDepartmentAccess) TableName() string {
	return "assistant_department_access"
}

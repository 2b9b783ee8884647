package respond

// UserRespond 对外暴露的用户信息
type UserRespond struct {
	Id           int64  `json:"id"`
	Uuid         string `json:"uuid"`
	Username     string `json:"username"`
	IsAdmin      bool   `json:"is_admin"`
	DepartmentId *int64 `json:"department_id"`
}

// LoginRespond 登录结果
type LoginRespond struct {
	Token string      `json:"token"`
	User  UserRespond `json:"user"`
}

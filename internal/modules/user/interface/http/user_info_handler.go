package http

import (
	"net/http"

	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/user/application/dto/request"
	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/user/application/service"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/back"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/xerr"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserInfoHandler 用户HTTP Handler
type UserInfoHandler struct {
	svc service.UserInfoService
}

// NewUserInfoHandler 创建UserInfoHandler
func NewUserInfoHandler(svc service.UserInfoService) *UserInfoHandler {
	return &UserInfoHandler{svc: svc}
}

// Register 注册
//
// 路由: POST /register
func (h *UserInfoHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.BindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		zlog.Error("register failed", zap.Error(err))
		back.Result(c, nil, err)
		return
	}
	back.Status(c, http.StatusCreated, data)
}

// Login 登录，签发JWT
//
// 路由: POST /login
func (h *UserInfoHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.Login(c.Request.Context(), req)
	back.Result(c, data, err)
}

// Me 当前登录用户信息
//
// 路由: GET /api/users/me
func (h *UserInfoHandler) Me(c *gin.Context) {
	data, err := h.svc.Me(c.Request.Context(), c.GetString("uuid"))
	back.Result(c, data, err)
}

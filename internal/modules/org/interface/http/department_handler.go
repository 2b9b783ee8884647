package http

import (
	"net/http"
	"strconv"

	"github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/org/application/service"
	userRepository "github.com/phil-pk-hobbies/Assistant-Backend/internal/modules/user/domain/repository"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/back"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/xerr"
	"github.com/phil-pk-hobbies/Assistant-Backend/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DepartmentHandler 部门HTTP Handler
type DepartmentHandler struct {
	svc      service.DepartmentService
	userRepo userRepository.UserInfoRepository
}

// NewDepartmentHandler 创建DepartmentHandler
func NewDepartmentHandler(svc service.DepartmentService, userRepo userRepository.UserInfoRepository) *DepartmentHandler {
	return &DepartmentHandler{svc: svc, userRepo: userRepo}
}

type departmentRequest struct {
	Name string `json:"name"`
}

// 创建、改名、删除仅限平台管理员
func (h *DepartmentHandler) requireAdmin(c *gin.Context) bool {
	user, err := h.userRepo.GetByUuid(c.Request.Context(), c.GetString("uuid"))
	if err != nil || user.IsAdmin == 0 {
		back.Error(c, xerr.Forbidden, "admin privileges required")
		return false
	}
	return true
}

// List 部门列表
//
// 路由: GET /api/departments
func (h *DepartmentHandler) List(c *gin.Context) {
	data, err := h.svc.List(c.Request.Context())
	back.Result(c, data, err)
}

// Get 部门详情
//
// 路由: GET /api/departments/:id
func (h *DepartmentHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.Get(c.Request.Context(), id)
	back.Result(c, data, err)
}

// Create 新建部门
//
// 路由: POST /api/departments
func (h *DepartmentHandler) Create(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}
	var req departmentRequest
	if err := c.BindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.Create(c.Request.Context(), req.Name)
	if err != nil {
		zlog.Error("create department failed", zap.Error(err))
		back.Result(c, nil, err)
		return
	}
	back.Status(c, http.StatusCreated, data)
}

// Update 部门改名
//
// 路由: PUT /api/departments/:id
func (h *DepartmentHandler) Update(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	var req departmentRequest
	if err := c.BindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	data, err := h.svc.Rename(c.Request.Context(), id, req.Name)
	back.Result(c, data, err)
}

// Delete 删除部门，仍有用户引用时返回400
//
// 路由: DELETE /api/departments/:id
func (h *DepartmentHandler) Delete(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		back.Result(c, nil, err)
		return
	}
	back.Status(c, http.StatusNoContent, nil)
}

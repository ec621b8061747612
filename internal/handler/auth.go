package handler

import (
	"errors"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/user/cinehub/internal/middleware"
	"github.com/user/cinehub/internal/repository"
	"github.com/user/cinehub/internal/utils"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"omitempty,min=2,max=20"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type profileUpdateRequest struct {
	Username string `json:"username" binding:"omitempty,min=2,max=20"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// Register 注册
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	// 检查邮箱是否已存在
	existing, err := h.Repos.User.FindByEmail(req.Email)
	if err != nil {
		log.Printf("[Auth] 查询用户失败: %v", err)
		utils.InternalServerError(c, "")
		return
	}
	if existing != nil {
		utils.Conflict(c, "该邮箱已被注册")
		return
	}

	// 默认截取邮箱 @ 符号前的内容作为用户名
	username := req.Username
	if username == "" {
		if parts := strings.Split(req.Email, "@"); len(parts) > 0 {
			username = parts[0]
		}
	}

	user, err := h.Repos.User.Create(req.Email, username, req.Password)
	if err != nil {
		// 并发注册绕过了前置检查，由数据库唯一约束兜底
		if errors.Is(err, repository.ErrDuplicateEmail) {
			utils.Conflict(c, "该邮箱已被注册")
			return
		}
		log.Printf("[Auth] 创建用户失败: %v", err)
		utils.InternalServerError(c, "注册失败，请重试")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, user.Role, h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	c.SetCookie("token", token, int(h.Config.JWTExpiry.Seconds()), "/", "", false, true)

	utils.Created(c, gin.H{"token": token, "user": user})
}

// Login 登录
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	user, err := h.Repos.User.FindByEmail(req.Email)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	if user == nil || !h.Repos.User.CheckPassword(user, req.Password) {
		utils.Unauthorized(c, "邮箱或密码错误")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, user.Role, h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		utils.InternalServerError(c, "登录失败，请重试")
		return
	}
	c.SetCookie("token", token, int(h.Config.JWTExpiry.Seconds()), "/", "", false, true)

	utils.Success(c, gin.H{"token": token, "user": user})
}

// Verify 校验当前登录状态
func (h *Handler) Verify(c *gin.Context) {
	userID := middleware.GetUserID(c)
	user, err := h.Repos.User.FindByID(userID)
	if err != nil || user == nil {
		utils.Unauthorized(c, "")
		return
	}
	utils.Success(c, gin.H{"user": user})
}

// Logout 登出
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	utils.SuccessWithMessage(c, "已退出登录", nil)
}

// Profile 当前用户资料
func (h *Handler) Profile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	user, err := h.Repos.User.FindByID(userID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	if user == nil {
		utils.NotFound(c, "用户不存在")
		return
	}
	utils.Success(c, user)
}

// UpdateProfile 更新用户名/邮箱
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	// 检查邮箱是否已被其他账号使用
	if req.Email != "" {
		existing, err := h.Repos.User.FindByEmail(req.Email)
		if err != nil {
			utils.InternalServerError(c, "")
			return
		}
		if existing != nil && existing.ID != userID {
			utils.Conflict(c, "该邮箱已被其他账号使用")
			return
		}
	}

	if err := h.Repos.User.UpdateProfile(userID, req.Username, req.Email); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			utils.Conflict(c, "该邮箱已被其他账号使用")
			return
		}
		log.Printf("[Auth] 更新资料失败: %v", err)
		utils.InternalServerError(c, "")
		return
	}

	user, err := h.Repos.User.FindByID(userID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, user)
}

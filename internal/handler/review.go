package handler

import (
	"errors"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/user/cinehub/internal/middleware"
	"github.com/user/cinehub/internal/model"
	"github.com/user/cinehub/internal/repository"
	"github.com/user/cinehub/internal/utils"
)

type reviewCreateRequest struct {
	MovieID string `json:"movie_id" binding:"required"`
	Title   string `json:"title" binding:"omitempty,max=200"`
	Content string `json:"content" binding:"required,min=10,max=2000"`
	Rating  int    `json:"rating" binding:"required,min=1,max=10"`
}

type reviewUpdateRequest struct {
	Title   *string `json:"title" binding:"omitempty,max=200"`
	Content *string `json:"content" binding:"omitempty,min=10,max=2000"`
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=10"`
}

type markHelpfulRequest struct {
	Helpful *bool `json:"helpful" binding:"required"`
}

// CreateReview 发表影评
func (h *Handler) CreateReview(c *gin.Context) {
	var req reviewCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	ref := model.ParseMovieRef(req.MovieID)

	review := &model.Review{
		UserID:    userID,
		MovieID:   ref.ID,
		MovieType: ref.Origin,
		Title:     req.Title,
		Content:   req.Content,
		Rating:    req.Rating,
	}

	if err := h.Repos.Review.Create(review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			utils.Conflict(c, "您已评论过这部电影")
			return
		}
		log.Printf("[Review] 创建影评失败: %v", err)
		utils.InternalServerError(c, "")
		return
	}

	// 返回带作者用户名的完整影评
	created, err := h.Repos.Review.FindByID(review.ID)
	if err != nil || created == nil {
		utils.Created(c, review)
		return
	}
	utils.Created(c, created)
}

// ReviewsByMovie 某部电影的影评列表（含统计）
func (h *Handler) ReviewsByMovie(c *gin.Context) {
	ref := model.ParseMovieRef(c.Param("id"))
	limit, offset := parsePagination(c)

	reviews, err := h.Repos.Review.ListByMovie(ref, limit, offset)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	stats, err := h.Repos.Review.Stats(ref)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	utils.Success(c, gin.H{"reviews": reviews, "stats": stats})
}

// ReviewsByUser 某个用户的影评列表
func (h *Handler) ReviewsByUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "无效的用户 ID")
		return
	}

	limit, offset := parsePagination(c)
	reviews, err := h.Repos.Review.ListByUser(uint(userID), limit, offset)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, reviews)
}

// MyReviews 当前用户的影评列表
func (h *Handler) MyReviews(c *gin.Context) {
	limit, offset := parsePagination(c)
	reviews, err := h.Repos.Review.ListByUser(middleware.GetUserID(c), limit, offset)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, reviews)
}

// RecentReviews 最新影评
func (h *Handler) RecentReviews(c *gin.Context) {
	limit, offset := parsePagination(c)
	reviews, err := h.Repos.Review.ListRecent(limit, offset)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, reviews)
}

// ReviewByID 单条影评
func (h *Handler) ReviewByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "无效的影评 ID")
		return
	}

	review, err := h.Repos.Review.FindByID(uint(id))
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	if review == nil {
		utils.NotFound(c, "影评不存在")
		return
	}
	utils.Success(c, review)
}

// UpdateReview 修改影评（仅作者本人）
func (h *Handler) UpdateReview(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "无效的影评 ID")
		return
	}

	var req reviewUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	review, err := h.Repos.Review.FindByID(uint(id))
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	if review == nil {
		utils.NotFound(c, "影评不存在")
		return
	}

	// 所有权校验先于任何写入
	if review.UserID != middleware.GetUserID(c) {
		utils.Forbidden(c, "只能修改自己的影评")
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}

	if err := h.Repos.Review.Update(uint(id), updates); err != nil {
		log.Printf("[Review] 更新影评失败 (ID: %d): %v", id, err)
		utils.InternalServerError(c, "")
		return
	}

	updated, err := h.Repos.Review.FindByID(uint(id))
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, updated)
}

// DeleteReview 删除影评（作者本人或管理员）
func (h *Handler) DeleteReview(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "无效的影评 ID")
		return
	}

	review, err := h.Repos.Review.FindByID(uint(id))
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	if review == nil {
		utils.NotFound(c, "影评不存在")
		return
	}

	if review.UserID != middleware.GetUserID(c) && !middleware.IsAdmin(c) {
		utils.Forbidden(c, "只能删除自己的影评")
		return
	}

	if err := h.Repos.Review.Delete(uint(id)); err != nil {
		log.Printf("[Review] 删除影评失败 (ID: %d): %v", id, err)
		utils.InternalServerError(c, "")
		return
	}
	utils.SuccessWithMessage(c, "已删除", nil)
}

// MarkReviewHelpful 有用投票
// 作者不能给自己的影评投票，拒绝先于任何计数变更
func (h *Handler) MarkReviewHelpful(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "无效的影评 ID")
		return
	}

	var req markHelpfulRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	review, err := h.Repos.Review.FindByID(uint(id))
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	if review == nil {
		utils.NotFound(c, "影评不存在")
		return
	}

	if review.UserID == middleware.GetUserID(c) {
		utils.Forbidden(c, "不能给自己的影评投票")
		return
	}

	if err := h.Repos.Review.MarkHelpful(uint(id), *req.Helpful); err != nil {
		log.Printf("[Review] 投票失败 (ID: %d): %v", id, err)
		utils.InternalServerError(c, "")
		return
	}

	updated, err := h.Repos.Review.FindByID(uint(id))
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, updated)
}

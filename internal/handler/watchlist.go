package handler

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/user/cinehub/internal/middleware"
	"github.com/user/cinehub/internal/model"
	"github.com/user/cinehub/internal/utils"
)

type watchlistAddRequest struct {
	MovieID string `json:"movie_id" binding:"required"`
	Title   string `json:"title" binding:"omitempty,max=200"`
	Year    string `json:"year" binding:"omitempty,max=10"`
	Poster  string `json:"poster" binding:"omitempty,url"`
	Rating  string `json:"rating" binding:"omitempty,max=10"`
}

type checkMultipleRequest struct {
	MovieIDs []string `json:"movie_ids" binding:"required,min=1,max=100"`
}

// AddToWatchlist 加入想看清单，同时保存元数据快照
func (h *Handler) AddToWatchlist(c *gin.Context) {
	var req watchlistAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	ref := model.ParseMovieRef(req.MovieID)

	// 先查一次给出明确的"已在清单中"响应
	exists, err := h.Repos.Watchlist.Exists(userID, ref)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	if exists {
		utils.Conflict(c, "已在想看清单中")
		return
	}

	item := &model.WatchlistItem{
		UserID:    userID,
		MovieID:   ref.ID,
		MovieType: ref.Origin,
		Title:     req.Title,
		Year:      req.Year,
		Poster:    req.Poster,
		Rating:    req.Rating,
	}

	created, err := h.Repos.Watchlist.Add(item)
	if err != nil {
		log.Printf("[Watchlist] 添加失败: %v", err)
		utils.InternalServerError(c, "")
		return
	}
	// 并发添加输给了另一条请求，同样按已存在处理
	if !created {
		utils.Conflict(c, "已在想看清单中")
		return
	}

	utils.Created(c, item)
}

// MyWatchlist 当前用户的想看清单
func (h *Handler) MyWatchlist(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, offset := parsePagination(c)

	items, err := h.Repos.Watchlist.ListByUser(userID, limit, offset)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	total, err := h.Repos.Watchlist.CountByUser(userID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	utils.Success(c, gin.H{"items": items, "total": total})
}

// RemoveFromWatchlist 按电影引用移除
func (h *Handler) RemoveFromWatchlist(c *gin.Context) {
	userID := middleware.GetUserID(c)
	ref := model.ParseMovieRef(c.Param("id"))

	removed, err := h.Repos.Watchlist.Remove(userID, ref)
	if err != nil {
		log.Printf("[Watchlist] 移除失败: %v", err)
		utils.InternalServerError(c, "")
		return
	}
	if !removed {
		utils.NotFound(c, "不在想看清单中")
		return
	}
	utils.SuccessWithMessage(c, "已移除", nil)
}

// CheckWatchlist 检查单部电影是否在清单中
func (h *Handler) CheckWatchlist(c *gin.Context) {
	userID := middleware.GetUserID(c)
	ref := model.ParseMovieRef(c.Param("id"))

	exists, err := h.Repos.Watchlist.Exists(userID, ref)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, gin.H{"in_watchlist": exists})
}

// CheckWatchlistMultiple 批量检查多部电影是否在清单中
func (h *Handler) CheckWatchlistMultiple(c *gin.Context) {
	var req checkMultipleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	refs := make([]model.MovieRef, 0, len(req.MovieIDs))
	for _, id := range req.MovieIDs {
		refs = append(refs, model.ParseMovieRef(id))
	}

	membership, err := h.Repos.Watchlist.CheckMultiple(middleware.GetUserID(c), refs)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, membership)
}

// ClearWatchlist 清空想看清单
func (h *Handler) ClearWatchlist(c *gin.Context) {
	count, err := h.Repos.Watchlist.RemoveAll(middleware.GetUserID(c))
	if err != nil {
		log.Printf("[Watchlist] 清空失败: %v", err)
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, gin.H{"removed": count})
}

// PopularWatchlistMovies 全站热门电影（按想看人数）
func (h *Handler) PopularWatchlistMovies(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	movies, err := h.Repos.Watchlist.Popular(limit)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, movies)
}

// WatchlistStats 当前用户的清单统计
func (h *Handler) WatchlistStats(c *gin.Context) {
	stats, err := h.Repos.Watchlist.StatsByUser(middleware.GetUserID(c))
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, stats)
}

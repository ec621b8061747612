package handler

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"github.com/user/cinehub/internal/middleware"
	"github.com/user/cinehub/internal/model"
	"github.com/user/cinehub/internal/utils"
)

type movieCreateRequest struct {
	Title     string   `json:"title" binding:"required,max=200"`
	Year      int      `json:"year" binding:"omitempty,movieyear"`
	Runtime   int      `json:"runtime" binding:"omitempty,min=1,max=1000"`
	Director  string   `json:"director" binding:"omitempty,max=100"`
	Cast      []string `json:"cast" binding:"omitempty,max=50,dive,max=100"`
	Genres    []string `json:"genres" binding:"omitempty,max=20,dive,max=50"`
	Plot      string   `json:"plot" binding:"omitempty,max=5000"`
	Poster    string   `json:"poster" binding:"omitempty,url"`
	Rating    float64  `json:"rating" binding:"omitempty,min=0,max=10"`
	Language  string   `json:"language" binding:"omitempty,max=100"`
	Country   string   `json:"country" binding:"omitempty,max=100"`
	Awards    string   `json:"awards" binding:"omitempty,max=500"`
	BoxOffice string   `json:"box_office" binding:"omitempty,max=100"`
}

type movieUpdateRequest struct {
	Title     *string   `json:"title" binding:"omitempty,max=200"`
	Year      *int      `json:"year" binding:"omitempty,movieyear"`
	Runtime   *int      `json:"runtime" binding:"omitempty,min=1,max=1000"`
	Director  *string   `json:"director" binding:"omitempty,max=100"`
	Cast      *[]string `json:"cast" binding:"omitempty,max=50,dive,max=100"`
	Genres    *[]string `json:"genres" binding:"omitempty,max=20,dive,max=50"`
	Plot      *string   `json:"plot" binding:"omitempty,max=5000"`
	Poster    *string   `json:"poster" binding:"omitempty,url"`
	Rating    *float64  `json:"rating" binding:"omitempty,min=0,max=10"`
	Language  *string   `json:"language" binding:"omitempty,max=100"`
	Country   *string   `json:"country" binding:"omitempty,max=100"`
	Awards    *string   `json:"awards" binding:"omitempty,max=500"`
	BoxOffice *string   `json:"box_office" binding:"omitempty,max=100"`
}

// SearchMovies 双源聚合搜索
func (h *Handler) SearchMovies(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		utils.BadRequest(c, "缺少搜索关键词 q")
		return
	}

	page := parsePage(c)
	result, err := h.Catalog.CombinedSearch(c.Request.Context(), query, page)
	if err != nil {
		log.Printf("[Movie] 聚合搜索失败 (q=%s): %v", query, err)
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, result)
}

// MovieDetails 按统一引用获取电影详情
func (h *Handler) MovieDetails(c *gin.Context) {
	ref := model.ParseMovieRef(c.Param("id"))

	detail, err := h.Catalog.GetDetails(c.Request.Context(), ref)
	if err != nil {
		log.Printf("[Movie] 获取详情失败 (ref=%s): %v", ref, err)
		utils.InternalServerError(c, "")
		return
	}
	if detail == nil {
		utils.NotFound(c, "电影未找到")
		return
	}
	utils.Success(c, detail)
}

// FeaturedMovies 精选榜单
func (h *Handler) FeaturedMovies(c *gin.Context) {
	results, err := h.Catalog.Featured(c.Request.Context())
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, results)
}

// TopRatedMovies 高分榜
func (h *Handler) TopRatedMovies(c *gin.Context) {
	results, err := h.Catalog.TopRated(c.Request.Context(), parsePage(c))
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, results)
}

// NewReleaseMovies 新片榜
func (h *Handler) NewReleaseMovies(c *gin.Context) {
	results, err := h.Catalog.NewReleases(c.Request.Context())
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, results)
}

// CreateMovie 创建本地电影（仅管理员，由路由中间件保证）
func (h *Handler) CreateMovie(c *gin.Context) {
	var req movieCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	movie := &model.Movie{
		Title:     req.Title,
		Year:      req.Year,
		Runtime:   req.Runtime,
		Director:  req.Director,
		Cast:      pq.StringArray(req.Cast),
		Genres:    pq.StringArray(req.Genres),
		Plot:      req.Plot,
		Poster:    req.Poster,
		Rating:    req.Rating,
		Language:  req.Language,
		Country:   req.Country,
		Awards:    req.Awards,
		BoxOffice: req.BoxOffice,
		CreatedBy: &userID,
	}

	if err := h.Repos.Movie.Create(movie); err != nil {
		log.Printf("[Movie] 创建电影失败: %v", err)
		utils.InternalServerError(c, "")
		return
	}
	utils.Created(c, movie)
}

// UpdateMovie 部分更新本地电影（仅管理员）
func (h *Handler) UpdateMovie(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "无效的电影 ID")
		return
	}

	var req movieUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	existing, err := h.Repos.Movie.FindByID(uint(id))
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	if existing == nil {
		utils.NotFound(c, "电影未找到")
		return
	}

	// 只更新请求中出现的字段
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Year != nil {
		updates["year"] = *req.Year
	}
	if req.Runtime != nil {
		updates["runtime"] = *req.Runtime
	}
	if req.Director != nil {
		updates["director"] = *req.Director
	}
	if req.Cast != nil {
		updates["cast_members"] = pq.StringArray(*req.Cast)
	}
	if req.Genres != nil {
		updates["genres"] = pq.StringArray(*req.Genres)
	}
	if req.Plot != nil {
		updates["plot"] = *req.Plot
	}
	if req.Poster != nil {
		updates["poster"] = *req.Poster
	}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if req.Language != nil {
		updates["language"] = *req.Language
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}
	if req.Awards != nil {
		updates["awards"] = *req.Awards
	}
	if req.BoxOffice != nil {
		updates["box_office"] = *req.BoxOffice
	}

	if err := h.Repos.Movie.Update(uint(id), updates); err != nil {
		log.Printf("[Movie] 更新电影失败 (ID: %d): %v", id, err)
		utils.InternalServerError(c, "")
		return
	}

	movie, err := h.Repos.Movie.FindByID(uint(id))
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, movie)
}

// DeleteMovie 删除本地电影（仅管理员）
func (h *Handler) DeleteMovie(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "无效的电影 ID")
		return
	}

	existing, err := h.Repos.Movie.FindByID(uint(id))
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	if existing == nil {
		utils.NotFound(c, "电影未找到")
		return
	}

	if err := h.Repos.Movie.Delete(uint(id)); err != nil {
		log.Printf("[Movie] 删除电影失败 (ID: %d): %v", id, err)
		utils.InternalServerError(c, "")
		return
	}
	utils.SuccessWithMessage(c, "已删除", nil)
}

package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/user/cinehub/internal/config"
	"github.com/user/cinehub/internal/repository"
	"github.com/user/cinehub/internal/service"
)

// Handler HTTP 处理器
type Handler struct {
	Repos   *repository.Repositories
	Config  *config.Config
	Catalog *service.CatalogService
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config) *Handler {
	// 创建外部片库网关
	omdb := service.NewOMDBService(cfg)

	// 创建聚合服务
	catalog := service.NewCatalogService(repos.Movie, omdb)

	return &Handler{
		Repos:   repos,
		Config:  cfg,
		Catalog: catalog,
	}
}

// parsePagination 解析分页参数，默认每页 20 条，上限 100
func parsePagination(c *gin.Context) (limit, offset int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return limit, (page - 1) * limit
}

// parsePage 解析页码参数
func parsePage(c *gin.Context) int {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	return page
}

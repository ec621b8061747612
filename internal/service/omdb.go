package service

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"time"

	"github.com/user/cinehub/internal/config"
	"github.com/user/cinehub/internal/model"
	"github.com/user/cinehub/internal/utils"
)

// NoAPIKeyMessage 外部数据源未配置时的降级说明
const NoAPIKeyMessage = "外部片库未配置，仅返回本地片库结果"

// OMDBService OMDb 外部片库网关
// 每次请求都实时访问外部接口，不做缓存，不做重试
type OMDBService struct {
	client  *utils.HTTPClient
	apiKey  string
	baseURL string
}

// NewOMDBService 创建 OMDb 网关
func NewOMDBService(cfg *config.Config) *OMDBService {
	return &OMDBService{
		client:  utils.NewHTTPClient(5 * time.Second),
		apiKey:  cfg.OMDBAPIKey,
		baseURL: cfg.OMDBBaseURL,
	}
}

// Enabled 外部数据源是否已配置
func (s *OMDBService) Enabled() bool {
	return s.apiKey != ""
}

type omdbSearchItem struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

type omdbSearchResponse struct {
	Search       []omdbSearchItem `json:"Search"`
	TotalResults string           `json:"totalResults"`
	Response     string           `json:"Response"`
	Error        string           `json:"Error"`
}

// SearchMovies 搜索外部片库
// 未配置密钥时降级为空结果，绝不因外部依赖缺失而报错
func (s *OMDBService) SearchMovies(ctx context.Context, query string, page int) (*model.SearchPage, error) {
	if !s.Enabled() {
		return &model.SearchPage{
			Results:      []model.MovieResult{},
			TotalResults: 0,
			Page:         page,
			Message:      NoAPIKeyMessage,
		}, nil
	}

	reqURL := fmt.Sprintf("%s?apikey=%s&s=%s&page=%d&type=movie",
		s.baseURL, s.apiKey, url.QueryEscape(query), page)

	var resp omdbSearchResponse
	if err := s.client.GetJSON(ctx, reqURL, &resp); err != nil {
		return nil, fmt.Errorf("omdb search failed: %w", err)
	}

	// OMDb 无结果时返回 Response=False，不算错误
	if resp.Response != "True" {
		return &model.SearchPage{
			Results:      []model.MovieResult{},
			TotalResults: 0,
			Page:         page,
		}, nil
	}

	total, _ := strconv.Atoi(resp.TotalResults)
	results := make([]model.MovieResult, 0, len(resp.Search))
	for _, item := range resp.Search {
		results = append(results, model.MovieResult{
			ID:     item.IMDbID,
			Title:  item.Title,
			Year:   item.Year,
			Poster: item.Poster,
			Type:   item.Type,
			Source: model.OriginExternal,
		})
	}

	return &model.SearchPage{
		Results:      results,
		TotalResults: total,
		Page:         page,
	}, nil
}

type omdbDetailResponse struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Language   string `json:"Language"`
	Country    string `json:"Country"`
	Awards     string `json:"Awards"`
	Poster     string `json:"Poster"`
	IMDbRating string `json:"imdbRating"`
	BoxOffice  string `json:"BoxOffice"`
	Type       string `json:"Type"`
	IMDbID     string `json:"imdbID"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

// GetByID 获取外部电影详情，未找到返回 nil
func (s *OMDBService) GetByID(ctx context.Context, rawID string) (*model.MovieDetail, error) {
	if !s.Enabled() {
		return nil, nil
	}

	reqURL := fmt.Sprintf("%s?apikey=%s&i=%s&plot=full",
		s.baseURL, s.apiKey, url.QueryEscape(rawID))

	var resp omdbDetailResponse
	if err := s.client.GetJSON(ctx, reqURL, &resp); err != nil {
		return nil, fmt.Errorf("omdb detail failed: %w", err)
	}

	if resp.Response != "True" {
		log.Printf("[OMDb] 未找到电影 (ID: %s): %s", rawID, resp.Error)
		return nil, nil
	}

	return &model.MovieDetail{
		ID:        resp.IMDbID,
		Title:     resp.Title,
		Year:      resp.Year,
		Runtime:   resp.Runtime,
		Director:  resp.Director,
		Actors:    resp.Actors,
		Genre:     resp.Genre,
		Plot:      resp.Plot,
		Poster:    resp.Poster,
		Rating:    resp.IMDbRating,
		Language:  resp.Language,
		Country:   resp.Country,
		Awards:    resp.Awards,
		BoxOffice: resp.BoxOffice,
		Type:      resp.Type,
		Source:    model.OriginExternal,
	}, nil
}

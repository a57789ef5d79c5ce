package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ongekimuseum/museum-server/internal/domain"
	"github.com/ongekimuseum/museum-server/internal/errors"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCatalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog",
		Summary:     "List catalog",
		Description: "Returns live mirror rows, newest release first",
		Tags:        []string{"Catalog"},
	}, s.handleListCatalog)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCatalogAll",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/all",
		Summary:     "List full catalog",
		Description: "Returns every mirror row, soft-deleted ones included",
		Tags:        []string{"Catalog"},
	}, s.handleListCatalogAll)

	huma.Register(s.api, huma.Operation{
		OperationID: "listChapters",
		Method:      http.MethodGet,
		Path:        "/api/v1/chapters",
		Summary:     "List chapters",
		Description: "Returns chapters in upstream id order",
		Tags:        []string{"Chapters"},
	}, s.handleListChapters)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories",
		Description: "Returns categories in upstream id order",
		Tags:        []string{"Categories"},
	}, s.handleListCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "listSongs",
		Method:      http.MethodGet,
		Path:        "/api/v1/songs",
		Summary:     "List songs",
		Description: "Returns songs, newest addition first",
		Tags:        []string{"Songs"},
	}, s.handleListSongs)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCharts",
		Method:      http.MethodGet,
		Path:        "/api/v1/charts",
		Summary:     "List charts",
		Description: "Returns charts grouped by song",
		Tags:        []string{"Charts"},
	}, s.handleListCharts)

	huma.Register(s.api, huma.Operation{
		OperationID: "listChartsWithSongs",
		Method:      http.MethodGet,
		Path:        "/api/v1/charts/join",
		Summary:     "List charts with songs",
		Description: "Returns every chart joined to its song, newest song first",
		Tags:        []string{"Charts"},
	}, s.handleListChartsWithSongs)
}

// === DTOs ===

type CatalogEntryResponse struct {
	ID          string    `json:"id" doc:"Mirror row ID"`
	New         string    `json:"new" doc:"Upstream new flag"`
	ReleaseDate string    `json:"date" doc:"Release date (yyyyMMdd)"`
	Title       string    `json:"title" doc:"Song title"`
	TitleSort   string    `json:"title_sort" doc:"Sortable title"`
	Artist      string    `json:"artist" doc:"Artist"`
	ExternalID  string    `json:"external_id" doc:"Upstream song ID"`
	ChapterID   string    `json:"chap_id" doc:"Upstream chapter ID"`
	ChapterName string    `json:"chapter" doc:"Chapter name"`
	Character   string    `json:"character" doc:"Boss character"`
	CharacterID string    `json:"chara_id" doc:"Boss character ID"`
	Category    string    `json:"category" doc:"Category name"`
	CategoryID  string    `json:"category_id" doc:"Upstream category ID"`
	Lunatic     string    `json:"lunatic" doc:"Lunatic flag"`
	Bonus       string    `json:"bonus" doc:"Bonus track flag"`
	Copyright   string    `json:"copyright" doc:"Copyright notice"`
	LevBas      string    `json:"lev_bas" doc:"Basic level"`
	LevAdv      string    `json:"lev_adv" doc:"Advanced level"`
	LevExc      string    `json:"lev_exc" doc:"Expert level"`
	LevMas      string    `json:"lev_mas" doc:"Master level"`
	LevLnt      string    `json:"lev_lnt" doc:"Lunatic level"`
	ImageURL    string    `json:"image_url" doc:"Jacket image file"`
	Deleted     bool      `json:"is_deleted" doc:"Soft-delete flag"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

type ListCatalogResponse struct {
	Entries []CatalogEntryResponse `json:"entries" doc:"Mirror rows"`
}

type ListCatalogOutput struct {
	Body ListCatalogResponse
}

type ChapterResponse struct {
	ID         string    `json:"id" doc:"Chapter ID"`
	UpstreamID int       `json:"upstream_id" doc:"Upstream numeric ID"`
	Name       string    `json:"name" doc:"Chapter name"`
	CreatedAt  time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt  time.Time `json:"updated_at" doc:"Last update time"`
}

type ListChaptersResponse struct {
	Chapters []ChapterResponse `json:"chapters" doc:"Chapters"`
}

type ListChaptersOutput struct {
	Body ListChaptersResponse
}

type CategoryResponse struct {
	ID         string    `json:"id" doc:"Category ID"`
	UpstreamID int       `json:"upstream_id" doc:"Upstream numeric ID"`
	Name       string    `json:"name" doc:"Category name"`
	CreatedAt  time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt  time.Time `json:"updated_at" doc:"Last update time"`
}

type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories" doc:"Categories"`
}

type ListCategoriesOutput struct {
	Body ListCategoriesResponse
}

type SongResponse struct {
	ID             string    `json:"id" doc:"Song ID"`
	CatalogEntryID string    `json:"catalog_entry_id" doc:"Origin mirror row ID"`
	Title          string    `json:"title" doc:"Title"`
	Artist         string    `json:"artist" doc:"Artist"`
	Copyright      string    `json:"copyright" doc:"Copyright notice"`
	AddedAt        time.Time `json:"added_at" doc:"Catalog addition time"`
	Deleted        bool      `json:"is_deleted" doc:"Soft-delete flag"`
	CreatedAt      time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt      time.Time `json:"updated_at" doc:"Last update time"`
}

type ListSongsResponse struct {
	Songs []SongResponse `json:"songs" doc:"Songs"`
}

type ListSongsOutput struct {
	Body ListSongsResponse
}

type ChartResponse struct {
	ID         string    `json:"id" doc:"Chart ID"`
	SongID     string    `json:"song_id" doc:"Song ID"`
	Difficulty string    `json:"difficulty" doc:"Difficulty slot"`
	Level      int       `json:"level" doc:"Fixed-point level (13.8 as 138)"`
	Bonus      bool      `json:"is_bonus" doc:"Bonus track flag"`
	Deleted    bool      `json:"is_deleted" doc:"Soft-delete flag"`
	CreatedAt  time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt  time.Time `json:"updated_at" doc:"Last update time"`
}

type ListChartsResponse struct {
	Charts []ChartResponse `json:"charts" doc:"Charts"`
}

type ListChartsOutput struct {
	Body ListChartsResponse
}

type ChartWithSongResponse struct {
	Chart ChartResponse `json:"chart" doc:"Chart"`
	Song  SongResponse  `json:"song" doc:"Song the chart belongs to"`
}

type ListChartsWithSongsResponse struct {
	Charts []ChartWithSongResponse `json:"charts" doc:"Charts with their songs"`
}

type ListChartsWithSongsOutput struct {
	Body ListChartsWithSongsResponse
}

// === Handlers ===

func (s *Server) handleListCatalog(ctx context.Context, _ *struct{}) (*ListCatalogOutput, error) {
	entries, err := s.store.ListActiveCatalogEntries(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodePersistence, "list catalog")
	}
	return &ListCatalogOutput{Body: ListCatalogResponse{Entries: mapCatalogEntries(entries)}}, nil
}

func (s *Server) handleListCatalogAll(ctx context.Context, _ *struct{}) (*ListCatalogOutput, error) {
	entries, err := s.store.ListCatalogEntries(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodePersistence, "list catalog")
	}
	return &ListCatalogOutput{Body: ListCatalogResponse{Entries: mapCatalogEntries(entries)}}, nil
}

func (s *Server) handleListChapters(ctx context.Context, _ *struct{}) (*ListChaptersOutput, error) {
	chapters, err := s.store.ListChapters(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodePersistence, "list chapters")
	}

	resp := make([]ChapterResponse, len(chapters))
	for i, c := range chapters {
		resp[i] = ChapterResponse{
			ID:         c.ID,
			UpstreamID: c.UpstreamID,
			Name:       c.Name,
			CreatedAt:  c.CreatedAt,
			UpdatedAt:  c.UpdatedAt,
		}
	}
	return &ListChaptersOutput{Body: ListChaptersResponse{Chapters: resp}}, nil
}

func (s *Server) handleListCategories(ctx context.Context, _ *struct{}) (*ListCategoriesOutput, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodePersistence, "list categories")
	}

	resp := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = CategoryResponse{
			ID:         c.ID,
			UpstreamID: c.UpstreamID,
			Name:       c.Name,
			CreatedAt:  c.CreatedAt,
			UpdatedAt:  c.UpdatedAt,
		}
	}
	return &ListCategoriesOutput{Body: ListCategoriesResponse{Categories: resp}}, nil
}

func (s *Server) handleListSongs(ctx context.Context, _ *struct{}) (*ListSongsOutput, error) {
	songs, err := s.store.ListSongs(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodePersistence, "list songs")
	}

	resp := make([]SongResponse, len(songs))
	for i, song := range songs {
		resp[i] = mapSongResponse(song)
	}
	return &ListSongsOutput{Body: ListSongsResponse{Songs: resp}}, nil
}

func (s *Server) handleListCharts(ctx context.Context, _ *struct{}) (*ListChartsOutput, error) {
	charts, err := s.store.ListCharts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodePersistence, "list charts")
	}

	resp := make([]ChartResponse, len(charts))
	for i, c := range charts {
		resp[i] = mapChartResponse(c)
	}
	return &ListChartsOutput{Body: ListChartsResponse{Charts: resp}}, nil
}

func (s *Server) handleListChartsWithSongs(ctx context.Context, _ *struct{}) (*ListChartsWithSongsOutput, error) {
	joined, err := s.store.ListChartsWithSongs(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodePersistence, "list charts with songs")
	}

	resp := make([]ChartWithSongResponse, len(joined))
	for i, j := range joined {
		resp[i] = ChartWithSongResponse{
			Chart: mapChartResponse(j.Chart),
			Song:  mapSongResponse(j.Song),
		}
	}
	return &ListChartsWithSongsOutput{Body: ListChartsWithSongsResponse{Charts: resp}}, nil
}

// === Mappers ===

func mapCatalogEntries(entries []*domain.CatalogEntry) []CatalogEntryResponse {
	resp := make([]CatalogEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = CatalogEntryResponse{
			ID:          e.ID,
			New:         e.New,
			ReleaseDate: e.ReleaseDate,
			Title:       e.Title,
			TitleSort:   e.TitleSort,
			Artist:      e.Artist,
			ExternalID:  e.ExternalID,
			ChapterID:   e.ChapterID,
			ChapterName: e.ChapterName,
			Character:   e.Character,
			CharacterID: e.CharacterID,
			Category:    e.Category,
			CategoryID:  e.CategoryID,
			Lunatic:     e.Lunatic,
			Bonus:       e.Bonus,
			Copyright:   e.Copyright,
			LevBas:      e.LevBas,
			LevAdv:      e.LevAdv,
			LevExc:      e.LevExc,
			LevMas:      e.LevMas,
			LevLnt:      e.LevLnt,
			ImageURL:    e.ImageURL,
			Deleted:     e.Deleted,
			CreatedAt:   e.CreatedAt,
			UpdatedAt:   e.UpdatedAt,
		}
	}
	return resp
}

func mapSongResponse(song *domain.Song) SongResponse {
	return SongResponse{
		ID:             song.ID,
		CatalogEntryID: song.CatalogEntryID,
		Title:          song.Title,
		Artist:         song.Artist,
		Copyright:      song.Copyright,
		AddedAt:        song.AddedAt,
		Deleted:        song.Deleted,
		CreatedAt:      song.CreatedAt,
		UpdatedAt:      song.UpdatedAt,
	}
}

func mapChartResponse(c *domain.Chart) ChartResponse {
	return ChartResponse{
		ID:         c.ID,
		SongID:     c.SongID,
		Difficulty: c.Difficulty.String(),
		Level:      c.Level,
		Bonus:      c.Bonus,
		Deleted:    c.Deleted,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// MovieHandler serves the movie catalog CRUD. All routes sit behind
// the basic scope; reads are cached, so writes invalidate the cache
// prefix after committing.
type MovieHandler struct {
	Movies   *repository.MovieRepo
	CacheCfg config.CacheConfig
	Redis    *redis.Client
}

func NewMovieHandler(movies *repository.MovieRepo, cacheCfg config.CacheConfig, rdb *redis.Client) *MovieHandler {
	return &MovieHandler{Movies: movies, CacheCfg: cacheCfg, Redis: rdb}
}

type movieReq struct {
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	Director    string `json:"director"`
	ReleaseYear int    `json:"release_year"`
}

// Create adds a movie to the catalog.
func (h *MovieHandler) Create(c echo.Context) error {
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m := model.Movie{Title: req.Title, Genre: req.Genre, Director: req.Director, ReleaseYear: req.ReleaseYear}
	id, err := h.Movies.Create(ctx, m)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create movie failed"})
	}
	m.ID = id
	middleware.InvalidateCache(h.CacheCfg, h.Redis)
	return c.JSON(http.StatusCreated, m)
}

// List returns the whole catalog.
func (h *MovieHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	movies, err := h.Movies.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list movies failed"})
	}
	if movies == nil {
		movies = []model.Movie{}
	}
	return c.JSON(http.StatusOK, movies)
}

// Get returns a single movie by ID.
func (h *MovieHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get movie failed"})
	}
	return c.JSON(http.StatusOK, m)
}

// Update rewrites a movie's fields.
func (h *MovieHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m := model.Movie{ID: id, Title: req.Title, Genre: req.Genre, Director: req.Director, ReleaseYear: req.ReleaseYear}
	if err := h.Movies.Update(ctx, m); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update movie failed"})
	}
	middleware.InvalidateCache(h.CacheCfg, h.Redis)
	return c.JSON(http.StatusOK, m)
}

// Delete removes a movie.
func (h *MovieHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Movies.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete movie failed"})
	}
	middleware.InvalidateCache(h.CacheCfg, h.Redis)
	return c.NoContent(http.StatusNoContent)
}

// pathID parses the numeric :id route parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

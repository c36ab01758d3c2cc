package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// MovieRepo persists catalog entries in the 'movies' table.
type MovieRepo struct{ DB *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{DB: db} }

// Create inserts a movie and returns its ID.
func (r *MovieRepo) Create(ctx context.Context, m model.Movie) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO movies (title, genre, director, release_year) VALUES (?,?,?,?)",
		m.Title, m.Genre, m.Director, m.ReleaseYear)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListAll returns every movie in insertion order.
func (r *MovieRepo) ListAll(ctx context.Context) ([]model.Movie, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,title,genre,director,release_year FROM movies ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Movie
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Genre, &m.Director, &m.ReleaseYear); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetByID fetches one movie or ErrNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (model.Movie, error) {
	var m model.Movie
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,title,genre,director,release_year FROM movies WHERE id=? LIMIT 1",
		id).Scan(&m.ID, &m.Title, &m.Genre, &m.Director, &m.ReleaseYear)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Movie{}, ErrNotFound
	}
	return m, err
}

// Update rewrites all mutable columns of a movie.
func (r *MovieRepo) Update(ctx context.Context, m model.Movie) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE movies SET title=?, genre=?, director=?, release_year=? WHERE id=?",
		m.Title, m.Genre, m.Director, m.ReleaseYear, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, gerr := r.GetByID(ctx, m.ID); gerr != nil {
			return gerr
		}
	}
	return nil
}

// Delete removes a movie; deleting a missing row is ErrNotFound.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM movies WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

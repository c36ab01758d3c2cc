package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// CardRepo persists encrypted payment cards in the 'credit_cards'
// table. Every value that reaches this repository is already
// ciphertext; the handler layer owns encryption and decryption.
type CardRepo struct{ DB *sql.DB }

func NewCardRepo(db *sql.DB) *CardRepo { return &CardRepo{DB: db} }

// Create inserts a card row and returns its ID.
func (r *CardRepo) Create(ctx context.Context, c model.CreditCard) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO credit_cards (number, expiration_date, cvv, card_holder_name) VALUES (?,?,?,?)",
		c.Number, c.ExpirationDate, c.CVV, c.CardHolderName)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches one card row or ErrNotFound.
func (r *CardRepo) GetByID(ctx context.Context, id uint64) (model.CreditCard, error) {
	var c model.CreditCard
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,number,expiration_date,cvv,card_holder_name FROM credit_cards WHERE id=? LIMIT 1",
		id).Scan(&c.ID, &c.Number, &c.ExpirationDate, &c.CVV, &c.CardHolderName)
	if errors.Is(err, sql.ErrNoRows) {
		return model.CreditCard{}, ErrNotFound
	}
	return c, err
}

// UpdateFields overwrites only the given columns. The map keys are
// column names; values are ciphertexts. Per-field storage is what
// makes this partial update possible.
func (r *CardRepo) UpdateFields(ctx context.Context, id uint64, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	query := "UPDATE credit_cards SET "
	args := make([]any, 0, len(fields)+1)
	first := true
	for _, col := range []string{"number", "expiration_date", "cvv", "card_holder_name"} {
		v, ok := fields[col]
		if !ok {
			continue
		}
		if !first {
			query += ", "
		}
		query += col + "=?"
		args = append(args, v)
		first = false
	}
	if first {
		return nil
	}
	query += " WHERE id=?"
	args = append(args, id)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, gerr := r.GetByID(ctx, id); gerr != nil {
			return gerr
		}
	}
	return nil
}

// Delete removes a card; deleting a missing row is ErrNotFound.
func (r *CardRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM credit_cards WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

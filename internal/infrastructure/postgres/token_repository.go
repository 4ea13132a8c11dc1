package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Tablas-api/internal/domain"
	"github.com/jhoicas/Tablas-api/internal/domain/entity"
	"github.com/jhoicas/Tablas-api/internal/domain/repository"
)

var _ repository.AccessTokenRepository = (*TokenRepo)(nil)

// TokenRepo implementación del puerto AccessTokenRepository sobre PostgreSQL (usable con pool o tx).
type TokenRepo struct {
	q Querier
}

// NewTokenRepository construye el adaptador de persistencia para tokens. Pasar pool o tx (Querier).
func NewTokenRepository(q Querier) *TokenRepo {
	return &TokenRepo{q: q}
}

// Create persiste un token nuevo. table_access va como arreglo nativo de
// PostgreSQL; nil se guarda como arreglo vacío para respetar el NOT NULL.
func (r *TokenRepo) Create(token *entity.AccessToken) error {
	access := token.TableAccess
	if access == nil {
		access = []string{}
	}
	query := `
		INSERT INTO access_tokens (id, token, name, table_access, expires_at, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		token.ID, token.Token, token.Name, access,
		token.ExpiresAt, token.CreatedBy, token.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert access token: %w", err)
	}
	return nil
}

// GetByToken resuelve un token por su secreto, o nil si no existe.
func (r *TokenRepo) GetByToken(secret string) (*entity.AccessToken, error) {
	query := `
		SELECT id, token, name, table_access, expires_at, created_by, created_at
		FROM access_tokens WHERE token = $1`
	t, err := scanToken(r.q.QueryRow(context.Background(), query, secret))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get access token: %w", err)
	}
	return t, nil
}

// List lista los tokens emitidos ordenados por nombre.
func (r *TokenRepo) List(limit, offset int) ([]*entity.AccessToken, error) {
	query := `
		SELECT id, token, name, table_access, expires_at, created_by, created_at
		FROM access_tokens ORDER BY name ASC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list access tokens: %w", err)
	}
	defer rows.Close()
	var list []*entity.AccessToken
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, fmt.Errorf("scan access token: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Delete revoca un token por ID.
func (r *TokenRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM access_tokens WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete access token: %w", err)
	}
	return nil
}

func scanToken(row pgxScanner) (*entity.AccessToken, error) {
	var t entity.AccessToken
	err := row.Scan(
		&t.ID, &t.Token, &t.Name, &t.TableAccess,
		&t.ExpiresAt, &t.CreatedBy, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

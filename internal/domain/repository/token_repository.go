package repository

import "github.com/jhoicas/Tablas-api/internal/domain/entity"

// AccessTokenRepository define el puerto de persistencia para los tokens de
// la API pública.
type AccessTokenRepository interface {
	Create(token *entity.AccessToken) error
	GetByToken(token string) (*entity.AccessToken, error)
	List(limit, offset int) ([]*entity.AccessToken, error)
	Delete(id string) error
}

package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tablas-api/internal/domain/entity"
)

// Locals key para el token de la API pública.
const LocalPublicToken = "public_token"

// tokenAuthenticator es el contrato mínimo que necesita el middleware para
// resolver el secreto Bearer. Lo implementa *pubapi.UseCase; el uso de
// interfaz evita el import circular.
type tokenAuthenticator interface {
	Authenticate(secret string) (*entity.AccessToken, error)
}

// PublicAuthMiddleware valida el token de la API pública y lo deja en
// c.Locals. Responde con el contrato público {success:false, error}:
//   - 401 Unauthorized → sin header, secreto desconocido o token vencido.
//   - 500             → fallo de infraestructura al consultar la DB.
func PublicAuthMiddleware(auth tokenAuthenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		secret := ""
		if strings.HasPrefix(header, "Bearer ") {
			secret = strings.TrimSpace(header[len("Bearer "):])
		}
		token, err := auth.Authenticate(secret)
		if err != nil {
			return respondPublicError(c, err)
		}
		c.Locals(LocalPublicToken, token)
		return c.Next()
	}
}

// GetPublicToken devuelve el token del contexto (después del middleware
// público).
func GetPublicToken(c *fiber.Ctx) *entity.AccessToken {
	v := c.Locals(LocalPublicToken)
	if v == nil {
		return nil
	}
	t, _ := v.(*entity.AccessToken)
	return t
}

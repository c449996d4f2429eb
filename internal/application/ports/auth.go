package ports

import (
	"context"

	"github.com/lkhorasandzhian/aton-web-api/internal/domain/access"
)

type Auth interface {
	Authenticate(ctx context.Context, header string) (*access.Principal, error)
	GenerateToken(p *access.Principal) (string, error)
}

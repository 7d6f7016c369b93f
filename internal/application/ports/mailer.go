package ports

import (
	"context"

	"inventory-auth-api/internal/infrastructure/mailer"
)

type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) error
}

package registration

import (
	"context"

	"SaborBot/entity"
)

type Core interface {
	ListRegistrations(ctx context.Context) ([]entity.Registration, error)
	ExportRegistrationsCSV(ctx context.Context) ([]byte, error)
	DeleteRegistration(ctx context.Context, id int64) error
}

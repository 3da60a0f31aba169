package core

import (
	"context"
	"fmt"

	"SaborBot/entity"
	"SaborBot/internal/lib/export"
)

func (c *Core) ListRegistrations(ctx context.Context) ([]entity.Registration, error) {
	if c.repo == nil {
		return nil, fmt.Errorf("repository is not set")
	}
	return c.repo.ListRegistrations(ctx)
}

func (c *Core) ExportRegistrationsCSV(ctx context.Context) ([]byte, error) {
	regs, err := c.ListRegistrations(ctx)
	if err != nil {
		return nil, err
	}
	return export.RegistrationsCSV(regs)
}

func (c *Core) DeleteRegistration(ctx context.Context, id int64) error {
	if c.repo == nil {
		return fmt.Errorf("repository is not set")
	}
	return c.repo.DeleteRegistration(ctx, id)
}

package queries

import (
	"context"
	"fmt"
	"time"

	"timecapsule/contexts/capsules/public-capsule/domain/entities"
	domainerrors "timecapsule/contexts/capsules/public-capsule/domain/errors"
	"timecapsule/contexts/capsules/public-capsule/ports"
	"timecapsule/contexts/shared/pagination"
)

type ListPublicCapsulesResult struct {
	Items      []entities.PublicCapsule
	NextCursor string
}

type ListPublicCapsulesUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	Cache      CacheAside
}

// Execute lists opened capsules newest opening first. A cached page can lag a
// newly opened capsule by at most the cache TTL.
func (uc ListPublicCapsulesUseCase) Execute(ctx context.Context, page pagination.Request) (ListPublicCapsulesResult, error) {
	if page.Limit <= 0 || page.Offset < 0 {
		return ListPublicCapsulesResult{}, domainerrors.ErrInvalidPage
	}

	key := fmt.Sprintf("public-capsule:list:%d:%d", page.Limit, page.Offset)
	rows, err := readThrough(ctx, uc.Cache, key,
		func(ctx context.Context) ([]entities.PublicCapsule, error) {
			return uc.Repository.ListOpened(ctx, ports.OpenedFilter{
				OpenedBy: uc.now(),
				Limit:    page.Window(),
				Offset:   page.Offset,
			})
		},
	)
	if err != nil {
		return ListPublicCapsulesResult{}, err
	}

	items, next := pagination.Trim(page, rows)
	return ListPublicCapsulesResult{Items: items, NextCursor: next}, nil
}

func (uc ListPublicCapsulesUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

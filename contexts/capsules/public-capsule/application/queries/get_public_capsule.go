package queries

import (
	"context"
	"strings"
	"time"

	"timecapsule/contexts/capsules/public-capsule/domain/entities"
	domainerrors "timecapsule/contexts/capsules/public-capsule/domain/errors"
	"timecapsule/contexts/capsules/public-capsule/ports"
)

type GetPublicCapsuleUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	Cache      CacheAside
}

// Execute returns the capsule only once it is open. The cached copy carries
// OpensAt, so the seal check is evaluated on every read.
func (uc GetPublicCapsuleUseCase) Execute(ctx context.Context, capsuleID string) (entities.PublicCapsule, error) {
	capsuleID = strings.TrimSpace(capsuleID)
	if capsuleID == "" {
		return entities.PublicCapsule{}, domainerrors.ErrInvalidCapsuleID
	}

	capsule, err := readThrough(ctx, uc.Cache, "public-capsule:item:"+capsuleID,
		func(ctx context.Context) (entities.PublicCapsule, error) {
			return uc.Repository.GetPublicCapsule(ctx, capsuleID)
		},
	)
	if err != nil {
		return entities.PublicCapsule{}, err
	}
	if !capsule.IsOpen(uc.now()) {
		return entities.PublicCapsule{}, domainerrors.ErrCapsuleSealed
	}
	return capsule, nil
}

func (uc GetPublicCapsuleUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

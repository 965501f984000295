package httpadapter

import (
	"context"
	"log/slog"

	application "timecapsule/contexts/capsules/public-capsule/application"
	"timecapsule/contexts/capsules/public-capsule/application/queries"
	"timecapsule/contexts/capsules/public-capsule/domain/entities"
	"timecapsule/contexts/capsules/public-capsule/transport/http"
	"timecapsule/contexts/shared/pagination"
)

// Handler maps HTTP DTOs to application queries.
type Handler struct {
	List   queries.ListPublicCapsulesUseCase
	Get    queries.GetPublicCapsuleUseCase
	Logger *slog.Logger
}

func (h Handler) ListPublicCapsulesHandler(
	ctx context.Context,
	request httptransport.ListPublicCapsulesRequest,
) (httptransport.ListPublicCapsulesResponse, error) {
	result, err := h.List.Execute(ctx, pagination.Request{Limit: request.Limit, Offset: request.Offset})
	if err != nil {
		application.ResolveLogger(h.Logger).Error("http public capsule list failed",
			"event", "public_capsule_http_list_failed",
			"module", "capsules/public-capsule",
			"layer", "transport",
			"error", err.Error(),
		)
		return httptransport.ListPublicCapsulesResponse{}, err
	}

	items := make([]httptransport.PublicCapsuleDTO, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, toDTO(item))
	}
	return httptransport.ListPublicCapsulesResponse{
		Items:      items,
		NextCursor: result.NextCursor,
	}, nil
}

func (h Handler) GetPublicCapsuleHandler(ctx context.Context, capsuleID string) (httptransport.PublicCapsuleDTO, error) {
	capsule, err := h.Get.Execute(ctx, capsuleID)
	if err != nil {
		application.ResolveLogger(h.Logger).Debug("http public capsule get rejected",
			"event", "public_capsule_http_get_rejected",
			"module", "capsules/public-capsule",
			"layer", "transport",
			"capsule_id", capsuleID,
			"error", err.Error(),
		)
		return httptransport.PublicCapsuleDTO{}, err
	}
	return toDTO(capsule), nil
}

func toDTO(item entities.PublicCapsule) httptransport.PublicCapsuleDTO {
	return httptransport.PublicCapsuleDTO{
		CapsuleID:  item.CapsuleID,
		Title:      item.Title,
		Message:    item.Message,
		AuthorName: item.AuthorName,
		OpensAt:    item.OpensAt,
		CreatedAt:  item.CreatedAt,
	}
}

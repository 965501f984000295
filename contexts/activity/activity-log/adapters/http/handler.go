package httpadapter

import (
	"context"
	"log/slog"

	application "timecapsule/contexts/activity/activity-log/application"
	"timecapsule/contexts/activity/activity-log/application/queries"
	"timecapsule/contexts/activity/activity-log/transport/http"
	"timecapsule/contexts/shared/pagination"
)

// Handler maps HTTP DTOs to application queries.
type Handler struct {
	List   queries.ListActivitiesUseCase
	Logger *slog.Logger
}

// ListActivitiesHandler returns one page of recorded activity, newest first.
func (h Handler) ListActivitiesHandler(
	ctx context.Context,
	request httptransport.ListActivitiesRequest,
) (httptransport.ListActivitiesResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Debug("http activity list received",
		"event", "activity_http_list_received",
		"module", "activity/activity-log",
		"layer", "transport",
		"user_id", request.UserID,
		"method", request.Method,
	)

	result, err := h.List.Execute(ctx, queries.ListActivitiesQuery{
		UserID: request.UserID,
		Method: request.Method,
		Page:   pagination.Request{Limit: request.Limit, Offset: request.Offset},
	})
	if err != nil {
		logger.Warn("http activity list failed",
			"event", "activity_http_list_failed",
			"module", "activity/activity-log",
			"layer", "transport",
			"error", err.Error(),
		)
		return httptransport.ListActivitiesResponse{}, err
	}

	items := make([]httptransport.ActivityDTO, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, httptransport.ActivityDTO{
			ActivityID: item.ActivityID,
			RequestID:  item.RequestID,
			Method:     item.Method,
			Path:       item.Path,
			Route:      item.Route,
			Status:     item.Status,
			UserID:     item.UserID,
			IPAddress:  item.IPAddress,
			DurationMs: item.DurationMs,
			OccurredAt: item.OccurredAt,
		})
	}
	return httptransport.ListActivitiesResponse{
		Items:      items,
		NextCursor: result.NextCursor,
	}, nil
}

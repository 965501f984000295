package queries

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	application "timecapsule/contexts/activity/activity-log/application"
	"timecapsule/contexts/activity/activity-log/domain/entities"
	domainerrors "timecapsule/contexts/activity/activity-log/domain/errors"
	"timecapsule/contexts/activity/activity-log/ports"
	"timecapsule/contexts/shared/pagination"
)

type ListActivitiesQuery struct {
	UserID string
	Method string
	Page   pagination.Request
}

type ListActivitiesResult struct {
	Items      []entities.Activity
	NextCursor string
}

type ListActivitiesUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (uc ListActivitiesUseCase) Execute(ctx context.Context, query ListActivitiesQuery) (ListActivitiesResult, error) {
	if query.Page.Limit <= 0 || query.Page.Offset < 0 {
		return ListActivitiesResult{}, domainerrors.ErrInvalidListFilter
	}
	method := strings.ToUpper(strings.TrimSpace(query.Method))
	if method != "" && !knownMethod(method) {
		return ListActivitiesResult{}, domainerrors.ErrInvalidListFilter
	}

	rows, err := uc.Repository.ListActivities(ctx, ports.ActivityFilter{
		UserID: strings.TrimSpace(query.UserID),
		Method: method,
		Limit:  query.Page.Window(),
		Offset: query.Page.Offset,
	})
	if err != nil {
		application.ResolveLogger(uc.Logger).Error("activity list failed",
			"event", "activity_list_failed",
			"module", "activity/activity-log",
			"layer", "application",
			"error", err.Error(),
		)
		return ListActivitiesResult{}, err
	}

	items, next := pagination.Trim(query.Page, rows)
	return ListActivitiesResult{Items: items, NextCursor: next}, nil
}

func knownMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions:
		return true
	default:
		return false
	}
}

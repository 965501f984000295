package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	application "timecapsule/contexts/activity/activity-log/application"
	"timecapsule/contexts/activity/activity-log/domain/entities"
	"timecapsule/contexts/activity/activity-log/ports"
)

const maxUserAgentBytes = 512

type RecordActivityCommand struct {
	RequestID string
	Method    string
	Path      string
	Route     string
	Status    int
	UserID    string
	IPAddress string
	UserAgent string
	Duration  time.Duration
}

type RecordActivityUseCase struct {
	Repository  ports.Repository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Observer    ports.RecordObserver
	Logger      *slog.Logger
}

func (uc RecordActivityUseCase) Execute(ctx context.Context, cmd RecordActivityCommand) (entities.Activity, error) {
	logger := application.ResolveLogger(uc.Logger)

	activityID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		uc.observe(false)
		return entities.Activity{}, err
	}
	activity := entities.Activity{
		ActivityID: activityID,
		RequestID:  strings.TrimSpace(cmd.RequestID),
		Method:     strings.ToUpper(strings.TrimSpace(cmd.Method)),
		Path:       validText(cmd.Path),
		Route:      validText(cmd.Route),
		Status:     cmd.Status,
		UserID:     strings.TrimSpace(cmd.UserID),
		IPAddress:  strings.TrimSpace(cmd.IPAddress),
		UserAgent:  truncate(validText(cmd.UserAgent), maxUserAgentBytes),
		DurationMs: cmd.Duration.Milliseconds(),
		OccurredAt: uc.now(),
	}
	if err := activity.Validate(); err != nil {
		uc.observe(false)
		return entities.Activity{}, err
	}

	if err := uc.Repository.AppendActivity(ctx, activity); err != nil {
		uc.observe(false)
		logger.Error("activity append failed",
			"event", "activity_append_failed",
			"module", "activity/activity-log",
			"layer", "application",
			"request_id", activity.RequestID,
			"method", activity.Method,
			"path", activity.Path,
			"error", err.Error(),
		)
		return entities.Activity{}, err
	}
	uc.observe(true)

	logger.Debug("activity recorded",
		"event", "activity_recorded",
		"module", "activity/activity-log",
		"layer", "application",
		"activity_id", activity.ActivityID,
		"request_id", activity.RequestID,
		"status", activity.Status,
	)
	return activity, nil
}

func (uc RecordActivityUseCase) observe(ok bool) {
	if uc.Observer != nil {
		uc.Observer.RecordActivity(ok)
	}
}

func (uc RecordActivityUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

// validText replaces invalid UTF-8 so the row is accepted by text columns.
func validText(value string) string {
	return strings.ToValidUTF8(value, "\uFFFD")
}

// truncate cuts at or below max bytes without splitting a rune.
func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut]
}

package application_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"timecapsule/contexts/activity/activity-log/adapters/memory"
	"timecapsule/contexts/activity/activity-log/application/commands"
	"timecapsule/contexts/activity/activity-log/application/queries"
	"timecapsule/contexts/activity/activity-log/application/workers"
	domainerrors "timecapsule/contexts/activity/activity-log/domain/errors"
	"timecapsule/contexts/shared/pagination"
)

type countingObserver struct {
	ok     int
	failed int
}

func (o *countingObserver) RecordActivity(ok bool) {
	if ok {
		o.ok++
		return
	}
	o.failed++
}

func newRecorder(store *memory.Store, observer *countingObserver) commands.RecordActivityUseCase {
	return commands.RecordActivityUseCase{
		Repository:  store,
		Clock:       store,
		IDGenerator: store,
		Observer:    observer,
	}
}

func TestRecordActivityNormalizesAndStores(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC)
	store.SetNow(now)
	observer := &countingObserver{}

	activity, err := newRecorder(store, observer).Execute(context.Background(), commands.RecordActivityCommand{
		RequestID: " req-7 ",
		Method:    "get",
		Path:      "/public-capsules",
		Status:    200,
		UserID:    "user-1",
		Duration:  1500 * time.Microsecond,
	})
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if activity.Method != "GET" || activity.RequestID != "req-7" {
		t.Fatalf("expected normalized method and request id, got %+v", activity)
	}
	if !activity.OccurredAt.Equal(now) || activity.DurationMs != 1 {
		t.Fatalf("unexpected timing fields: %+v", activity)
	}
	if store.Len() != 1 || observer.ok != 1 {
		t.Fatalf("expected one stored row and one ok observation, got len=%d ok=%d", store.Len(), observer.ok)
	}
}

func TestRecordActivityKeepsTextValidUTF8(t *testing.T) {
	store := memory.NewStore()
	observer := &countingObserver{}

	activity, err := newRecorder(store, observer).Execute(context.Background(), commands.RecordActivityCommand{
		Method:    "GET",
		Path:      "/\xff",
		Route:     "/\xfe/*",
		Status:    404,
		UserAgent: "a" + strings.Repeat("é", 300),
	})
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if !utf8.ValidString(activity.UserAgent) || len(activity.UserAgent) > 512 {
		t.Fatalf("expected valid user agent within 512 bytes, got len=%d valid=%v", len(activity.UserAgent), utf8.ValidString(activity.UserAgent))
	}
	if len(activity.UserAgent) != 511 || !strings.HasSuffix(activity.UserAgent, "é") {
		t.Fatalf("expected cut on the last whole rune, got len=%d", len(activity.UserAgent))
	}
	if activity.Path != "/\uFFFD" || !utf8.ValidString(activity.Route) {
		t.Fatalf("expected invalid bytes replaced, got path=%q route=%q", activity.Path, activity.Route)
	}
	if store.Len() != 1 || observer.ok != 1 {
		t.Fatalf("expected row stored, got len=%d ok=%d", store.Len(), observer.ok)
	}
}

func TestRecordActivityRejectsInvalidStatus(t *testing.T) {
	store := memory.NewStore()
	observer := &countingObserver{}

	_, err := newRecorder(store, observer).Execute(context.Background(), commands.RecordActivityCommand{
		Method: "GET",
		Path:   "/",
	})
	if !errors.Is(err, domainerrors.ErrInvalidActivity) {
		t.Fatalf("expected invalid activity, got %v", err)
	}
	if observer.failed != 1 || store.Len() != 0 {
		t.Fatalf("expected a failed observation and no row, got failed=%d len=%d", observer.failed, store.Len())
	}
}

func TestRecordActivityReportsRepositoryFailure(t *testing.T) {
	store := memory.NewStore()
	store.FailWith(errors.New("connection reset"))
	observer := &countingObserver{}

	_, err := newRecorder(store, observer).Execute(context.Background(), commands.RecordActivityCommand{
		Method: "GET",
		Path:   "/",
		Status: 200,
	})
	if err == nil {
		t.Fatalf("expected repository error")
	}
	if observer.failed != 1 {
		t.Fatalf("expected failed observation, got %d", observer.failed)
	}
}

func TestListActivitiesPagesWithCursor(t *testing.T) {
	store := memory.NewStore()
	recorder := newRecorder(store, &countingObserver{})
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		store.SetNow(base.Add(time.Duration(i) * time.Minute))
		if _, err := recorder.Execute(context.Background(), commands.RecordActivityCommand{
			Method: "GET",
			Path:   "/",
			Status: 200,
		}); err != nil {
			t.Fatalf("record %d failed: %v", i, err)
		}
	}

	list := queries.ListActivitiesUseCase{Repository: store}
	first, err := list.Execute(context.Background(), queries.ListActivitiesQuery{
		Page: pagination.Request{Limit: 3},
	})
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if len(first.Items) != 3 || first.NextCursor == "" {
		t.Fatalf("expected full first page with cursor, got %d items cursor=%q", len(first.Items), first.NextCursor)
	}
	if !first.Items[0].OccurredAt.Equal(base.Add(4 * time.Minute)) {
		t.Fatalf("expected newest first, got %s", first.Items[0].OccurredAt)
	}

	offset, err := pagination.DecodeCursor(first.NextCursor)
	if err != nil {
		t.Fatalf("cursor decode failed: %v", err)
	}
	second, err := list.Execute(context.Background(), queries.ListActivitiesQuery{
		Page: pagination.Request{Limit: 3, Offset: offset},
	})
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if len(second.Items) != 2 || second.NextCursor != "" {
		t.Fatalf("expected final page of 2, got %d items cursor=%q", len(second.Items), second.NextCursor)
	}
}

func TestListActivitiesRejectsUnknownMethod(t *testing.T) {
	list := queries.ListActivitiesUseCase{Repository: memory.NewStore()}
	_, err := list.Execute(context.Background(), queries.ListActivitiesQuery{
		Method: "BREW",
		Page:   pagination.Request{Limit: 10},
	})
	if !errors.Is(err, domainerrors.ErrInvalidListFilter) {
		t.Fatalf("expected invalid filter, got %v", err)
	}
}

func TestRetentionSweeperDeletesExpiredRows(t *testing.T) {
	store := memory.NewStore()
	recorder := newRecorder(store, &countingObserver{})
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	store.SetNow(now.Add(-100 * 24 * time.Hour))
	_, _ = recorder.Execute(context.Background(), commands.RecordActivityCommand{Method: "GET", Path: "/old", Status: 200})
	store.SetNow(now.Add(-time.Hour))
	_, _ = recorder.Execute(context.Background(), commands.RecordActivityCommand{Method: "GET", Path: "/new", Status: 200})
	store.SetNow(now)

	sweeper := workers.RetentionSweeper{Repository: store, Clock: store, Retention: 90 * 24 * time.Hour}
	deleted, err := sweeper.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if deleted != 1 || store.Len() != 1 {
		t.Fatalf("expected 1 deleted and 1 kept, got deleted=%d len=%d", deleted, store.Len())
	}
}

func TestRetentionSweeperRequiresPositiveRetention(t *testing.T) {
	sweeper := workers.RetentionSweeper{Repository: memory.NewStore()}
	if _, err := sweeper.RunOnce(context.Background()); !errors.Is(err, domainerrors.ErrInvalidRetention) {
		t.Fatalf("expected invalid retention, got %v", err)
	}
}

func TestRetentionSweeperRunStopsOnCancel(t *testing.T) {
	store := memory.NewStore()
	sweeper := workers.RetentionSweeper{Repository: store, Clock: store, Retention: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sweeper.Run(ctx, 10*time.Millisecond) }()
	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean stop, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("sweeper did not stop after cancel")
	}
}

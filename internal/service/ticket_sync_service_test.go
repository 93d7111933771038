package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-sync/internal/domain"
	"github.com/spec-kit/helpdesk-sync/internal/escalation"
	"github.com/spec-kit/helpdesk-sync/internal/events"
	"github.com/spec-kit/helpdesk-sync/internal/notify"
	"github.com/spec-kit/helpdesk-sync/internal/observability"
	"github.com/spec-kit/helpdesk-sync/internal/state"
)

var syncNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

type ticketSyncFixture struct {
	backend    *MockBackend
	store      *state.Store
	alerter    *countingAlerter
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	svc        *TicketSyncService
}

func newTicketSyncFixture(t *testing.T) *ticketSyncFixture {
	t.Helper()
	f := &ticketSyncFixture{
		backend:    &MockBackend{},
		store:      state.NewStore(),
		alerter:    &countingAlerter{},
		dispatcher: events.NewInMemoryDispatcher(zap.NewNop()),
		metrics:    observability.NewMetrics(),
	}
	factory := notify.NewFactory(zap.NewNop(), notify.WithClock(fixedClock(syncNow)), notify.WithAlerter(f.alerter))
	f.svc = NewTicketSyncService(TicketSyncDependencies{
		Backend:    f.backend,
		Store:      f.store,
		Factory:    factory,
		Rankings:   NewRankingService(f.backend, f.store, zap.NewNop()),
		Dispatcher: f.dispatcher,
		Metrics:    f.metrics,
		Logger:     zap.NewNop(),
		Clock:      fixedClock(syncNow),
	})
	return f
}

func (f *ticketSyncFixture) seed(tickets domain.Snapshot) {
	f.store.Update(func(v *state.View) {
		v.Tickets = tickets
		v.Loaded = true
	})
}

func TestTicketCycleTurnsTextboxChangeIntoOneNotification(t *testing.T) {
	f := newTicketSyncFixture(t)
	f.seed(domain.Snapshot{{ID: "1", Status: domain.TicketStatusPending}})
	f.backend.SyncTicketsFunc = func(context.Context) (domain.Snapshot, error) {
		return domain.Snapshot{{ID: "1", Status: domain.TicketStatusPending, Textbox: "urgent"}}, nil
	}

	report := f.svc.Cycle(context.Background())
	require.NoError(t, report.Err)
	assert.Equal(t, events.CycleSucceeded, report.Outcome)
	assert.Equal(t, 1, report.Changes)

	view := f.store.View()
	require.Len(t, view.Notifications, 1)
	assert.Contains(t, view.Notifications[0].Message, "1")
	assert.Contains(t, view.Notifications[0].Message, "urgent")
	assert.False(t, view.Notifications[0].Read)
	assert.True(t, view.HasUnread)
	assert.Equal(t, "urgent", view.Tickets[0].Textbox)
	assert.Equal(t, domain.TierNone, escalation.ClassifyTicket(view.Tickets[0], syncNow))
	assert.Equal(t, []int{1}, f.alerter.Calls())
}

func TestTicketCycleRerunDoesNotDuplicate(t *testing.T) {
	f := newTicketSyncFixture(t)
	f.seed(domain.Snapshot{{ID: "1"}})
	f.backend.SyncTicketsFunc = func(context.Context) (domain.Snapshot, error) {
		return domain.Snapshot{{ID: "1", Textbox: "urgent"}}, nil
	}

	f.svc.Cycle(context.Background())
	f.svc.Cycle(context.Background())

	assert.Len(t, f.store.View().Notifications, 1)
	assert.Equal(t, []int{1}, f.alerter.Calls())
}

func TestTicketCycleAlertsOncePerBatch(t *testing.T) {
	f := newTicketSyncFixture(t)
	f.seed(domain.Snapshot{{ID: "1"}, {ID: "2"}, {ID: "3", Textbox: "same"}})
	f.backend.SyncTicketsFunc = func(context.Context) (domain.Snapshot, error) {
		return domain.Snapshot{{ID: "1", Textbox: "a"}, {ID: "2", Textbox: "b"}, {ID: "3", Textbox: "same"}, {ID: "4", Textbox: "new"}}, nil
	}

	f.svc.Cycle(context.Background())

	view := f.store.View()
	require.Len(t, view.Notifications, 2)
	assert.NotEqual(t, view.Notifications[0].ID, view.Notifications[1].ID)
	assert.Equal(t, []int{2}, f.alerter.Calls())
}

func TestTicketCycleNewNotificationsArePrepended(t *testing.T) {
	f := newTicketSyncFixture(t)
	f.seed(domain.Snapshot{{ID: "1"}})
	f.store.Update(func(v *state.View) {
		v.Notifications = domain.Notifications{{ID: "old", Message: "older", Read: true}}
	})
	f.backend.SyncTicketsFunc = func(context.Context) (domain.Snapshot, error) {
		return domain.Snapshot{{ID: "1", Textbox: "hello"}}, nil
	}

	f.svc.Cycle(context.Background())

	view := f.store.View()
	require.Len(t, view.Notifications, 2)
	assert.True(t, strings.Contains(view.Notifications[0].Message, "hello"))
	assert.Equal(t, domain.ID("old"), view.Notifications[1].ID)
}

func TestTicketCycleFailureKeepsSnapshot(t *testing.T) {
	f := newTicketSyncFixture(t)
	f.seed(domain.Snapshot{{ID: "1", Textbox: "kept"}})
	f.backend.SyncTicketsFunc = func(context.Context) (domain.Snapshot, error) {
		return nil, errors.New("connection reset")
	}

	report := f.svc.Cycle(context.Background())
	require.Error(t, report.Err)
	assert.Equal(t, events.CycleFailed, report.Outcome)

	view := f.store.View()
	require.Len(t, view.Tickets, 1)
	assert.Equal(t, "kept", view.Tickets[0].Textbox)
	assert.Empty(t, view.Notifications)
	assert.NotContains(t, f.backend.Calls(), "ClearTextboxes")
	assert.EqualValues(t, 1, f.metrics.Snapshot().Loops[TicketLoop].Failures)
}

func TestTicketCycleFirstLoadFailureYieldsEmptySnapshot(t *testing.T) {
	f := newTicketSyncFixture(t)
	f.backend.SyncTicketsFunc = func(context.Context) (domain.Snapshot, error) {
		return nil, errors.New("timeout")
	}

	f.svc.Cycle(context.Background())

	view := f.store.View()
	assert.True(t, view.Loaded)
	assert.NotNil(t, view.Tickets)
	assert.Empty(t, view.Tickets)
}

func TestTicketCycleAfterDisposeIsDiscarded(t *testing.T) {
	f := newTicketSyncFixture(t)
	f.seed(domain.Snapshot{{ID: "1"}})
	f.backend.SyncTicketsFunc = func(context.Context) (domain.Snapshot, error) {
		f.store.Dispose()
		return domain.Snapshot{{ID: "1", Textbox: "late"}}, nil
	}

	report := f.svc.Cycle(context.Background())
	assert.Equal(t, events.CycleDiscarded, report.Outcome)
	assert.Empty(t, f.alerter.Calls())
	assert.NotContains(t, f.backend.Calls(), "ClearTextboxes")
}

func TestTicketCycleStampsSyncAndClearsDateFilter(t *testing.T) {
	f := newTicketSyncFixture(t)
	f.seed(domain.Snapshot{{ID: "1"}})
	f.store.Update(func(v *state.View) { v.DateFilter = "2024-03-01" })
	f.backend.EmailRankingsFunc = func(context.Context) ([]domain.EmailRanking, error) {
		return []domain.EmailRanking{{Email: "a@example.com", TicketCount: 3}}, nil
	}

	f.svc.Cycle(context.Background())

	view := f.store.View()
	assert.Equal(t, syncNow, view.LastSync)
	assert.Empty(t, view.DateFilter)
	assert.Equal(t, []domain.EmailRanking{{Email: "a@example.com", TicketCount: 3}}, view.Rankings)
	assert.Equal(t, []string{"SyncTickets", "ClearTextboxes", "EmailRankings"}, f.backend.Calls())
}

func TestTicketCycleClearFailureIsOnlyLogged(t *testing.T) {
	f := newTicketSyncFixture(t)
	f.backend.ClearTextboxesFunc = func(context.Context) (int, error) {
		return 0, errors.New("boom")
	}

	report := f.svc.Cycle(context.Background())
	assert.NoError(t, report.Err)
	assert.Equal(t, events.CycleSucceeded, report.Outcome)
}

func TestTicketCyclePublishesEvents(t *testing.T) {
	f := newTicketSyncFixture(t)
	f.seed(domain.Snapshot{{ID: "1"}})
	f.backend.SyncTicketsFunc = func(context.Context) (domain.Snapshot, error) {
		return domain.Snapshot{{ID: "1", Textbox: "ping"}}, nil
	}
	var produced []events.NotificationsProducedPayload
	var cycles []events.CycleCompletedPayload
	f.dispatcher.Subscribe(events.EventNotificationsProduced, func(_ context.Context, e events.Event) error {
		produced = append(produced, e.Payload.(events.NotificationsProducedPayload))
		return nil
	})
	f.dispatcher.Subscribe(events.EventCycleCompleted, func(_ context.Context, e events.Event) error {
		cycles = append(cycles, e.Payload.(events.CycleCompletedPayload))
		return nil
	})

	f.svc.Cycle(context.Background())

	require.Len(t, produced, 1)
	assert.Equal(t, TicketLoop, produced[0].Source)
	require.Len(t, produced[0].Notifications, 1)
	require.Len(t, cycles, 1)
	assert.Equal(t, events.CycleSucceeded, cycles[0].Outcome)
	assert.Equal(t, 1, cycles[0].Items)
	assert.Equal(t, 1, cycles[0].Changes)
}

func TestLoadFailureYieldsEmptyLoadedList(t *testing.T) {
	f := newTicketSyncFixture(t)
	f.backend.TicketsFunc = func(context.Context) (domain.Snapshot, error) {
		return nil, errors.New("down")
	}

	err := f.svc.Load(context.Background())
	require.Error(t, err)

	view := f.store.View()
	assert.True(t, view.Loaded)
	assert.Empty(t, view.Tickets)
}

func TestLoadDoesNotProduceNotifications(t *testing.T) {
	f := newTicketSyncFixture(t)
	f.backend.TicketsFunc = func(context.Context) (domain.Snapshot, error) {
		return domain.Snapshot{{ID: "1", Textbox: "already there"}}, nil
	}

	require.NoError(t, f.svc.Load(context.Background()))

	view := f.store.View()
	assert.Len(t, view.Tickets, 1)
	assert.Empty(t, view.Notifications)
}

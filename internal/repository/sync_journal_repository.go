package repository

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-sync/internal/domain"
)

// SyncJournalRepository stores one row per finished sync cycle.
type SyncJournalRepository interface {
	Record(ctx context.Context, cycle domain.SyncCycle) error
	Recent(ctx context.Context, loop string, limit int) ([]domain.SyncCycle, error)
}

type syncJournalRepository struct {
	pool *pgxpool.Pool
}

// NewSyncJournalRepository builds the Postgres journal.
func NewSyncJournalRepository(pool *pgxpool.Pool) SyncJournalRepository {
	return &syncJournalRepository{pool: pool}
}

func (r *syncJournalRepository) Record(ctx context.Context, cycle domain.SyncCycle) error {
	const query = `
        INSERT INTO sync_cycles (loop_name, started_at, duration_ms, outcome, items, changes, error)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.pool.Exec(ctx, query,
		cycle.Loop,
		cycle.StartedAt,
		cycle.Duration.Milliseconds(),
		cycle.Outcome,
		cycle.Items,
		cycle.Changes,
		cycle.Error,
	)
	return err
}

func (r *syncJournalRepository) Recent(ctx context.Context, loop string, limit int) ([]domain.SyncCycle, error) {
	const query = `
        SELECT id, loop_name, started_at, duration_ms, outcome, items, changes, error
        FROM sync_cycles
        WHERE ($1 = '' OR loop_name = $1)
        ORDER BY started_at DESC, id DESC
        LIMIT $2`
	rows, err := r.pool.Query(ctx, query, loop, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.SyncCycle{}
	for rows.Next() {
		var (
			cycle      domain.SyncCycle
			durationMS int64
		)
		if err := rows.Scan(
			&cycle.ID,
			&cycle.Loop,
			&cycle.StartedAt,
			&durationMS,
			&cycle.Outcome,
			&cycle.Items,
			&cycle.Changes,
			&cycle.Error,
		); err != nil {
			return nil, err
		}
		cycle.Duration = millis(durationMS)
		result = append(result, cycle)
	}
	return result, rows.Err()
}

// memorySyncJournal keeps the most recent cycles in process when no database
// is configured.
type memorySyncJournal struct {
	mu       sync.Mutex
	capacity int
	nextID   int64
	cycles   []domain.SyncCycle
}

// NewMemorySyncJournal builds a journal that retains at most capacity cycles.
func NewMemorySyncJournal(capacity int) SyncJournalRepository {
	if capacity <= 0 {
		capacity = defaultLimit
	}
	return &memorySyncJournal{capacity: capacity}
}

func (j *memorySyncJournal) Record(_ context.Context, cycle domain.SyncCycle) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.nextID++
	cycle.ID = j.nextID
	j.cycles = append(j.cycles, cycle)
	if over := len(j.cycles) - j.capacity; over > 0 {
		j.cycles = append([]domain.SyncCycle(nil), j.cycles[over:]...)
	}
	return nil
}

func (j *memorySyncJournal) Recent(_ context.Context, loop string, limit int) ([]domain.SyncCycle, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	limit = normalizeLimit(limit)
	result := []domain.SyncCycle{}
	for i := len(j.cycles) - 1; i >= 0 && len(result) < limit; i-- {
		if loop == "" || j.cycles[i].Loop == loop {
			result = append(result, j.cycles[i])
		}
	}
	return result, nil
}

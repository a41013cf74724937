// README: Slot booking counters backed by PostgreSQL with conditional increments.
package slot

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store keeps one booked-count row per (pool, slot, day). Reservations are
// conditional increments, so capacity cannot be oversold even when two
// bookings race; availability reads the same counters, so reads and commits
// agree.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const dayFormat = "2006-01-02"

// BookedCounts returns the booked count per slot-start label for one pool
// and date. Slots with no bookings are absent from the map.
func (s *Store) BookedCounts(ctx context.Context, pool Pool, day time.Time) (map[string]int, error) {
	rows, err := s.db.Query(ctx, `
		SELECT slot_start, booked FROM slot_bookings
		WHERE pool = $1 AND day = $2`,
		string(pool), day.Format(dayFormat),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var start string
		var booked int
		if err := rows.Scan(&start, &booked); err != nil {
			return nil, err
		}
		counts[start] = booked
	}
	return counts, rows.Err()
}

// Reserve atomically takes one unit of capacity for (pool, slot, day). It
// returns false when the slot is full; losing a race reports full, never an
// overshoot.
func (s *Store) Reserve(ctx context.Context, pool Pool, slotStart string, day time.Time, capacity int) (bool, error) {
	if capacity < 1 {
		return false, nil
	}
	tag, err := s.db.Exec(ctx, `
		INSERT INTO slot_bookings (pool, slot_start, day, booked)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (pool, slot_start, day)
		DO UPDATE SET booked = slot_bookings.booked + 1
		WHERE slot_bookings.booked < $4`,
		string(pool), slotStart, day.Format(dayFormat), capacity,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Release gives back one previously reserved unit.
func (s *Store) Release(ctx context.Context, pool Pool, slotStart string, day time.Time) error {
	_, err := s.db.Exec(ctx, `
		UPDATE slot_bookings
		SET booked = booked - 1
		WHERE pool = $1 AND slot_start = $2 AND day = $3 AND booked > 0`,
		string(pool), slotStart, day.Format(dayFormat),
	)
	return err
}

// README: Order store backed by PostgreSQL.
package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lastmile/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Filter narrows List results. Nil fields are ignored.
type Filter struct {
	Status      *Status
	Delivery    *DeliveryStatus
	CourierID   *types.ID
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

const orderColumns = `
	id, customer_id, status, delivery_status, status_version,
	total_amount, total_currency, address, delivery_lat, delivery_lng,
	courier_id, courier_name, courier_phone,
	collection_slot, delivery_slot, collection_eta, delivery_eta,
	rating, created_at, assigned_at, delivered_at`

func (s *Store) Create(ctx context.Context, o *Order) error {
	var lat, lng *float64
	if o.DeliveryPoint != nil {
		lat, lng = &o.DeliveryPoint.Lat, &o.DeliveryPoint.Lng
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO orders (
			id, customer_id, status, delivery_status, status_version,
			total_amount, total_currency, address, delivery_lat, delivery_lng,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		string(o.ID),
		string(o.CustomerID),
		string(o.Status),
		string(o.Delivery),
		o.StatusVersion,
		o.Total.Amount,
		o.Total.Currency,
		o.Address,
		lat, lng,
		o.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Order, error) {
	row := s.db.QueryRow(ctx, `SELECT`+orderColumns+` FROM orders WHERE id = $1`, string(id))
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Store) List(ctx context.Context, f Filter) ([]*Order, error) {
	q := `SELECT` + orderColumns + ` FROM orders WHERE 1=1`
	args := []any{}
	if f.Status != nil {
		args = append(args, string(*f.Status))
		q += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.Delivery != nil {
		args = append(args, string(*f.Delivery))
		q += fmt.Sprintf(" AND delivery_status = $%d", len(args))
	}
	if f.CourierID != nil {
		args = append(args, string(*f.CourierID))
		q += fmt.Sprintf(" AND courier_id = $%d", len(args))
	}
	if f.CreatedFrom != nil {
		args = append(args, *f.CreatedFrom)
		q += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if f.CreatedTo != nil {
		args = append(args, *f.CreatedTo)
		q += fmt.Sprintf(" AND created_at < $%d", len(args))
	}
	q += " ORDER BY created_at"

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus transitions the order status with optimistic locking; the
// caller re-reads and retries on a lost race.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE orders
		SET status = $1,
		    status_version = status_version + 1,
		    delivered_at = CASE WHEN $1 = 'delivered' THEN NOW() ELSE delivered_at END,
		    delivery_status = CASE WHEN $1 = 'delivered' THEN 'delivered' ELSE delivery_status END
		WHERE id = $2 AND status = $3 AND status_version = $4`,
		string(to), string(id), string(from), version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// AssignCourier writes the courier identifiers onto the order, moves the
// delivery leg to assigned and the order to out_for_delivery. Guarded by the
// status version so two concurrent assignments cannot both apply.
func (s *Store) AssignCourier(ctx context.Context, id types.ID, courierID types.ID, name, phone string, version int) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE orders
		SET courier_id = $1,
		    courier_name = $2,
		    courier_phone = $3,
		    delivery_status = 'assigned',
		    status = 'out_for_delivery',
		    assigned_at = NOW(),
		    status_version = status_version + 1
		WHERE id = $4 AND status_version = $5 AND status NOT IN ('delivered', 'cancelled')`,
		string(courierID), name, phone, string(id), version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// BookSlots writes the committed slot labels and their derived ETAs.
func (s *Store) BookSlots(ctx context.Context, id types.ID, collection, delivery string, collectionETA, deliveryETA time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE orders
		SET collection_slot = $1,
		    delivery_slot = $2,
		    collection_eta = $3,
		    delivery_eta = $4
		WHERE id = $5`,
		collection, delivery, collectionETA, deliveryETA, string(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetRating(ctx context.Context, id types.ID, rating float64) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE orders SET rating = $1 WHERE id = $2`, rating, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountActiveByCourier returns the courier's current concurrent load:
// orders whose delivery leg is assigned or collected.
func (s *Store) CountActiveByCourier(ctx context.Context, courierID types.ID) (int, error) {
	row := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM orders
		WHERE courier_id = $1 AND delivery_status IN ('assigned', 'collected')`,
		string(courierID),
	)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) AppendHistory(ctx context.Context, orderID types.ID, status, message string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO order_history (id, order_id, status, message, created_at)
		VALUES ($1, $2, $3, $4, NOW())`,
		uuid.NewString(), string(orderID), status, message,
	)
	return err
}

func (s *Store) History(ctx context.Context, orderID types.ID) ([]HistoryEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, order_id, status, message, created_at
		FROM order_history
		WHERE order_id = $1
		ORDER BY created_at`,
		string(orderID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var h HistoryEntry
		if err := rows.Scan(&h.ID, &h.OrderID, &h.Status, &h.Message, &h.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	var lat, lng sql.NullFloat64
	var courierID, courierName, courierPhone sql.NullString
	var collectionSlot, deliverySlot sql.NullString
	var collectionETA, deliveryETA, assignedAt, deliveredAt sql.NullTime
	var rating sql.NullFloat64

	err := row.Scan(
		&o.ID, &o.CustomerID, &o.Status, &o.Delivery, &o.StatusVersion,
		&o.Total.Amount, &o.Total.Currency, &o.Address, &lat, &lng,
		&courierID, &courierName, &courierPhone,
		&collectionSlot, &deliverySlot, &collectionETA, &deliveryETA,
		&rating, &o.CreatedAt, &assignedAt, &deliveredAt,
	)
	if err != nil {
		return nil, err
	}

	if lat.Valid && lng.Valid {
		o.DeliveryPoint = &types.Point{Lat: lat.Float64, Lng: lng.Float64}
	}
	if courierID.Valid {
		id := types.ID(courierID.String)
		o.CourierID = &id
	}
	o.CourierName = toStringPtr(courierName)
	o.CourierPhone = toStringPtr(courierPhone)
	o.CollectionSlot = toStringPtr(collectionSlot)
	o.DeliverySlot = toStringPtr(deliverySlot)
	o.CollectionETA = toTimePtr(collectionETA)
	o.DeliveryETA = toTimePtr(deliveryETA)
	o.AssignedAt = toTimePtr(assignedAt)
	o.DeliveredAt = toTimePtr(deliveredAt)
	if rating.Valid {
		o.Rating = &rating.Float64
	}
	return &o, nil
}

func toStringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func toTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/meetspace/room-booking/internal/database"
	"github.com/meetspace/room-booking/internal/model"
)

// BookingRepo provides persistence for bookings. Creation is transactional:
// the overlap check locks the conflicting index range (SELECT ... FOR
// UPDATE) before inserting, so two concurrent creations for the same room
// window cannot both commit. All timestamps are UTC.
type BookingRepo struct{ pool *database.Pool }

func NewBookingRepo(p *database.Pool) *BookingRepo { return &BookingRepo{pool: p} }

// overlapPred matches rows whose [start_time, end_time) intersects the
// half-open interval [?, ?): two ranges intersect iff neither ends before
// the other starts.
const overlapPred = `NOT (end_time <= ? OR start_time >= ?)`

// BookingDetail is a booking joined with room and user display fields, as
// returned by the admin list, per-user list and status update endpoints.
type BookingDetail struct {
	model.Booking
	RoomName  *string `json:"room_name"`
	UserEmail *string `json:"user_email"`
	UserName  *string `json:"user_name"`
}

// BookingFilter narrows the admin booking list. Zero values mean "no
// filter". User is a case-insensitive substring match over the booker's
// email and name.
type BookingFilter struct {
	RoomID   uint64
	Status   string
	User     string
	DateFrom *time.Time
	DateTo   *time.Time
}

const detailCols = `b.id, b.room_id, b.user_id, b.start_time, b.end_time, b.status, b.notes, b.created_at,
                    r.name, u.email, u.name`

const detailFrom = ` FROM bookings b
                     LEFT JOIN rooms r ON b.room_id = r.id
                     LEFT JOIN users u ON b.user_id = u.id`

// HasOverlap reports whether any booking for the room intersects
// [start, end). This is a plain read used for availability queries; it
// takes no locks and can go stale immediately (see Create for the
// authoritative check).
func (r *BookingRepo) HasOverlap(ctx context.Context, roomID uint64, start, end time.Time) (bool, error) {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, err
	}
	var one int
	err = db.QueryRowContext(ctx,
		`SELECT 1 FROM bookings WHERE room_id = ? AND `+overlapPred+` LIMIT 1`,
		roomID, start, end).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts a booking unless it overlaps an existing one. The check
// and the insert run in one transaction; the locking SELECT takes InnoDB
// next-key locks on the (room_id, start_time, end_time) index, which
// serializes concurrent creations on the same room window. On success the
// stored row, including the generated id and default status, is read back
// into b.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM bookings WHERE room_id = ? AND `+overlapPred+` LIMIT 1 FOR UPDATE`,
		b.RoomID, b.StartTime, b.EndTime).Scan(&one)
	if err == nil {
		return ErrOverlap
	}
	if err != sql.ErrNoRows {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (room_id, user_id, start_time, end_time, status, notes)
		 VALUES (?, ?, ?, ?, 'pending', ?)`,
		b.RoomID, b.UserID, b.StartTime, b.EndTime, b.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	err = tx.QueryRowContext(ctx,
		`SELECT id, room_id, user_id, start_time, end_time, status, notes, created_at
		 FROM bookings WHERE id = ?`, id).
		Scan(&b.ID, &b.RoomID, &b.UserID, &b.StartTime, &b.EndTime, &b.Status, &b.Notes, &b.CreatedAt)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID fetches a single booking row. Returns ErrBookingNotFound when
// absent.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return model.Booking{}, err
	}
	var b model.Booking
	err = db.QueryRowContext(ctx,
		`SELECT id, room_id, user_id, start_time, end_time, status, notes, created_at
		 FROM bookings WHERE id = ?`, id).
		Scan(&b.ID, &b.RoomID, &b.UserID, &b.StartTime, &b.EndTime, &b.Status, &b.Notes, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return b, ErrBookingNotFound
	}
	return b, err
}

// List returns bookings matching the filter, joined with room and user
// display fields, ordered by start time.
func (r *BookingRepo) List(ctx context.Context, f BookingFilter) ([]BookingDetail, error) {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	where := make([]string, 0, 5)
	args := make([]interface{}, 0, 6)
	if f.RoomID != 0 {
		where = append(where, "b.room_id = ?")
		args = append(args, f.RoomID)
	}
	if f.Status != "" {
		where = append(where, "b.status = ?")
		args = append(args, f.Status)
	}
	if f.DateFrom != nil {
		where = append(where, "b.start_time >= ?")
		args = append(args, *f.DateFrom)
	}
	if f.DateTo != nil {
		where = append(where, "b.end_time <= ?")
		args = append(args, *f.DateTo)
	}
	if f.User != "" {
		where = append(where, "(LOWER(u.email) LIKE ? OR LOWER(u.name) LIKE ?)")
		pat := "%" + strings.ToLower(f.User) + "%"
		args = append(args, pat, pat)
	}
	q := `SELECT ` + detailCols + detailFrom
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY b.start_time"
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDetails(rows)
}

// ListByUser returns the given user's bookings with joined display fields,
// ordered by start time.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	q := `SELECT ` + detailCols + detailFrom + ` WHERE b.user_id = ? ORDER BY b.start_time`
	rows, err := db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDetails(rows)
}

// UpdateStatus sets a booking's status and returns the joined row.
// Returns ErrBookingNotFound when the booking does not exist.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status string) (BookingDetail, error) {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return BookingDetail{}, err
	}
	if _, err := db.ExecContext(ctx,
		"UPDATE bookings SET status = ? WHERE id = ?", status, id); err != nil {
		return BookingDetail{}, err
	}
	// RowsAffected cannot distinguish "missing" from "status unchanged";
	// reading the row back covers both.
	var d BookingDetail
	err = db.QueryRowContext(ctx,
		`SELECT `+detailCols+detailFrom+` WHERE b.id = ?`, id).
		Scan(&d.ID, &d.RoomID, &d.UserID, &d.StartTime, &d.EndTime, &d.Status, &d.Notes, &d.CreatedAt,
			&d.RoomName, &d.UserEmail, &d.UserName)
	if err == sql.ErrNoRows {
		return d, ErrBookingNotFound
	}
	return d, err
}

// OwnerOf returns the booking's user_id (nil for anonymous bookings).
// Returns ErrBookingNotFound when the booking does not exist.
func (r *BookingRepo) OwnerOf(ctx context.Context, id uint64) (*uint64, error) {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	var owner *uint64
	err = db.QueryRowContext(ctx,
		"SELECT user_id FROM bookings WHERE id = ?", id).Scan(&owner)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	return owner, err
}

// Delete removes a booking row.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, "DELETE FROM bookings WHERE id = ?", id)
	return err
}

func scanDetails(rows *sql.Rows) ([]BookingDetail, error) {
	out := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		if err := rows.Scan(
			&d.ID, &d.RoomID, &d.UserID, &d.StartTime, &d.EndTime, &d.Status, &d.Notes, &d.CreatedAt,
			&d.RoomName, &d.UserEmail, &d.UserName,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

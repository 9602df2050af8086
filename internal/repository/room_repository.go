package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/meetspace/room-booking/internal/database"
	"github.com/meetspace/room-booking/internal/model"
)

// RoomRepo provides CRUD over the rooms table. Updates use partial-update
// semantics: a nil field keeps the stored value (COALESCE).
type RoomRepo struct{ pool *database.Pool }

func NewRoomRepo(p *database.Pool) *RoomRepo { return &RoomRepo{pool: p} }

// List returns all rooms ordered by id.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		"SELECT id, name, capacity, description FROM rooms ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRooms(rows)
}

// ListAvailableOn returns rooms with no booking intersecting [start, end).
func (r *RoomRepo) ListAvailableOn(ctx context.Context, start, end time.Time) ([]model.Room, error) {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	const q = `SELECT r.id, r.name, r.capacity, r.description
	           FROM rooms r
	           WHERE NOT EXISTS (
	               SELECT 1 FROM bookings b
	               WHERE b.room_id = r.id AND NOT (b.end_time <= ? OR b.start_time >= ?)
	           )
	           ORDER BY r.id`
	rows, err := db.QueryContext(ctx, q, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRooms(rows)
}

// GetByID fetches one room. Returns ErrRoomNotFound when absent.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (model.Room, error) {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return model.Room{}, err
	}
	var room model.Room
	err = db.QueryRowContext(ctx,
		"SELECT id, name, capacity, description FROM rooms WHERE id = ?",
		id).Scan(&room.ID, &room.Name, &room.Capacity, &room.Description)
	if err == sql.ErrNoRows {
		return room, ErrRoomNotFound
	}
	return room, err
}

// Create inserts a room and populates the generated id.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx,
		"INSERT INTO rooms (name, capacity, description) VALUES (?,?,?)",
		room.Name, room.Capacity, room.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)
	return nil
}

// Update applies a partial update: nil fields preserve the stored value.
// It returns the updated row, or ErrRoomNotFound when the room is absent.
func (r *RoomRepo) Update(ctx context.Context, id uint64, name *string, capacity *uint32, description *string) (model.Room, error) {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return model.Room{}, err
	}
	const q = `UPDATE rooms
	           SET name = COALESCE(?, name),
	               capacity = COALESCE(?, capacity),
	               description = COALESCE(?, description)
	           WHERE id = ?`
	if _, err := db.ExecContext(ctx, q, name, capacity, description, id); err != nil {
		return model.Room{}, err
	}
	// RowsAffected is 0 both for a missing row and for a no-op update, so
	// read the row back to distinguish the two.
	return r.GetByID(ctx, id)
}

// Delete removes a room. Deleting an absent room is not an error; the
// endpoint answers 204 either way.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	db, err := r.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, "DELETE FROM rooms WHERE id = ?", id)
	return err
}

func scanRooms(rows *sql.Rows) ([]model.Room, error) {
	out := make([]model.Room, 0)
	for rows.Next() {
		var room model.Room
		if err := rows.Scan(&room.ID, &room.Name, &room.Capacity, &room.Description); err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

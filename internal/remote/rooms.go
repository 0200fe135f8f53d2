package remote

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vaultsync/internal/dbx"
	"github.com/google/uuid"
)

// CreateRoom inserts a room and enrolls its creator as the first member.
// Both writes happen in one transaction.
func (c *PostgresClient) CreateRoom(ctx context.Context, ownerID, name string) (Room, error) {
	room := Room{ID: uuid.NewString(), Name: name, CreatedBy: ownerID}

	err := dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rooms (id, name, created_by) VALUES ($1, $2, $3)`,
			room.ID, room.Name, room.CreatedBy); err != nil {
			return fmt.Errorf("inserting room: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO room_members (room_id, user_id) VALUES ($1, $2)`,
			room.ID, ownerID); err != nil {
			return fmt.Errorf("enrolling creator: %w", err)
		}
		return nil
	})
	if err != nil {
		return Room{}, err
	}
	return room, nil
}

// JoinRoom enrolls a user into an existing room. Joining twice is a no-op.
func (c *PostgresClient) JoinRoom(ctx context.Context, roomID, userID string) error {
	res, err := c.db.ExecContext(ctx,
		`INSERT INTO room_members (room_id, user_id)
		 SELECT id, $2 FROM rooms WHERE id = $1
		 ON CONFLICT (room_id, user_id) DO NOTHING`,
		roomID, userID)
	if err != nil {
		return fmt.Errorf("joining room: %w", err)
	}
	// Zero rows with no conflict means the room itself does not exist.
	if ra, err := res.RowsAffected(); err == nil && ra == 0 {
		var exists bool
		row := c.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM rooms WHERE id = $1)`, roomID)
		if err := row.Scan(&exists); err != nil {
			return fmt.Errorf("checking room: %w", err)
		}
		if !exists {
			return fmt.Errorf("joining room %q: %w", roomID, ErrNotFound)
		}
	}
	return nil
}

// ListRooms returns the rooms the user is a member of.
func (c *PostgresClient) ListRooms(ctx context.Context, userID string) ([]Room, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT r.id, r.name, r.created_by FROM rooms r
		 JOIN room_members m ON m.room_id = r.id
		 WHERE m.user_id = $1 ORDER BY r.name`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	defer rows.Close()

	var result []Room
	for rows.Next() {
		var r Room
		if err := rows.Scan(&r.ID, &r.Name, &r.CreatedBy); err != nil {
			return nil, fmt.Errorf("scanning room: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rooms: %w", err)
	}
	return result, nil
}

var _ RoomDirectory = (*PostgresClient)(nil)

package cli

import (
	"context"
	"fmt"
	"os"
)

// Rooms lists the rooms the current user belongs to.
func (a *App) Rooms(ctx context.Context) error {
	s := a.identity.Current()
	rooms, err := a.remote.ListRooms(ctx, s.UserID)
	if err != nil {
		printlnFn("Could not list rooms:", err)
		return err
	}
	if len(rooms) == 0 {
		printlnFn("(no rooms)")
		return nil
	}
	for _, r := range rooms {
		printlnFn(fmt.Sprintf("%-36s %s", r.ID, r.Name))
	}
	return nil
}

// MakeRoom creates a room and prints its id for sharing.
func (a *App) MakeRoom(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Room name", os.Stdout)
	if err != nil {
		return err
	}
	room, err := a.remote.CreateRoom(ctx, a.identity.Current().UserID, name)
	if err != nil {
		printlnFn("Could not create room:", err)
		return err
	}
	printlnFn("Created room", room.ID)
	return nil
}

// Join adds the current user to an existing room by id.
func (a *App) Join(ctx context.Context, roomID string) error {
	if err := a.remote.JoinRoom(ctx, roomID, a.identity.Current().UserID); err != nil {
		printlnFn("Could not join room:", err)
		return err
	}
	printlnFn("Joined room", roomID)
	return nil
}

// Use switches the open vault: "use personal" returns to the personal
// scope, "use <room-id>" opens a room. Pending edits in the previous scope
// are flushed before the switch.
func (a *App) Use(ctx context.Context, target string) error {
	roomID := target
	if target == "personal" {
		roomID = ""
	}
	if err := a.openSession(ctx, roomID); err != nil {
		printlnFn("Could not switch:", err)
		return err
	}
	if roomID == "" {
		printlnFn("Using personal vault")
	} else {
		printlnFn("Using room", roomID)
	}
	return nil
}

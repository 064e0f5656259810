package console

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"peregovorka/internal/models"
)

// adminMenu is only reachable with an admin session; the server enforces the
// same restriction on every call made from here.
func (c *Console) adminMenu(ctx context.Context) {
	for {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "1) create room")
		fmt.Fprintln(c.out, "2) edit room")
		fmt.Fprintln(c.out, "3) delete room")
		fmt.Fprintln(c.out, "4) all bookings")
		fmt.Fprintln(c.out, "5) export bookings")
		fmt.Fprintln(c.out, "b) back")

		switch c.prompt("admin> ") {
		case "1":
			c.createRoom(ctx)
		case "2":
			c.editRoom(ctx)
		case "3":
			c.deleteRoom(ctx)
		case "4":
			c.allBookings(ctx)
		case "5":
			c.exportBookings(ctx)
		case "b", "":
			return
		}
	}
}

func (c *Console) createRoom(ctx context.Context) {
	input, ok := c.promptRoomInput(models.RoomInput{Capacity: 1})
	if !ok {
		return
	}
	room, err := c.api.CreateRoom(ctx, input)
	if err != nil {
		c.fail("failed to create room", err)
		return
	}
	fmt.Fprintf(c.out, "room #%d created\n", room.ID)
}

func (c *Console) editRoom(ctx context.Context) {
	roomID, ok := c.promptRoomID()
	if !ok {
		return
	}
	var current models.RoomInput
	for _, r := range c.rooms {
		if r.ID == roomID {
			current = models.RoomInput{Name: r.Name, Capacity: r.Capacity, Location: r.Location, Amenities: r.Amenities}
		}
	}
	input, ok := c.promptRoomInput(current)
	if !ok {
		return
	}
	if _, err := c.api.UpdateRoom(ctx, roomID, input); err != nil {
		c.fail("failed to update room", err)
		return
	}
	fmt.Fprintln(c.out, "room updated")
}

func (c *Console) deleteRoom(ctx context.Context) {
	roomID, ok := c.promptRoomID()
	if !ok {
		return
	}
	if !c.confirm(fmt.Sprintf("delete room #%d and its bookings?", roomID)) {
		return
	}
	if err := c.api.DeleteRoom(ctx, roomID); err != nil {
		c.fail("failed to delete room", err)
		return
	}
	fmt.Fprintln(c.out, "room deleted")
}

// allBookings lists every booking in the system with a delete prompt. The
// admin session sees the unscoped list straight from the server.
func (c *Console) allBookings(ctx context.Context) {
	rooms, bookings, err := c.api.FetchDashboard(ctx)
	if err != nil {
		c.fail("failed to load bookings", err)
		return
	}
	c.rooms = rooms
	c.bookings = bookings

	if len(bookings) == 0 {
		fmt.Fprintln(c.out, "no bookings")
		return
	}
	c.printBookings(bookings, rooms)

	id := c.prompt("delete booking # (empty to go back): ")
	if id == "" {
		return
	}
	bookingID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || bookingID <= 0 {
		fmt.Fprintln(c.out, "not a booking id")
		return
	}
	if !c.confirm(fmt.Sprintf("delete booking #%d?", bookingID)) {
		return
	}
	if err := c.api.DeleteBooking(ctx, bookingID); err != nil {
		c.fail("failed to delete booking", err)
		return
	}
	fmt.Fprintln(c.out, "booking deleted")
}

func (c *Console) exportBookings(ctx context.Context) {
	data, err := c.api.ExportBookings(ctx)
	if err != nil {
		c.fail("export failed", err)
		return
	}
	name := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02"))
	path := name
	if c.exportDir != "" {
		if err := os.MkdirAll(c.exportDir, 0o755); err != nil {
			c.fail("failed to write export file", err)
			return
		}
		path = filepath.Join(c.exportDir, name)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.fail("failed to write export file", err)
		return
	}
	fmt.Fprintf(c.out, "saved %s\n", path)
}

func (c *Console) promptRoomID() (int64, bool) {
	raw := c.prompt("room #: ")
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintln(c.out, "not a room id")
		return 0, false
	}
	return id, true
}

// promptRoomInput collects the room fields. Capacity re-prompts until it is
// a positive integer so a bad value never reaches the server.
func (c *Console) promptRoomInput(def models.RoomInput) (models.RoomInput, bool) {
	name := c.promptDefault("name", def.Name)
	if name == "" {
		fmt.Fprintln(c.out, "name is required")
		return models.RoomInput{}, false
	}

	var capacity int64
	for {
		raw := c.promptDefault("capacity", strconv.FormatInt(def.Capacity, 10))
		n, err := strconv.ParseInt(raw, 10, 64)
		if err == nil && n > 0 {
			capacity = n
			break
		}
		if c.eof {
			return models.RoomInput{}, false
		}
		fmt.Fprintln(c.out, "capacity must be a positive number")
	}

	return models.RoomInput{
		Name:      name,
		Capacity:  capacity,
		Location:  c.promptDefault("location", def.Location),
		Amenities: c.promptDefault("amenities", def.Amenities),
	}, true
}

func (c *Console) promptDefault(label, def string) string {
	if def == "" {
		return c.prompt(label + ": ")
	}
	raw := c.prompt(fmt.Sprintf("%s [%s]: ", label, def))
	if raw == "" {
		return def
	}
	return raw
}

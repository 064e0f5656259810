package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"peregovorka/internal/client"
	"peregovorka/internal/models"
)

// API is the surface of the typed HTTP client the console drives.
type API interface {
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context)
	SetToken(token string)
	Register(ctx context.Context, email, name, password string) (*models.User, error)
	CurrentUser(ctx context.Context) (*models.User, error)

	ListRooms(ctx context.Context) ([]*models.Room, error)
	CreateRoom(ctx context.Context, input models.RoomInput) (*models.Room, error)
	UpdateRoom(ctx context.Context, id int64, input models.RoomInput) (*models.Room, error)
	DeleteRoom(ctx context.Context, id int64) error

	ListBookings(ctx context.Context) ([]*models.Booking, error)
	CreateBooking(ctx context.Context, input models.BookingInput) (*models.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
	ExportBookings(ctx context.Context) ([]byte, error)

	FetchDashboard(ctx context.Context) ([]*models.Room, []*models.Booking, error)
}

// Console is the interactive terminal front-end. State it needs lives in
// fields; the current rooms and bookings are refetched after every mutation
// rather than patched in place.
type Console struct {
	api       API
	in        *bufio.Scanner
	out       io.Writer
	tokenFile string
	exportDir string
	log       zerolog.Logger

	session  *Session
	rooms    []*models.Room
	bookings []*models.Booking
	form     *BookingForm
	eof      bool
}

func New(api API, in io.Reader, out io.Writer, tokenFile, exportDir string, logger zerolog.Logger) *Console {
	return &Console{
		api:       api,
		in:        bufio.NewScanner(in),
		out:       out,
		tokenFile: tokenFile,
		exportDir: exportDir,
		log:       logger.With().Str("component", "console").Logger(),
		form:      NewBookingForm(),
	}
}

// Restore tries to resume a persisted session. A dead token is silently
// discarded.
func (c *Console) Restore(ctx context.Context) {
	token := LoadToken(c.tokenFile)
	if token == "" {
		return
	}
	c.api.SetToken(token)
	user, err := c.api.CurrentUser(ctx)
	if err != nil {
		c.api.Logout(ctx)
		ClearToken(c.tokenFile)
		return
	}
	c.session = NewSession(token, user)
}

// Run drives the menu loop until the user quits or input ends.
func (c *Console) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if c.session == nil {
			if done := c.anonymousMenu(ctx); done {
				return nil
			}
			continue
		}
		if done := c.mainMenu(ctx); done {
			return nil
		}
	}
}

func (c *Console) anonymousMenu(ctx context.Context) (quit bool) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "1) login")
	fmt.Fprintln(c.out, "2) register")
	fmt.Fprintln(c.out, "q) quit")

	switch c.prompt("> ") {
	case "1":
		c.login(ctx)
	case "2":
		c.register(ctx)
	case "q", "":
		return true
	}
	return false
}

func (c *Console) mainMenu(ctx context.Context) (quit bool) {
	fmt.Fprintf(c.out, "\nlogged in as %s", c.session.User.Email)
	if c.session.IsAdmin() {
		fmt.Fprint(c.out, " (admin)")
	}
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "1) rooms")
	fmt.Fprintln(c.out, "2) my bookings")
	fmt.Fprintln(c.out, "3) new booking")
	if c.session.IsAdmin() {
		fmt.Fprintln(c.out, "4) admin")
	}
	fmt.Fprintln(c.out, "5) logout")
	fmt.Fprintln(c.out, "q) quit")

	switch c.prompt("> ") {
	case "1":
		c.roomCatalog(ctx)
	case "2":
		c.myBookings(ctx)
	case "3":
		c.newBooking(ctx, 0)
	case "4":
		if c.session.IsAdmin() {
			c.adminMenu(ctx)
		}
	case "5":
		c.logout(ctx)
	case "q", "":
		return true
	}
	return false
}

func (c *Console) login(ctx context.Context) {
	email := c.prompt("email: ")
	password := c.prompt("password: ")

	token, err := c.api.Login(ctx, email, password)
	if err != nil {
		c.fail("login failed", err)
		return
	}
	user, err := c.api.CurrentUser(ctx)
	if err != nil {
		c.api.Logout(ctx)
		c.fail("login failed", err)
		return
	}
	c.session = NewSession(token, user)
	if err := SaveToken(c.tokenFile, token); err != nil {
		c.log.Warn().Err(err).Msg("failed to persist token")
	}
	fmt.Fprintf(c.out, "welcome, %s\n", user.Name)
}

func (c *Console) register(ctx context.Context) {
	email := c.prompt("email: ")
	name := c.prompt("name: ")
	password := c.prompt("password: ")

	if _, err := c.api.Register(ctx, email, name, password); err != nil {
		c.fail("registration failed", err)
		return
	}
	fmt.Fprintln(c.out, "registered, you can log in now")
}

func (c *Console) logout(ctx context.Context) {
	c.api.Logout(ctx)
	ClearToken(c.tokenFile)
	c.session = nil
	c.rooms = nil
	c.bookings = nil
	fmt.Fprintln(c.out, "logged out")
}

// roomCatalog shows the active rooms and lets the user start a booking from
// one of them.
func (c *Console) roomCatalog(ctx context.Context) {
	rooms, err := c.api.ListRooms(ctx)
	if err != nil {
		c.fail("failed to load rooms", err)
		return
	}
	c.rooms = rooms

	if len(rooms) == 0 {
		fmt.Fprintln(c.out, "no rooms available")
		return
	}
	fmt.Fprintln(c.out)
	for _, r := range rooms {
		fmt.Fprintf(c.out, "  #%d %s (seats %d)", r.ID, r.Name, r.Capacity)
		if r.Location != "" {
			fmt.Fprintf(c.out, " @ %s", r.Location)
		}
		if r.Amenities != "" {
			fmt.Fprintf(c.out, " [%s]", r.Amenities)
		}
		fmt.Fprintln(c.out)
	}

	id := c.prompt("book room # (empty to go back): ")
	if id == "" {
		return
	}
	roomID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || roomID <= 0 {
		fmt.Fprintln(c.out, "not a room id")
		return
	}
	c.newBooking(ctx, roomID)
}

// myBookings renders the dashboard: the user's bookings with room names
// resolved. The server already scopes the list to the owner for non-admins,
// the filter here is a rendering convenience only.
func (c *Console) myBookings(ctx context.Context) {
	rooms, bookings, err := c.api.FetchDashboard(ctx)
	if err != nil {
		c.fail("failed to load bookings", err)
		return
	}
	c.rooms = rooms
	c.bookings = bookings

	mine := bookings
	if !c.session.IsAdmin() {
		mine = filterOwn(bookings, c.session.User.ID)
	}
	if len(mine) == 0 {
		fmt.Fprintln(c.out, "no bookings")
		return
	}
	c.printBookings(mine, rooms)

	id := c.prompt("cancel booking # (empty to go back): ")
	if id == "" {
		return
	}
	bookingID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || bookingID <= 0 {
		fmt.Fprintln(c.out, "not a booking id")
		return
	}
	if !c.confirm(fmt.Sprintf("cancel booking #%d?", bookingID)) {
		return
	}
	if err := c.api.DeleteBooking(ctx, bookingID); err != nil {
		c.fail("failed to cancel booking", err)
		return
	}
	fmt.Fprintln(c.out, "booking cancelled")
	c.refetchBookings(ctx)
}

// newBooking walks the booking form. A zero roomID asks for the room first.
func (c *Console) newBooking(ctx context.Context, roomID int64) {
	if roomID == 0 {
		raw := c.prompt("room #: ")
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			fmt.Fprintln(c.out, "not a room id")
			return
		}
		roomID = id
	}

	c.form.Open(roomID)
	defer c.form.Cancel()

	start, ok := c.promptTime("start", c.form.StartTime)
	if !ok {
		fmt.Fprintln(c.out, "booking cancelled")
		return
	}
	c.form.StartTime = c.form.ClampStart(start)

	end, ok := c.promptTime("end", c.form.StartTime)
	if !ok {
		fmt.Fprintln(c.out, "booking cancelled")
		return
	}
	c.form.EndTime = c.form.ClampEnd(end)
	c.form.Purpose = c.prompt("purpose (optional): ")

	for {
		booking, err := c.form.Submit(ctx, c.api, c.refetchBookings)
		if err != nil {
			if booking == nil {
				// форма осталась открытой, значения сохранены
				c.fail(c.form.LastError, err)
				if c.confirm("retry with the same details?") {
					continue
				}
				fmt.Fprintln(c.out, "booking cancelled")
				return
			}
			c.log.Debug().Err(err).Msg("refetch after booking failed")
		}
		fmt.Fprintf(c.out, "booked room #%d, booking #%d\n", booking.RoomID, booking.ID)
		return
	}
}

func (c *Console) refetchBookings(ctx context.Context) error {
	bookings, err := c.api.ListBookings(ctx)
	if err != nil {
		return err
	}
	c.bookings = bookings
	return nil
}

func (c *Console) printBookings(bookings []*models.Booking, rooms []*models.Room) {
	names := make(map[int64]string, len(rooms))
	for _, r := range rooms {
		names[r.ID] = r.Name
	}
	fmt.Fprintln(c.out)
	for _, b := range bookings {
		name := names[b.RoomID]
		if name == "" {
			name = fmt.Sprintf("room #%d", b.RoomID)
		}
		fmt.Fprintf(c.out, "  #%d %s  %s - %s",
			b.ID, name,
			b.StartTime.Local().Format("2006-01-02 15:04"),
			b.EndTime.Local().Format("15:04"))
		if b.Purpose != "" {
			fmt.Fprintf(c.out, "  %s", b.Purpose)
		}
		fmt.Fprintln(c.out)
	}
}

func filterOwn(bookings []*models.Booking, userID int64) []*models.Booking {
	own := make([]*models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.UserID == userID {
			own = append(own, b)
		}
	}
	return own
}

// prompt reads one trimmed line. Returns "" on EOF and remembers it so
// re-prompting loops can bail out instead of spinning.
func (c *Console) prompt(label string) string {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		c.eof = true
		return ""
	}
	return strings.TrimSpace(c.in.Text())
}

const timeLayout = "2006-01-02 15:04"

// promptTime keeps asking until the input parses or the user aborts with an
// empty line on a retry. The initial empty line accepts the default.
func (c *Console) promptTime(label string, def time.Time) (time.Time, bool) {
	for {
		raw := c.prompt(fmt.Sprintf("%s [%s]: ", label, def.Local().Format(timeLayout)))
		if raw == "" {
			return def, true
		}
		if raw == "x" {
			return time.Time{}, false
		}
		t, err := time.ParseInLocation(timeLayout, raw, time.Local)
		if err == nil {
			return t, true
		}
		fmt.Fprintln(c.out, "use YYYY-MM-DD HH:MM, empty to accept the default, or 'x' to cancel")
	}
}

func (c *Console) confirm(question string) bool {
	answer := c.prompt(question + " [y/N]: ")
	return strings.EqualFold(answer, "y")
}

// fail prints the banner the user sees and logs the underlying error.
func (c *Console) fail(banner string, err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		fmt.Fprintf(c.out, "%s: %s\n", banner, apiErr.Message)
	} else {
		fmt.Fprintln(c.out, banner)
	}
	c.log.Debug().Err(err).Msg(banner)
}

package reminders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/infra/lock"
	"github.com/m04kA/SMC-GroomingService/internal/integrations/directory"
	"github.com/m04kA/SMC-GroomingService/pkg/ptr"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

var ist = time.FixedZone("IST", 5*3600+1800)

type fakeBookings struct {
	bookings []*domain.Booking
}

func (f *fakeBookings) GetScheduledBetween(_ context.Context, from, to time.Time) ([]*domain.Booking, error) {
	out := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		d := b.BookingDate.Format(domain.DateFormat)
		if d >= from.Format(domain.DateFormat) && d <= to.Format(domain.DateFormat) {
			out = append(out, b)
		}
	}
	return out, nil
}

// memLog журнал напоминаний с уникальным ключом, как в БД
type memLog struct {
	mu      sync.Mutex
	records map[domain.ReminderKey]*domain.ReminderRecord
}

func newMemLog() *memLog {
	return &memLog{records: map[domain.ReminderKey]*domain.ReminderRecord{}}
}

func normalize(k domain.ReminderKey) domain.ReminderKey {
	k.SentOn = time.Date(k.SentOn.Year(), k.SentOn.Month(), k.SentOn.Day(), 0, 0, 0, 0, time.UTC)
	return k
}

func (m *memLog) Exists(_ context.Context, key domain.ReminderKey) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[normalize(key)]
	return ok, nil
}

func (m *memLog) Claim(_ context.Context, r *domain.ReminderRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := normalize(r.Key())
	if _, ok := m.records[key]; ok {
		return false, nil
	}
	m.records[key] = r
	return true, nil
}

func (m *memLog) Release(_ context.Context, key domain.ReminderKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, normalize(key))
	return nil
}

type stubDirectory struct{}

func (stubDirectory) GetCustomer(_ context.Context, id int64) (*directory.Customer, error) {
	return &directory.Customer{ID: id, Name: "Asha", Phone: "+91980000000" + string(rune('0'+id%10))}, nil
}

func (stubDirectory) GetGroomer(_ context.Context, id int64) (*directory.Groomer, error) {
	if id == 404 {
		return nil, directory.ErrGroomerNotFound
	}
	return &directory.Groomer{ID: id, Name: "Ravi", Phone: "+91970000000" + string(rune('0'+id%10)), IsActive: true}, nil
}

type sentMessage struct {
	phone   string
	message string
}

type fakeGateway struct {
	mu       sync.Mutex
	tokenErr error
	failFor  map[string]bool
	sent     []sentMessage
}

func (g *fakeGateway) FetchToken(context.Context) (string, error) {
	if g.tokenErr != nil {
		return "", g.tokenErr
	}
	return "token", nil
}

func (g *fakeGateway) Send(_ context.Context, token, phone, message string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if token != "token" {
		return errors.New("bad token")
	}
	if g.failFor[phone] {
		return errors.New("gateway rejected message")
	}
	g.sent = append(g.sent, sentMessage{phone: phone, message: message})
	return nil
}

func (g *fakeGateway) phones() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, 0, len(g.sent))
	for _, m := range g.sent {
		out = append(out, m.phone)
	}
	return out
}

type heldLock struct{}

func (heldLock) Acquire(context.Context) (func(context.Context) error, error) {
	return nil, lock.ErrNotAcquired
}

type nopMetrics struct{}

func (nopMetrics) ReminderRun(string)                    {}
func (nopMetrics) ReminderProcessed(string, int, string) {}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const (
	customerPhone = "+919800000007"
	groomerPhone  = "+919700000009"
)

func booking(id int64, at time.Time, groomerID *int64) *domain.Booking {
	return &domain.Booking{
		ID:            id,
		OrderID:       "GRM-20261015-0000000" + string(rune('0'+id%10)),
		CustomerID:    7,
		GroomerID:     groomerID,
		BookingDate:   domain.DateOf(at, ist),
		AppointmentAt: at,
		Status:        domain.StatusScheduled,
		ServiceName:   "Full groom",
	}
}

type fixture struct {
	scheduler *Scheduler
	log       *memLog
	gateway   *fakeGateway
	clock     *clock
}

func newFixture(bookings ...*domain.Booking) *fixture {
	log := newMemLog()
	gw := &fakeGateway{failFor: map[string]bool{}}
	c := &clock{now: time.Date(2026, 10, 15, 9, 0, 0, 0, ist)}

	s := NewScheduler(&fakeBookings{bookings: bookings}, log, stubDirectory{}, gw, nil, nopMetrics{}, Config{
		Location:    ist,
		WindowStart: types.MustTimeString("08:00"),
		WindowEnd:   types.MustTimeString("21:00"),
	}, nopLogger{})
	s.timeProvider = c

	return &fixture{scheduler: s, log: log, gateway: gw, clock: c}
}

func TestRun_SendsOncePerRecipientPerDay(t *testing.T) {
	f := newFixture(booking(1, time.Date(2026, 10, 20, 10, 0, 0, 0, ist), ptr.Ptr(int64(9))))

	report, err := f.scheduler.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Sent)
	assert.ElementsMatch(t, []string{customerPhone, groomerPhone}, f.gateway.phones())

	f.clock.now = f.clock.now.Add(time.Hour)
	report, err = f.scheduler.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Sent)
	assert.Equal(t, 2, report.Skipped)
	assert.Len(t, f.gateway.phones(), 2)

	// на следующий день до визита 4 дня: такого горизонта нет
	f.clock.now = time.Date(2026, 10, 16, 9, 0, 0, 0, ist)
	report, err = f.scheduler.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Sent)
	assert.Equal(t, 0, report.Bookings)

	f.clock.now = time.Date(2026, 10, 17, 9, 0, 0, 0, ist)
	report, err = f.scheduler.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Sent)
}

func TestRun_SameDayProximityGating(t *testing.T) {
	f := newFixture(booking(1, time.Date(2026, 10, 15, 14, 0, 0, 0, ist), ptr.Ptr(int64(9))))
	ctx := context.Background()

	// 5 часов до визита: никому
	report, err := f.scheduler.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Sent)
	assert.Empty(t, f.gateway.phones())

	// 3 часа: только клиенту
	f.clock.now = time.Date(2026, 10, 15, 11, 0, 0, 0, ist)
	report, err = f.scheduler.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, []string{customerPhone}, f.gateway.phones())

	// 1 час: грумеру, клиенту повторно не отправляется
	f.clock.now = time.Date(2026, 10, 15, 13, 0, 0, 0, ist)
	report, err = f.scheduler.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, []string{customerPhone, groomerPhone}, f.gateway.phones())

	// визит уже начался
	f.clock.now = time.Date(2026, 10, 15, 14, 30, 0, 0, ist)
	report, err = f.scheduler.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Sent)
}

func TestRun_TokenFailureAbortsRun(t *testing.T) {
	f := newFixture(booking(1, time.Date(2026, 10, 20, 10, 0, 0, 0, ist), nil))
	f.gateway.tokenErr = errors.New("connection refused")

	report, err := f.scheduler.Run(context.Background())

	assert.ErrorIs(t, err, ErrGatewayUnavailable)
	assert.Nil(t, report)
	assert.Empty(t, f.gateway.phones())
	assert.Empty(t, f.log.records)
}

func TestRun_SendFailureReleasesClaimAndContinues(t *testing.T) {
	f := newFixture(booking(1, time.Date(2026, 10, 20, 10, 0, 0, 0, ist), ptr.Ptr(int64(9))))
	f.gateway.failFor[customerPhone] = true

	report, err := f.scheduler.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []string{groomerPhone}, f.gateway.phones())
	assert.Len(t, f.log.records, 1)

	// следующий запуск повторяет только неудачную отправку
	f.gateway.failFor[customerPhone] = false
	report, err = f.scheduler.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, []string{groomerPhone, customerPhone}, f.gateway.phones())
}

func TestRun_IgnoresNonScheduledAndUnknownGroomer(t *testing.T) {
	cancelled := booking(1, time.Date(2026, 10, 20, 10, 0, 0, 0, ist), ptr.Ptr(int64(9)))
	cancelled.Status = domain.StatusCancelled
	unknownGroomer := booking(2, time.Date(2026, 10, 18, 10, 0, 0, 0, ist), ptr.Ptr(int64(404)))

	f := newFixture(cancelled, unknownGroomer)

	report, err := f.scheduler.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Bookings)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []string{customerPhone}, f.gateway.phones())
}

func TestRun_LockHeldSkipsRun(t *testing.T) {
	f := newFixture(booking(1, time.Date(2026, 10, 20, 10, 0, 0, 0, ist), nil))
	f.scheduler.runLock = heldLock{}

	_, err := f.scheduler.Run(context.Background())

	assert.ErrorIs(t, err, ErrAlreadyRunning)
	assert.Empty(t, f.gateway.phones())
}

func TestWithinWindow(t *testing.T) {
	f := newFixture()

	assert.False(t, f.scheduler.withinWindow(time.Date(2026, 10, 15, 7, 59, 0, 0, ist)))
	assert.True(t, f.scheduler.withinWindow(time.Date(2026, 10, 15, 8, 0, 0, 0, ist)))
	assert.True(t, f.scheduler.withinWindow(time.Date(2026, 10, 15, 20, 59, 0, 0, ist)))
	assert.False(t, f.scheduler.withinWindow(time.Date(2026, 10, 15, 21, 0, 0, 0, ist)))
	// 02:30 UTC = 08:00 IST
	assert.True(t, f.scheduler.withinWindow(time.Date(2026, 10, 15, 2, 30, 0, 0, time.UTC)))
}

func TestRenderMessage(t *testing.T) {
	b := booking(1, time.Date(2026, 10, 20, 10, 0, 0, 0, ist), nil)

	msg := renderMessage(b, domain.Recipient{Role: domain.RoleCustomer, Name: "Asha"}, 5, ist)
	assert.Equal(t, "Hi Asha, your pet's Full groom appointment (order GRM-20261015-00000001) is on Tue, 20 Oct 2026 at 10:00.", msg)

	msg = renderMessage(b, domain.Recipient{Role: domain.RoleGroomer}, 0, ist)
	assert.Equal(t, "Hi, you have a grooming visit (order GRM-20261015-00000001, Full groom) today at 10:00.", msg)
}

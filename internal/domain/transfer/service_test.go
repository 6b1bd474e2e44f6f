package transfer_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/dashlog/internal/codec"
	"github.com/rpggio/dashlog/internal/domain/activity"
	"github.com/rpggio/dashlog/internal/domain/session"
	"github.com/rpggio/dashlog/internal/domain/transfer"
	"github.com/rpggio/dashlog/internal/domain/week"
	"github.com/rpggio/dashlog/internal/domain/zone"
	"github.com/rpggio/dashlog/internal/sqlite"
	"github.com/rpggio/dashlog/internal/webhook"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stack struct {
	zones    *zone.Service
	sessions *session.Service
	activity *sqlite.ActivityRepository
	transfer *transfer.Service
}

func newStack(t *testing.T, sender transfer.Sender) *stack {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	zoneRepo := sqlite.NewZoneRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	cal := week.NewCalendar(week.MondayStart, time.UTC)

	zones := zone.NewService(zoneRepo, activityRepo, nil)
	sessions := session.NewService(sqlite.NewSessionRepository(db), zoneRepo, activityRepo, cal, nil)
	svc := transfer.NewService(zones, sessions, sender, activityRepo, nil).
		WithClock(func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) })

	return &stack{zones: zones, sessions: sessions, activity: activityRepo, transfer: svc}
}

func (s *stack) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	plano, err := s.zones.Create(ctx, "Plano")
	require.NoError(t, err)
	allen, err := s.zones.Create(ctx, "Allen")
	require.NoError(t, err)
	_, err = s.zones.Deactivate(ctx, allen.ID)
	require.NoError(t, err)

	start := time.Date(2024, 3, 4, 17, 0, 0, 0, time.UTC)
	_, err = s.sessions.Create(ctx, session.CreateRequest{Fields: session.Fields{
		ZoneID: plano.ID, TimeBlock: session.BlockDinner,
		StartTime: start, EndTime: start.Add(150 * time.Minute),
		Profit: 61.5, StartMiles: 1200.4, EndMiles: 1241.9,
		Orders: 7, DashMinutes: 150, ActiveMinutes: 120,
	}})
	require.NoError(t, err)

	late := time.Date(2024, 3, 2, 22, 0, 0, 0, time.UTC)
	_, err = s.sessions.Create(ctx, session.CreateRequest{Force: true, Fields: session.Fields{
		ZoneID: allen.ID, TimeBlock: "Late, \"late\" night",
		StartTime: late, EndTime: time.Date(2024, 3, 2, 0, 30, 0, 0, time.UTC),
		Profit: 50, StartMiles: 10, EndMiles: 0,
		Orders: 2, DashMinutes: 30, ActiveMinutes: 45,
	}})
	require.NoError(t, err)
}

type observable struct {
	zone, block                  string
	start, end                   time.Time
	profit, startMiles, endMiles float64
	orders, dash, active         int
}

func snapshot(t *testing.T, s *stack) []observable {
	t.Helper()
	ctx := context.Background()

	zones, err := s.zones.List(ctx, false)
	require.NoError(t, err)
	names := map[int64]string{}
	for _, z := range zones {
		names[z.ID] = z.Name
	}

	all, err := s.sessions.ListAll(ctx)
	require.NoError(t, err)
	out := make([]observable, 0, len(all))
	for _, sess := range all {
		out = append(out, observable{
			zone: names[sess.ZoneID], block: sess.TimeBlock,
			start: sess.StartTime.UTC().Truncate(time.Second), end: sess.EndTime.UTC().Truncate(time.Second),
			profit: sess.Profit, startMiles: sess.StartMiles, endMiles: sess.EndMiles,
			orders: sess.Orders, dash: sess.DashMinutes, active: sess.ActiveMinutes,
		})
	}
	return out
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []codec.Format{codec.FormatCSV, codec.FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			ctx := context.Background()
			src := newStack(t, nil)
			src.seed(t)

			payload, err := src.transfer.Export(ctx, format)
			require.NoError(t, err)
			require.Equal(t, "dash-log-sessions-2024-03-10."+string(format), payload.Filename)
			require.Equal(t, format.ContentType(), payload.ContentType)
			require.Equal(t, 2, payload.SessionCount)

			dst := newStack(t, nil)
			result, err := dst.transfer.Import(ctx, format, bytes.NewReader(payload.Body))
			require.NoError(t, err)
			require.NotEmpty(t, result.BatchID)
			require.Equal(t, 2, result.ZonesCreated)
			require.Equal(t, 2, result.SessionsInserted)

			require.Equal(t, snapshot(t, src), snapshot(t, dst))

			zones, err := dst.zones.List(ctx, false)
			require.NoError(t, err)
			for _, z := range zones {
				require.True(t, z.Active, "zone %s should be active after import", z.Name)
			}

			imported, err := dst.sessions.ListAll(ctx)
			require.NoError(t, err)
			for _, sess := range imported {
				require.True(t, dst.sessions.Calendar().Start(sess.StartTime).Equal(sess.WeekStart))
			}
		})
	}
}

func TestImport_Additive(t *testing.T) {
	ctx := context.Background()
	s := newStack(t, nil)
	s.seed(t)

	payload, err := s.transfer.Export(ctx, codec.FormatJSON)
	require.NoError(t, err)

	result, err := s.transfer.Import(ctx, codec.FormatJSON, bytes.NewReader(payload.Body))
	require.NoError(t, err)
	require.Zero(t, result.ZonesCreated)
	require.Equal(t, 1, result.ZonesReactivated)
	require.Equal(t, 2, result.SessionsInserted)

	all, err := s.sessions.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)

	typ := activity.TypeImportCompleted
	entries, err := s.activity.List(ctx, activity.ListActivityOptions{ActivityType: &typ})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Contains(t, entries[0].Details, result.BatchID)
}

func TestImport_MissingProfitColumnInsertsNothing(t *testing.T) {
	ctx := context.Background()
	s := newStack(t, nil)

	input := "zone,time_block,start_time,end_time,start_miles,end_miles,orders,dash_minutes,active_minutes\n" +
		"Frisco,Lunch,2024-01-01T11:00:00Z,2024-01-01T13:00:00Z,1,2,3,120,100\n"

	_, err := s.transfer.Import(ctx, codec.FormatCSV, strings.NewReader(input))
	require.ErrorIs(t, err, codec.ErrFormat)

	all, err := s.sessions.ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)

	zones, err := s.zones.List(ctx, false)
	require.NoError(t, err)
	require.Empty(t, zones)
}

func TestImport_BadLineInsertsNothing(t *testing.T) {
	ctx := context.Background()
	s := newStack(t, nil)

	input := strings.Join(codec.RequiredCSVColumns, ",") + "\n" +
		"Frisco,Lunch,2024-01-01T11:00:00Z,2024-01-01T13:00:00Z,10,1,2,3,120,100\n" +
		"Frisco,Lunch,2024-01-02T11:00:00Z,not-a-time,10,1,2,3,120,100\n"

	_, err := s.transfer.Import(ctx, codec.FormatCSV, strings.NewReader(input))
	require.ErrorIs(t, err, codec.ErrFormat)

	all, err := s.sessions.ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestImport_BlankEnvelopeZoneWritesNothing(t *testing.T) {
	ctx := context.Background()
	s := newStack(t, nil)

	input := `{"app":"dashlog","version":1,"zones":[{"name":"Frisco"},{"name":"   "}],"sessions":[]}`

	_, err := s.transfer.Import(ctx, codec.FormatJSON, strings.NewReader(input))
	require.ErrorIs(t, err, codec.ErrFormat)

	zones, err := s.zones.List(ctx, false)
	require.NoError(t, err)
	require.Empty(t, zones)
}

func TestExport_UnknownZone(t *testing.T) {
	ctx := context.Background()
	s := newStack(t, nil)

	start := time.Date(2024, 3, 4, 11, 0, 0, 0, time.UTC)
	_, err := s.sessions.Insert(ctx, session.Fields{
		ZoneID: 999, TimeBlock: session.BlockLunch,
		StartTime: start, EndTime: start.Add(time.Hour),
	})
	require.NoError(t, err)

	payload, err := s.transfer.Export(ctx, codec.FormatCSV)
	require.NoError(t, err)
	require.Contains(t, string(payload.Body), ",Unknown,Lunch,")
}

type senderMock struct {
	mock.Mock
}

func (m *senderMock) Send(ctx context.Context, url, contentType string, body []byte) (*webhook.Result, error) {
	args := m.Called(ctx, url, contentType, body)
	if r, ok := args.Get(0).(*webhook.Result); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestSend(t *testing.T) {
	ctx := context.Background()
	sender := &senderMock{}
	s := newStack(t, sender)
	s.seed(t)

	payload, err := s.transfer.Export(ctx, codec.FormatCSV)
	require.NoError(t, err)

	sender.On("Send", ctx, "https://example.test/hook", "text/csv", payload.Body).
		Return(&webhook.Result{Status: 200, Body: "ok"}, nil).Once()
	res, err := s.transfer.Send(ctx, payload, "https://example.test/hook")
	require.NoError(t, err)
	require.Equal(t, "ok", res.Body)

	sender.On("Send", ctx, "https://example.test/down", "text/csv", payload.Body).
		Return(nil, &webhook.Error{Status: 500, Body: "boom"}).Once()
	_, err = s.transfer.Send(ctx, payload, "https://example.test/down")
	require.ErrorIs(t, err, webhook.ErrTransport)

	typ := activity.TypeExportSent
	entries, err := s.activity.List(ctx, activity.ListActivityOptions{ActivityType: &typ})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	sender.AssertExpectations(t)
}

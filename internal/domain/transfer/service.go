package transfer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/dashlog/internal/codec"
	"github.com/rpggio/dashlog/internal/domain/activity"
	"github.com/rpggio/dashlog/internal/domain/zone"
	"github.com/rpggio/dashlog/internal/webhook"
)

// Service moves sessions in and out of the store as portable files.
type Service struct {
	zones        ZoneService
	sessions     SessionService
	sender       Sender
	activityRepo ActivityRepository
	logger       *slog.Logger
	now          func() time.Time
}

// NewService creates a new transfer service. sender may be nil when
// webhooks are not used.
func NewService(zones ZoneService, sessions SessionService, sender Sender, activityRepo ActivityRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		zones:        zones,
		sessions:     sessions,
		sender:       sender,
		activityRepo: activityRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// WithClock overrides the clock used for export timestamps and filenames.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Filename returns the export file name for the given format and time.
func Filename(format codec.Format, t time.Time) string {
	return fmt.Sprintf("dash-log-sessions-%s.%s", t.UTC().Format("2006-01-02"), format)
}

// Export encodes every session, newest first, in the given format.
func (s *Service) Export(ctx context.Context, format codec.Format) (*Payload, error) {
	zones, err := s.zones.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("listing zones: %w", err)
	}
	sessions, err := s.sessions.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	names := make(map[int64]string, len(zones))
	records := make([]codec.ZoneRecord, 0, len(zones))
	for _, z := range zones {
		names[z.ID] = z.Name
		records = append(records, codec.ZoneRecord{Name: z.Name, Active: z.Active})
	}

	rows := make([]codec.Row, 0, len(sessions))
	for _, sess := range sessions {
		rows = append(rows, codec.Row{Session: sess, ZoneName: names[sess.ZoneID]})
	}

	now := s.now()
	var buf bytes.Buffer
	switch format {
	case codec.FormatCSV:
		err = codec.WriteCSV(&buf, rows)
	case codec.FormatJSON:
		err = codec.WriteJSON(&buf, records, rows, now)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s export: %w", format, err)
	}

	s.logger.Info("sessions exported", "format", format, "count", len(rows))
	return &Payload{
		Format:       format,
		Filename:     Filename(format, now),
		ContentType:  format.ContentType(),
		Body:         buf.Bytes(),
		SessionCount: len(rows),
	}, nil
}

// Import decodes r and adds its sessions to the store. The whole file is
// validated before the first write; a format error leaves the store untouched.
func (s *Service) Import(ctx context.Context, format codec.Format, r io.Reader) (*ImportResult, error) {
	im, err := codec.Decode(format, r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{BatchID: uuid.NewString()}
	ids := make(map[string]int64)
	for _, name := range im.ZoneNames() {
		z, outcome, err := s.zones.Ensure(ctx, name)
		if err != nil {
			return result, fmt.Errorf("ensuring zone %q: %w", name, err)
		}
		switch outcome {
		case zone.OutcomeCreated:
			result.ZonesCreated++
		case zone.OutcomeReactivated:
			result.ZonesReactivated++
		}
		ids[zoneKey(name)] = z.ID
	}

	for _, rec := range im.Sessions {
		f := rec.Fields
		f.ZoneID = ids[zoneKey(rec.ZoneName)]
		if _, err := s.sessions.Insert(ctx, f); err != nil {
			return result, fmt.Errorf("inserting session: %w", err)
		}
		result.SessionsInserted++
	}

	s.logger.Info("sessions imported",
		"batch", result.BatchID,
		"format", format,
		"sessions", result.SessionsInserted,
		"zones_created", result.ZonesCreated,
	)
	s.record(ctx, activity.TypeImportCompleted,
		fmt.Sprintf("imported %d sessions from %s", result.SessionsInserted, format), result)
	return result, nil
}

// Send posts a payload to a webhook URL.
func (s *Service) Send(ctx context.Context, p *Payload, url string) (*webhook.Result, error) {
	if s.sender == nil {
		return nil, webhook.ErrNoURL
	}
	res, err := s.sender.Send(ctx, url, p.ContentType, p.Body)
	if err != nil {
		return nil, err
	}
	s.record(ctx, activity.TypeExportSent,
		fmt.Sprintf("sent %s export (%d sessions)", p.Format, p.SessionCount),
		map[string]any{"filename": p.Filename, "status": res.Status})
	return res, nil
}

func zoneKey(name string) string {
	return strings.ToLower(zone.NormalizeName(name))
}

func (s *Service) record(ctx context.Context, typ activity.ActivityType, summary string, details any) {
	if s.activityRepo == nil {
		return
	}
	entry := &activity.ActivityEntry{
		ActivityType: typ,
		Summary:      summary,
		Details:      activity.Details(details),
		CreatedAt:    s.now(),
	}
	if err := s.activityRepo.Log(ctx, entry); err != nil {
		s.logger.Error("failed to log transfer activity", "type", typ, "error", err)
	}
}

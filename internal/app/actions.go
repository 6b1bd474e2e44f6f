package app

import (
	"github.com/rpggio/dashlog/internal/domain/preference"
	"github.com/rpggio/dashlog/internal/domain/session"
)

// Action is a discrete user command handled by Controller.Dispatch.
type Action interface {
	actionName() string
}

// LogSession stores a new session. Force confirms its warnings.
type LogSession struct {
	Fields session.Fields
	Force  bool
}

// UpdateSession replaces a stored session and ends edit mode.
type UpdateSession struct {
	ID     int64
	Fields session.Fields
	Force  bool
}

// DeleteSession removes a session.
type DeleteSession struct {
	ID int64
}

// BeginEdit loads a session into edit mode.
type BeginEdit struct {
	ID int64
}

// CancelEdit leaves edit mode without writing.
type CancelEdit struct{}

// ShiftWeek moves the active week by Weeks (negative is earlier).
type ShiftWeek struct {
	Weeks int
}

// CurrentWeek returns to the week containing now.
type CurrentWeek struct{}

// AddZone creates a zone.
type AddZone struct {
	Name string
}

// DeactivateZone soft-deletes a zone.
type DeactivateZone struct {
	ID int64
}

// ReactivateZone restores a soft-deleted zone.
type ReactivateZone struct {
	ID int64
}

// SaveDraft stores the in-progress session.
type SaveDraft struct {
	Draft preference.Draft
}

// ClearDraft discards the in-progress session.
type ClearDraft struct{}

// Refresh reloads state without changing anything.
type Refresh struct{}

func (LogSession) actionName() string     { return "log_session" }
func (UpdateSession) actionName() string  { return "update_session" }
func (DeleteSession) actionName() string  { return "delete_session" }
func (BeginEdit) actionName() string      { return "begin_edit" }
func (CancelEdit) actionName() string     { return "cancel_edit" }
func (ShiftWeek) actionName() string      { return "shift_week" }
func (CurrentWeek) actionName() string    { return "current_week" }
func (AddZone) actionName() string        { return "add_zone" }
func (DeactivateZone) actionName() string { return "deactivate_zone" }
func (ReactivateZone) actionName() string { return "reactivate_zone" }
func (SaveDraft) actionName() string      { return "save_draft" }
func (ClearDraft) actionName() string     { return "clear_draft" }
func (Refresh) actionName() string        { return "refresh" }

package transfer

import "github.com/rpggio/dashlog/internal/codec"

// Payload is an encoded export ready to be saved or sent.
type Payload struct {
	Format       codec.Format `json:"format"`
	Filename     string       `json:"filename"`
	ContentType  string       `json:"content_type"`
	Body         []byte       `json:"-"`
	SessionCount int          `json:"session_count"`
}

// ImportResult summarizes one import batch.
type ImportResult struct {
	BatchID          string `json:"batch_id"`
	ZonesCreated     int    `json:"zones_created"`
	ZonesReactivated int    `json:"zones_reactivated"`
	SessionsInserted int    `json:"sessions_inserted"`
}

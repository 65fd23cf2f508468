package entity

import "time"

// RenderedDocument holds the stored PDF bytes of an invoice. At most one row
// exists per invoice; regeneration overwrites the bytes in place.
type RenderedDocument struct {
	ID        string
	InvoiceID string
	Data      []byte
	FileName  string
	ByteSize  int
	CreatedAt time.Time
}

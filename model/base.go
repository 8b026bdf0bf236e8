package model

import "time"

// Base holds the attributes shared by every persisted record. ID, CreatedAt
// and UpdatedAt are assigned by the repository, never by callers.
type Base struct {
	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Active    bool      `bun:"activo,notnull" json:"active"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// GetID returns the storage identifier, zero before the first save.
func (b Base) GetID() int64 { return b.ID }

// SetID records the identifier assigned by storage.
func (b *Base) SetID(id int64) { b.ID = id }

// StampCreated marks a new record active and sets both timestamps.
func (b *Base) StampCreated(now time.Time) {
	b.Active = true
	b.CreatedAt = now
	b.UpdatedAt = now
}

// StampUpdated refreshes the last-update timestamp.
func (b *Base) StampUpdated(now time.Time) {
	b.UpdatedAt = now
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

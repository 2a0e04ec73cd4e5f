package models

import "github.com/google/uuid"

// ensureID assigns a fresh UUID when the caller left the key empty. Postgres
// falls back to gen_random_uuid() but SQLite has no equivalent default.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

package model

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Session is one signed-in browser. The Eventbrite token lives in this
// row only; the browser holds nothing but a signed cookie wrapping the
// secret.
type Session struct {
	bun.BaseModel `bun:"table:sessions"`

	Secret         string `bun:"secret,pk,notnull"`
	ApiToken       string `bun:"api_token,notnull"`
	UserID         string `bun:"user_id,notnull"`
	UserName       string `bun:"user_name"`
	OrganizationID string `bun:"organization_id,notnull"`
	CreatedAt      int64  `bun:"created_at,notnull"`
}

// Expired reports whether the session outlived its time to live.
func (s *Session) Expired(ttl time.Duration) bool {
	return time.Now().UTC().Unix() > s.CreatedAt+int64(ttl.Seconds())
}

// Upsert writes the session row, replacing an earlier one with the same
// secret.
func (s *Session) Upsert(ctx context.Context, db bun.IDB) error {
	if s.Secret == "" {
		return fmt.Errorf("(*Session).Upsert: secret is blank")
	}
	if s.ApiToken == "" {
		return fmt.Errorf("(*Session).Upsert: api token is blank")
	}
	if _, err := db.NewInsert().
		Model(s).
		On("CONFLICT (secret) DO UPDATE").
		Set("api_token = EXCLUDED.api_token").
		Set("user_id = EXCLUDED.user_id").
		Set("user_name = EXCLUDED.user_name").
		Set("organization_id = EXCLUDED.organization_id").
		Set("created_at = EXCLUDED.created_at").
		Exec(ctx); err != nil {
		return fmt.Errorf("(*Session).Upsert: %w", err)
	}
	return nil
}

package model_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"dojoreport/src-server/model"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func TestSession(t *testing.T) {
	// init db
	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Error(err)
	}
	bundb := bun.NewDB(db, sqlitedialect.New())
	if err := model.CreateSchema(bundb); err != nil {
		t.Error(err)
	}

	sessionModel := model.Session{
		Secret:         uuid.NewString(),
		ApiToken:       "EVENTBRITETOKEN",
		UserID:         "9001",
		UserName:       "Dojo Admin",
		OrganizationID: "53624399466",
		CreatedAt:      time.Now().UTC().Unix(),
	}
	if err := sessionModel.Upsert(context.Background(), bundb); err != nil {
		t.Error(err)
	}

	// case: session round-trips by secret
	func() {
		found := new(model.Session)
		if err := bundb.NewSelect().
			Model(found).
			Where("secret = ?", sessionModel.Secret).
			Scan(context.Background()); err != nil {
			t.Error(err)
		}
		if found.ApiToken != sessionModel.ApiToken {
			t.Error("api token not round-tripped")
		}
		if found.OrganizationID != sessionModel.OrganizationID {
			t.Error("organization id not round-tripped")
		}
	}()

	// case: upsert with the same secret replaces the token
	func() {
		sessionModel.ApiToken = "ROTATEDTOKEN"
		if err := sessionModel.Upsert(context.Background(), bundb); err != nil {
			t.Error(err)
		}
		count, err := bundb.NewSelect().
			Model((*model.Session)(nil)).
			Count(context.Background())
		if err != nil {
			t.Error(err)
		}
		if count != 1 {
			t.Error("expected a single session row, got", count)
		}
		found := new(model.Session)
		if err := bundb.NewSelect().
			Model(found).
			Where("secret = ?", sessionModel.Secret).
			Scan(context.Background()); err != nil {
			t.Error(err)
		}
		if found.ApiToken != "ROTATEDTOKEN" {
			t.Error("upsert did not replace the token")
		}
	}()

	// case: expiry is driven by created_at and the ttl
	func() {
		fresh := model.Session{CreatedAt: time.Now().UTC().Unix()}
		if fresh.Expired(time.Hour) {
			t.Error("fresh session should not be expired")
		}
		stale := model.Session{CreatedAt: time.Now().UTC().Add(-2 * time.Hour).Unix()}
		if !stale.Expired(time.Hour) {
			t.Error("stale session should be expired")
		}
	}()

	// case: blank secret and token are rejected
	func() {
		bad := model.Session{ApiToken: "x"}
		if err := bad.Upsert(context.Background(), bundb); err == nil {
			t.Error("expected an error for a blank secret")
		}
		bad = model.Session{Secret: uuid.NewString()}
		if err := bad.Upsert(context.Background(), bundb); err == nil {
			t.Error("expected an error for a blank api token")
		}
	}()
}

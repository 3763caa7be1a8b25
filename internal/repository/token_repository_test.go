package repository

import (
	"database/sql"
	"testing"
	"time"
)

func TestRefreshUsable(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	revoked := sql.NullTime{Time: now.Add(-time.Hour), Valid: true}
	live := sql.NullTime{}

	cases := []struct {
		name      string
		expiresAt time.Time
		revokedAt sql.NullTime
		want      bool
	}{
		{"active", now.Add(24 * time.Hour), live, true},
		{"expired", now.Add(-time.Minute), live, false},
		{"expiring exactly now", now, live, false},
		{"revoked", now.Add(24 * time.Hour), revoked, false},
		{"revoked and expired", now.Add(-time.Minute), revoked, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := refreshUsable(tc.expiresAt, tc.revokedAt, now); got != tc.want {
				t.Errorf("refreshUsable(%v, revoked=%v) = %v, want %v",
					tc.expiresAt, tc.revokedAt.Valid, got, tc.want)
			}
		})
	}
}

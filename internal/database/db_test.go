package database

import "testing"

func TestDSN(t *testing.T) {
	got := dsn("app", "hunter2", "db.local", "3306", "enlistment")
	want := "app:hunter2@tcp(db.local:3306)/enlistment?charset=utf8mb4&parseTime=true&loc=UTC"
	if got != want {
		t.Errorf("dsn = %q, want %q", got, want)
	}
}

func TestDSN_EmptyPasswordOmitsColon(t *testing.T) {
	got := dsn("app", "", "127.0.0.1", "3306", "enlistment")
	want := "app@tcp(127.0.0.1:3306)/enlistment?charset=utf8mb4&parseTime=true&loc=UTC"
	if got != want {
		t.Errorf("dsn = %q, want %q", got, want)
	}
}

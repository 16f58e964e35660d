package database

import (
	"context"
	"testing"
)

func TestConnect_RejectsBadDSN(t *testing.T) {
	if _, err := Connect(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty dsn")
	}

	if _, err := Connect(context.Background(), "not a dsn"); err == nil {
		t.Fatal("expected error for malformed dsn")
	}
}

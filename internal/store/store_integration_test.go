//go:build integration

package store

import (
	"context"
	"os"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	if err := s.SeedProducts(ctx); err != nil {
		t.Fatalf("SeedProducts failed: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func TestIntegration_ExecuteRead(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	res := s.Execute(ctx, "SELECT name, price, color FROM products WHERE category='jackets' AND color='blue'")
	if !res.Success {
		t.Fatalf("read failed: %s", res.Error)
	}
	if len(res.Rows) == 0 {
		t.Fatal("expected seeded blue jackets")
	}
	for _, row := range res.Rows {
		if _, ok := row["name"]; !ok {
			t.Errorf("row missing name column: %v", row)
		}
		if row["color"] != "blue" {
			t.Errorf("expected blue rows, got %v", row["color"])
		}
	}
}

func TestIntegration_ExecuteWriteAndReadBack(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	ins := s.Execute(ctx, "INSERT INTO cart (user_id, product_id, quantity, size) VALUES (9907, 1, 2, 'M')")
	if !ins.Success {
		t.Fatalf("insert failed: %s", ins.Error)
	}
	if ins.RowsAffected != 1 {
		t.Errorf("expected 1 row affected, got %d", ins.RowsAffected)
	}

	ret := s.Execute(ctx, "INSERT INTO cart (user_id, product_id, quantity) VALUES (9907, 2, 1) RETURNING id")
	if !ret.Success {
		t.Fatalf("insert returning failed: %s", ret.Error)
	}
	if ret.LastID == 0 {
		t.Error("expected returned id")
	}

	read := s.Execute(ctx, "SELECT * FROM cart WHERE user_id = 9907")
	if !read.Success {
		t.Fatalf("read back failed: %s", read.Error)
	}
	if len(read.Rows) != 2 {
		t.Errorf("expected 2 cart rows, got %d", len(read.Rows))
	}

	s.Execute(ctx, "DELETE FROM cart WHERE user_id = 9907")
}

func TestIntegration_ExecuteFailureIsResult(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	res := s.Execute(ctx, "SELECT * FROM no_such_table")
	if res.Success {
		t.Fatal("expected failure for missing table")
	}
	if res.Error == "" {
		t.Error("failure must carry a description")
	}
}

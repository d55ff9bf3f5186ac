package snowflake

import (
	"testing"
)

func TestNewGenerator(t *testing.T) {
	g, err := NewGenerator(1)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}
	if g == nil {
		t.Fatal("NewGenerator returned nil")
	}
}

func TestNewGenerator_InvalidWorkerID(t *testing.T) {
	if _, err := NewGenerator(-1); err != ErrInvalidWorkerID {
		t.Errorf("Expected ErrInvalidWorkerID, got %v", err)
	}
	if _, err := NewGenerator(maxWorkerID + 1); err != ErrInvalidWorkerID {
		t.Errorf("Expected ErrInvalidWorkerID, got %v", err)
	}
}

func TestNextID_Monotonic(t *testing.T) {
	g, err := NewGenerator(1)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	var prev int64
	for i := range 10000 {
		id, err := g.NextID()
		if err != nil {
			t.Fatalf("NextID failed at iteration %d: %v", i, err)
		}
		if id <= prev {
			t.Fatalf("IDs not strictly increasing: %d after %d", id, prev)
		}
		prev = id
	}
}

func TestIDComponents(t *testing.T) {
	g, err := NewGenerator(42)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	id, err := g.NextID()
	if err != nil {
		t.Fatalf("NextID failed: %v", err)
	}

	if got := GetWorkerID(id); got != 42 {
		t.Errorf("Expected worker ID 42, got %d", got)
	}
	if ts := GetTimestamp(id); ts < Epoch {
		t.Errorf("Timestamp %d is before the epoch", ts)
	}
	if seq := GetSequence(id); seq < 0 || seq > sequenceMask {
		t.Errorf("Sequence %d out of range", seq)
	}
}

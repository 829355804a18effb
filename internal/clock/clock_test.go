package clock

import (
	"testing"
	"time"
)

func TestManual(t *testing.T) {
	start := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	c := NewManual(start)
	if got := c.Now(); !got.Equal(start) {
		t.Fatalf("Now() = %v; want %v", got, start)
	}

	c.Add(90 * time.Second)
	if got, want := c.Now(), start.Add(90*time.Second); !got.Equal(want) {
		t.Fatalf("after Add: Now() = %v; want %v", got, want)
	}

	later := start.Add(24 * time.Hour)
	c.Set(later)
	if got := c.Now(); !got.Equal(later) {
		t.Fatalf("after Set: Now() = %v; want %v", got, later)
	}
}

func TestSystem_IsUTC(t *testing.T) {
	before := time.Now().Add(-time.Second)
	got := System{}.Now()
	if got.Location() != time.UTC {
		t.Fatalf("location = %v; want UTC", got.Location())
	}
	if !got.After(before) {
		t.Fatalf("Now() = %v is before %v", got, before)
	}
}

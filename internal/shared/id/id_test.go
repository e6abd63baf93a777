package id

import (
	"bytes"
	"sync"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	gen := NewGenerator()

	id1 := gen.Generate()
	id2 := gen.Generate()

	if id1.String() == id2.String() {
		t.Error("Generated IDs should be unique")
	}
	if len(gen.GenerateString()) != 26 {
		t.Error("ULID should be 26 characters")
	}
}

func TestDeterministicEntropy(t *testing.T) {
	gen := NewGeneratorWithEntropy(bytes.NewReader(make([]byte, 64)))
	id := gen.GenerateString()
	if !IsValid(id) {
		t.Fatalf("expected valid ULID, got %s", id)
	}
}

func TestTypedIDs(t *testing.T) {
	for _, s := range []string{NewTraceID().String(), NewSpanID().String(), NewNonce().String()} {
		if !IsValid(s) {
			t.Errorf("expected valid ULID, got %q", s)
		}
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{NewGenerator().GenerateString(), true},
		{"", false},
		{"not-a-ulid", false},
		{"01ARZ3NDEKTSV4RRFFQ69G5FA", false},
	}
	for _, tt := range tests {
		if got := IsValid(tt.id); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestTimestamp(t *testing.T) {
	before := time.Now().Add(-time.Second)
	ts, err := Timestamp(NewTraceID().String())
	if err != nil {
		t.Fatal(err)
	}
	if ts.Before(before) || ts.After(time.Now().Add(time.Second)) {
		t.Errorf("timestamp %v out of range", ts)
	}

	if _, err := Timestamp("bogus"); err == nil {
		t.Error("expected error for invalid id")
	}
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()
	const n = 100

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[string]bool, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := gen.GenerateString()
			mu.Lock()
			seen[s] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != n {
		t.Errorf("expected %d unique IDs, got %d", n, len(seen))
	}
}

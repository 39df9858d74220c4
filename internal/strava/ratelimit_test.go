package strava

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestParsePair(t *testing.T) {
	tests := []struct {
		in    string
		short int
		daily int
		ok    bool
	}{
		{"34,512", 34, 512, true},
		{" 34 , 512 ", 34, 512, true},
		{"0,0", 0, 0, true},
		{"", 0, 0, false},
		{"34", 0, 0, false},
		{"a,b", 0, 0, false},
	}

	for _, tt := range tests {
		short, daily, ok := parsePair(tt.in)
		if short != tt.short || daily != tt.daily || ok != tt.ok {
			t.Errorf("parsePair(%q) = %d, %d, %v, want %d, %d, %v",
				tt.in, short, daily, ok, tt.short, tt.daily, tt.ok)
		}
	}
}

func TestUpdateFromHeaders(t *testing.T) {
	r := NewRateLimiter()

	h := http.Header{}
	h.Set("X-RateLimit-Usage", "42,300")
	h.Set("X-RateLimit-Limit", "200,2000")
	r.UpdateFromHeaders(h)

	short, daily := r.Status()
	if short != 158 {
		t.Errorf("short remaining = %d, want 158", short)
	}
	if daily != 1700 {
		t.Errorf("daily remaining = %d, want 1700", daily)
	}
}

func TestUpdateFromHeadersIgnoresMissing(t *testing.T) {
	r := NewRateLimiter()
	before1, before2 := r.Status()

	r.UpdateFromHeaders(http.Header{})

	after1, after2 := r.Status()
	if before1 != after1 || before2 != after2 {
		t.Error("empty headers changed limiter state")
	}
}

func TestWaitEnforcesMinInterval(t *testing.T) {
	r := NewRateLimiter()
	ctx := context.Background()

	if err := r.Wait(ctx); err != nil {
		t.Fatalf("first Wait: %v", err)
	}
	start := time.Now()
	if err := r.Wait(ctx); err != nil {
		t.Fatalf("second Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("second Wait returned after %v, want at least the min interval", elapsed)
	}
}

func TestWaitCancelled(t *testing.T) {
	r := NewRateLimiter()
	r.shortUsage = r.shortLimit // force a long sleep

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := r.Wait(ctx); err == nil {
		t.Error("Wait with cancelled context should fail")
	}
}

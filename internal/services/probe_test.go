package services

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"
)

func TestNetworkProbe(t *testing.T) {
	t.Run("reachable listener", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("failed to listen: %v", err)
		}
		defer ln.Close()

		if !NewNetworkProbe(ln.Addr().String(), 0).IsNetworkAvailable() {
			t.Error("expected listener to be reachable")
		}
	})

	t.Run("closed port", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("failed to listen: %v", err)
		}
		addr := ln.Addr().String()
		ln.Close()

		if NewNetworkProbe(addr, 0).IsNetworkAvailable() {
			t.Error("expected closed port to be unreachable")
		}
	})

	t.Run("empty address", func(t *testing.T) {
		if !NewNetworkProbe("", time.Minute).IsNetworkAvailable() {
			t.Error("expected empty address to be treated as available")
		}
	})

	t.Run("memoises within interval", func(t *testing.T) {
		now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		dials := 0

		probe := NewNetworkProbe("hymnal.invalid:443", time.Minute)
		probe.now = func() time.Time { return now }
		probe.dial = func(ctx context.Context, network, address string) (net.Conn, error) {
			dials++
			return nil, errors.New("unreachable")
		}

		for range 3 {
			if probe.IsNetworkAvailable() {
				t.Error("expected probe to report unavailable")
			}
		}
		if dials != 1 {
			t.Errorf("expected one dial within the interval, got %d", dials)
		}

		now = now.Add(2 * time.Minute)
		probe.IsNetworkAvailable()
		if dials != 2 {
			t.Errorf("expected a fresh dial after the interval, got %d", dials)
		}
	})

	t.Run("callers do not wait on a slow dial", func(t *testing.T) {
		var (
			mu  sync.Mutex
			now = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		)
		started := make(chan struct{}, 1)
		release := make(chan struct{})
		slow := false

		probe := NewNetworkProbe("hymnal.invalid:443", time.Minute)
		probe.now = func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}
		probe.dial = func(ctx context.Context, network, address string) (net.Conn, error) {
			if slow {
				started <- struct{}{}
				<-release
			}
			return nil, errors.New("unreachable")
		}

		if probe.IsNetworkAvailable() {
			t.Fatal("expected first probe to report unavailable")
		}

		mu.Lock()
		now = now.Add(2 * time.Minute)
		mu.Unlock()
		slow = true

		done := make(chan bool, 1)
		go func() { done <- probe.IsNetworkAvailable() }()
		<-started

		result := make(chan bool, 1)
		go func() { result <- probe.IsNetworkAvailable() }()

		select {
		case got := <-result:
			if got {
				t.Error("expected the previous result while a dial is in flight")
			}
		case <-time.After(time.Second):
			t.Error("expected concurrent caller not to block on the dial")
		}

		close(release)
		if <-done {
			t.Error("expected dialing caller to report unavailable")
		}
	})
}

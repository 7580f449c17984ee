package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockPinger struct {
	err      error
	deadline bool
}

func (m *mockPinger) Ping(ctx context.Context) error {
	_, m.deadline = ctx.Deadline()
	return m.err
}

func TestCheck_Healthy(t *testing.T) {
	p := &mockPinger{}
	r := New(p, "v1.2.3").Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["database"] != CheckOK {
		t.Errorf("expected database %q, got %q", CheckOK, r.Checks["database"])
	}
	if r.Version != "v1.2.3" {
		t.Errorf("Version = %q", r.Version)
	}
	if !p.deadline {
		t.Error("ping should run with a deadline")
	}
}

func TestCheck_StoreDown(t *testing.T) {
	r := New(&mockPinger{err: errors.New("conn refused")}, "dev").Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["database"] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks["database"])
	}
}

func TestCheck_KeepsCallerDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()

	r := New(&mockPinger{err: context.DeadlineExceeded}, "dev").Check(ctx)
	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
}

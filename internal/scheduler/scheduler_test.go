package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newService(t *testing.T) *Service {
	t.Helper()
	svc, err := New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { svc.Stop() })
	return svc
}

func noop(context.Context) (int, error) { return 0, nil }

func TestAddValidation(t *testing.T) {
	svc := newService(t)
	tests := []struct {
		name string
		job  Job
		want error
	}{
		{"unnamed", Job{Name: " ", Interval: time.Minute, Run: noop}, ErrUnnamedJob},
		{"zero interval", Job{Name: "sweep", Run: noop}, ErrBadInterval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Add(tt.job); !errors.Is(err, tt.want) {
				t.Fatalf("Add err = %v, want %v", err, tt.want)
			}
		})
	}

	if err := svc.Add(Job{Name: "sweep", Interval: time.Minute, Run: noop}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := svc.Add(Job{Name: "sweep", Interval: time.Hour, Run: noop}); err == nil {
		t.Fatal("duplicate name should be rejected")
	}
}

func TestRunNow(t *testing.T) {
	svc := newService(t)
	ran := make(chan struct{}, 1)
	err := svc.Add(Job{Name: "session_prune", Interval: time.Hour, Run: func(context.Context) (int, error) {
		select {
		case ran <- struct{}{}:
		default:
		}
		return 3, nil
	}})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	svc.Start()

	if err := svc.RunNow("session_prune"); err != nil {
		t.Fatalf("RunNow: %v", err)
	}
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
	if err := svc.RunNow("missing"); !errors.Is(err, ErrUnknownJob) {
		t.Fatalf("RunNow missing err = %v", err)
	}
}

func TestStopCancelsJobContext(t *testing.T) {
	svc, err := New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := svc.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if svc.ctx.Err() == nil {
		t.Fatal("job context should be cancelled")
	}
	if err := svc.Add(Job{Name: "late", Interval: time.Minute, Run: noop}); !errors.Is(err, ErrStopped) {
		t.Fatalf("Add after Stop err = %v", err)
	}
	if err := svc.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}

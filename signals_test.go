package fieldmap

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/capitan"
)

func TestEmitBindingDerived(_ *testing.T) {
	// Should not panic
	emitBindingDerived(context.Background(), "TestType", 3)
}

func TestEmitMarshalStart(_ *testing.T) {
	emitMarshalStart(context.Background(), "application/json", "TestType")
}

func TestEmitMarshalComplete_Success(_ *testing.T) {
	emitMarshalComplete(context.Background(), "application/json", "TestType", 1024, 100*time.Millisecond, nil)
}

func TestEmitMarshalComplete_Error(_ *testing.T) {
	emitMarshalComplete(context.Background(), "application/json", "TestType", 0, 100*time.Millisecond, errors.New("test error"))
}

func TestEmitUnmarshalStart(_ *testing.T) {
	emitUnmarshalStart(context.Background(), "application/json", "TestType", 512)
}

func TestEmitUnmarshalComplete_Success(_ *testing.T) {
	emitUnmarshalComplete(context.Background(), "application/json", "TestType", 100*time.Millisecond, nil)
}

func TestEmitUnmarshalComplete_Error(_ *testing.T) {
	emitUnmarshalComplete(context.Background(), "application/json", "TestType", 100*time.Millisecond, errors.New("test error"))
}

func TestEmitSnapshotCreated(_ *testing.T) {
	emitSnapshotCreated(context.Background(), "TestType", 2, 1)
}

func TestSignalVariables(t *testing.T) {
	signals := []struct {
		name   string
		signal interface{}
	}{
		{"SignalBindingDerived", SignalBindingDerived},
		{"SignalMarshalStart", SignalMarshalStart},
		{"SignalMarshalComplete", SignalMarshalComplete},
		{"SignalUnmarshalStart", SignalUnmarshalStart},
		{"SignalUnmarshalComplete", SignalUnmarshalComplete},
		{"SignalSnapshotCreated", SignalSnapshotCreated},
	}

	for _, s := range signals {
		if s.signal == nil {
			t.Errorf("%s is nil", s.name)
		}
	}
}

func TestKeyVariables(t *testing.T) {
	keys := []struct {
		name string
		key  interface{}
	}{
		{"KeyContentType", KeyContentType},
		{"KeyTypeName", KeyTypeName},
		{"KeyFieldCount", KeyFieldCount},
		{"KeySize", KeySize},
		{"KeyDuration", KeyDuration},
		{"KeyError", KeyError},
		{"KeyMaskedCount", KeyMaskedCount},
		{"KeyRedactedCount", KeyRedactedCount},
	}

	for _, k := range keys {
		if k.key == nil {
			t.Errorf("%s is nil", k.name)
		}
	}
}

type signalled struct {
	A string `fieldmap:"a"`
	B int    `fieldmap:"b"`
}

func TestBindingDerived_Listener(t *testing.T) {
	var (
		mu     sync.Mutex
		counts []int
	)
	listener := capitan.Hook(SignalBindingDerived, func(_ context.Context, e *capitan.Event) {
		name, _ := KeyTypeName.From(e)
		if name != "fieldmap.signalled" {
			return
		}
		n, ok := KeyFieldCount.From(e)
		if !ok {
			n = -1
		}
		mu.Lock()
		counts = append(counts, n)
		mu.Unlock()
	})

	if _, err := Derive[signalled](); err != nil {
		t.Fatalf("Derive() error: %v", err)
	}
	listener.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(counts) != 1 || counts[0] != 2 {
		t.Errorf("field counts = %v, want [2]", counts)
	}
}

func TestMarshalComplete_ListenerError(t *testing.T) {
	type seen struct {
		contentType string
		err         error
		hasErr      bool
		severity    capitan.Severity
	}
	var (
		mu     sync.Mutex
		events []seen
	)
	listener := capitan.Hook(SignalMarshalComplete, func(_ context.Context, e *capitan.Event) {
		name, _ := KeyTypeName.From(e)
		if name != "ListenerErrorType" {
			return
		}
		ct, _ := KeyContentType.From(e)
		err, ok := KeyError.From(e)
		mu.Lock()
		events = append(events, seen{contentType: ct, err: err, hasErr: ok, severity: e.Severity()})
		mu.Unlock()
	})

	cause := errors.New("codec failed")
	emitMarshalComplete(context.Background(), "application/json", "ListenerErrorType", 0, time.Millisecond, cause)
	emitMarshalComplete(context.Background(), "application/json", "ListenerErrorType", 12, time.Millisecond, nil)
	listener.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	failed, succeeded := events[0], events[1]
	if !failed.hasErr {
		failed, succeeded = events[1], events[0]
	}
	if !failed.hasErr || !errors.Is(failed.err, cause) {
		t.Errorf("error field = %v, want %v", failed.err, cause)
	}
	if failed.severity != capitan.SeverityError {
		t.Errorf("Severity() = %s, want %s", failed.severity, capitan.SeverityError)
	}
	if failed.contentType != "application/json" {
		t.Errorf("content type = %q, want application/json", failed.contentType)
	}
	if succeeded.hasErr {
		t.Error("successful marshal should not carry an error field")
	}
	if succeeded.severity == capitan.SeverityError {
		t.Error("successful marshal should not emit at ERROR severity")
	}
}

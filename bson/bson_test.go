package bson

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zoobzio/fieldmap"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/bson" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/bson")
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	var v any
	err := c.Unmarshal([]byte("invalid bson"), &v)
	if err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}

func TestUnmarshalNormalizesDocuments(t *testing.T) {
	c := New()

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	data, err := bson.Marshal(bson.D{
		{Key: "inner", Value: bson.D{{Key: "n", Value: int32(3)}}},
		{Key: "list", Value: bson.A{"a", "b"}},
		{Key: "at", Value: at},
	})
	if err != nil {
		t.Fatalf("bson.Marshal() error: %v", err)
	}

	var v any
	if err := c.Unmarshal(data, &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("Unmarshal() produced %T, want map[string]any", v)
	}
	if _, ok := m["inner"].(map[string]any); !ok {
		t.Errorf("inner decoded as %T, want map[string]any", m["inner"])
	}
	if _, ok := m["list"].([]any); !ok {
		t.Errorf("list decoded as %T, want []any", m["list"])
	}
	if got, ok := m["at"].(time.Time); !ok || !got.Equal(at) {
		t.Errorf("at decoded as %v (%T), want %v", m["at"], m["at"], at)
	}
}

func TestTranscoderRoundTrip(t *testing.T) {
	ctx := context.Background()
	tc := fieldmap.NewTranscoder(New(), fieldmap.Identity())

	original := fieldmap.MapValue(map[string]fieldmap.Value{
		"id":    fieldmap.IntValue(1 << 40),
		"small": fieldmap.IntValue(3),
		"ratio": fieldmap.DoubleValue(2),
		"name":  fieldmap.StringValue("x"),
		"none":  fieldmap.NullValue(),
		"at":    fieldmap.TimeValue(fieldmap.Time{Seconds: 1700000000, Nanos: 7}),
		"items": fieldmap.ArrayValue(fieldmap.MapValue(map[string]fieldmap.Value{
			"k": fieldmap.BoolValue(true),
		})),
	})

	data, err := tc.Marshal(ctx, original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	restored, err := tc.Unmarshal(ctx, data)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if !restored.Equal(original) {
		t.Errorf("round-trip mismatch:\n got  %v\n want %v", restored, original)
	}
}

func TestMarshalRequiresDocument(t *testing.T) {
	tc := fieldmap.NewTranscoder(New(), fieldmap.Int64())

	_, err := tc.Marshal(context.Background(), 42)
	if !errors.Is(err, fieldmap.ErrMarshal) {
		t.Errorf("Marshal(42) error = %v, want ErrMarshal", err)
	}
}

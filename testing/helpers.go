// Package testing provides fixtures and helpers for fieldmap tests.
package testing

import (
	"testing"

	"github.com/zoobzio/fieldmap"
)

// Sample is a record touching every Value variant.
type Sample struct {
	Null    *string          `fieldmap:"null"`
	Boolean bool             `fieldmap:"boolean"`
	Int     int64            `fieldmap:"int"`
	Float   float64          `fieldmap:"float"`
	String  string           `fieldmap:"string"`
	Array   []string         `fieldmap:"array"`
	Map     map[string]int64 `fieldmap:"map"`
	Time    fieldmap.Time    `fieldmap:"time"`
}

// NewSample returns a populated Sample.
func NewSample() Sample {
	return Sample{
		Boolean: true,
		Int:     1234,
		Float:   56.78,
		String:  "str",
		Array:   []string{"array1", "array2"},
		Map:     map[string]int64{"seconds": 1234, "nanos": 5678},
		Time:    fieldmap.Time{Seconds: 1234, Nanos: 5678},
	}
}

// SampleBinding returns a hand-written binding equivalent to deriving Sample.
func SampleBinding() *fieldmap.Binding[Sample] {
	return fieldmap.MustBind(
		fieldmap.Field("null", func(s *Sample) **string { return &s.Null }, fieldmap.Optional(fieldmap.String())),
		fieldmap.Field("boolean", func(s *Sample) *bool { return &s.Boolean }, fieldmap.Bool()),
		fieldmap.Field("int", func(s *Sample) *int64 { return &s.Int }, fieldmap.Int64()),
		fieldmap.Field("float", func(s *Sample) *float64 { return &s.Float }, fieldmap.Float64()),
		fieldmap.Field("string", func(s *Sample) *string { return &s.String }, fieldmap.String()),
		fieldmap.Field("array", func(s *Sample) *[]string { return &s.Array }, fieldmap.Slice(fieldmap.String())),
		fieldmap.Field("map", func(s *Sample) *map[string]int64 { return &s.Map }, fieldmap.StringMap(fieldmap.Int64())),
		fieldmap.Field("time", func(s *Sample) *fieldmap.Time { return &s.Time }, fieldmap.TimeComposite()),
	)
}

// Measurement holds doubles at both widths.
type Measurement struct {
	Wide   float64 `fieldmap:"wide"`
	Narrow float32 `fieldmap:"narrow"`
}

// MeasurementBinding returns a hand-written binding equivalent to deriving Measurement.
func MeasurementBinding() *fieldmap.Binding[Measurement] {
	return fieldmap.MustBind(
		fieldmap.Field("wide", func(m *Measurement) *float64 { return &m.Wide }, fieldmap.Float64()),
		fieldmap.Field("narrow", func(m *Measurement) *float32 { return &m.Narrow }, fieldmap.Float32()),
	)
}

// Account is a record with masking and redaction tags.
type Account struct {
	ID       int64    `fieldmap:"id"`
	Email    string   `fieldmap:"email" mask:"email"`
	Password string   `fieldmap:"password" redact:"***"`
	SSN      string   `fieldmap:"ssn" mask:"ssn"`
	Phones   []string `fieldmap:"phones" mask:"phone"`
	Owner    *Person  `fieldmap:"owner"`
}

// Person is nested inside Account.
type Person struct {
	Name string `fieldmap:"name" mask:"name"`
	Age  uint8  `fieldmap:"age"`
}

// NewAccount returns a populated Account.
func NewAccount() Account {
	return Account{
		ID:       42,
		Email:    "alice@example.com",
		Password: "hunter2",
		SSN:      "123-45-6789",
		Phones:   []string{"(555) 123-4567"},
		Owner:    &Person{Name: "Alice Smith", Age: 30},
	}
}

// RoundTrip encodes v with c, decodes the result and fails tb on error.
func RoundTrip[T any](tb testing.TB, c fieldmap.Converter[T], v T) T {
	tb.Helper()
	out, err := c.Decode(c.Encode(v))
	if err != nil {
		tb.Fatalf("round-trip decode error: %v", err)
	}
	return out
}

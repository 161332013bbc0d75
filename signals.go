package fieldmap

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for fieldmap events. Converters and Mappers never emit; events come
// from derivation, transcoding and snapshots only.
var (
	SignalBindingDerived    = capitan.NewSignal("fieldmap.binding.derived", "Binding derived by reflection")
	SignalMarshalStart      = capitan.NewSignal("fieldmap.marshal.start", "Marshal operation beginning")
	SignalMarshalComplete   = capitan.NewSignal("fieldmap.marshal.complete", "Marshal operation finished")
	SignalUnmarshalStart    = capitan.NewSignal("fieldmap.unmarshal.start", "Unmarshal operation beginning")
	SignalUnmarshalComplete = capitan.NewSignal("fieldmap.unmarshal.complete", "Unmarshal operation finished")
	SignalSnapshotCreated   = capitan.NewSignal("fieldmap.snapshot.created", "Masked snapshot taken")
)

// Keys for typed event data.
var (
	KeyContentType   = capitan.NewStringKey("content_type")
	KeyTypeName      = capitan.NewStringKey("type_name")
	KeyFieldCount    = capitan.NewIntKey("field_count")
	KeySize          = capitan.NewIntKey("size")
	KeyDuration      = capitan.NewDurationKey("duration")
	KeyError         = capitan.NewErrorKey("error")
	KeyMaskedCount   = capitan.NewIntKey("masked_count")
	KeyRedactedCount = capitan.NewIntKey("redacted_count")
)

// emitBindingDerived emits an event when Derive builds a binding.
func emitBindingDerived(ctx context.Context, typeName string, fields int) {
	capitan.Emit(ctx, SignalBindingDerived,
		KeyTypeName.Field(typeName),
		KeyFieldCount.Field(fields),
	)
}

// emitMarshalStart emits an event when marshal begins.
func emitMarshalStart(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalMarshalStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitMarshalComplete emits an event when marshal finishes.
func emitMarshalComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalMarshalComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalMarshalComplete, fields...)
	}
}

// emitUnmarshalStart emits an event when unmarshal begins.
func emitUnmarshalStart(ctx context.Context, contentType, typeName string, size int) {
	capitan.Emit(ctx, SignalUnmarshalStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
	)
}

// emitUnmarshalComplete emits an event when unmarshal finishes.
func emitUnmarshalComplete(ctx context.Context, contentType, typeName string, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalUnmarshalComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalUnmarshalComplete, fields...)
	}
}

// emitSnapshotCreated emits an event when a snapshot is taken.
func emitSnapshotCreated(ctx context.Context, typeName string, masked, redacted int) {
	capitan.Emit(ctx, SignalSnapshotCreated,
		KeyTypeName.Field(typeName),
		KeyMaskedCount.Field(masked),
		KeyRedactedCount.Field(redacted),
	)
}

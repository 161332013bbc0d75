package fieldmap

import (
	"context"
	"encoding"
	"fmt"
	"maps"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/zoobzio/sentinel"
)

func init() {
	// Register tags with sentinel
	sentinel.Tag("fieldmap")
	sentinel.Tag("mask")
	sentinel.Tag("redact")
}

var (
	valueType           = reflect.TypeFor[Value]()
	timeType            = reflect.TypeFor[Time]()
	stdTimeType         = reflect.TypeFor[time.Time]()
	encoderType         = reflect.TypeFor[ValueEncoder]()
	decoderType         = reflect.TypeFor[ValueDecoder]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// Derive builds the Binding for struct type R by reflection.
//
// Exported fields are bound in declaration order under their Go name, or the
// name given by a `fieldmap:"name"` tag; `fieldmap:"-"` skips a field. Options
// follow the name after a comma: `fieldmap:"initial,rune"` binds a rune field
// through Rune instead of as an integer. Field types resolve as follows:
//
//   - types whose pointer implements ValueEncoder and ValueDecoder use those methods
//   - Value passes through, Time and time.Time use the Time variant
//   - booleans, integers, floats and strings (named or not) use the scalar rules
//   - pointers are optional, slices and arrays are sequences, maps with
//     string, integer or TextMarshaler keys are mappings
//   - structs are nested records, derived recursively
//
// Any other type fails with ErrUnsupportedType here, never during conversion.
// `mask` and `redact` tags are recorded for Snapshot.
func Derive[R any]() (*Binding[R], error) {
	typ := reflect.TypeFor[R]()
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrUnsupportedType, typ)
	}

	spec := sentinel.Scan[R]()
	res := newResolver()
	sc := res.reserve(typ)
	if err := res.fillStruct(sc, typ, spec); err != nil {
		return nil, err
	}

	fields := make([]FieldBinding[R], 0, len(sc.fields))
	for i := range sc.fields {
		fields = append(fields, &reflectField[R]{f: &sc.fields[i]})
	}
	b, err := Bind(fields...)
	if err != nil {
		return nil, err
	}
	b.plan = planFor(sc, make(map[*structConverter]*maskPlan))

	emitBindingDerived(context.Background(), b.typeName, len(b.fields))
	return b, nil
}

// MustDerive is like Derive but panics on error.
func MustDerive[R any]() *Binding[R] {
	b, err := Derive[R]()
	if err != nil {
		panic(err)
	}
	return b
}

// reflectField adapts a derived struct field to FieldBinding.
type reflectField[R any] struct {
	f *structField
}

func (rf *reflectField[R]) Name() string {
	return rf.f.name
}

func (rf *reflectField[R]) encode(r *R) Value {
	return rf.f.conv.encode(reflect.ValueOf(r).Elem().FieldByIndex(rf.f.index))
}

func (rf *reflectField[R]) decode(r *R, v Value) error {
	return rf.f.conv.decode(v, reflect.ValueOf(r).Elem().FieldByIndex(rf.f.index))
}

func (rf *reflectField[R]) check() error {
	return nil
}

// dynConverter is the reflective counterpart of Converter.
// decode writes into dst, which must be settable, and leaves it untouched on error.
type dynConverter interface {
	encode(v reflect.Value) Value
	decode(v Value, dst reflect.Value) error
}

// resolver builds dynConverters, memoizing struct types so recursive types
// terminate.
type resolver struct {
	structs map[reflect.Type]*structConverter
}

func newResolver() *resolver {
	return &resolver{structs: make(map[reflect.Type]*structConverter)}
}

// reserve registers an empty struct converter before its fields are resolved.
func (res *resolver) reserve(t reflect.Type) *structConverter {
	sc := &structConverter{typ: t}
	res.structs[t] = sc
	return sc
}

func (res *resolver) resolve(t reflect.Type) (dynConverter, error) {
	if t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface {
		pt := reflect.PointerTo(t)
		if pt.Implements(encoderType) && pt.Implements(decoderType) {
			return capabilityConverter{typ: t}, nil
		}
	}

	switch t {
	case valueType:
		return valueConverter{}, nil
	case timeType:
		return timeDyn{}, nil
	case stdTimeType:
		return stdTimeDyn{}, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return boolDyn{}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intDyn{name: t.String()}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return uintDyn{name: t.String()}, nil
	case reflect.Float32, reflect.Float64:
		return floatDyn{name: t.String(), bits: t.Bits()}, nil
	case reflect.String:
		return stringDyn{name: t.String()}, nil
	case reflect.Pointer:
		elem, err := res.resolve(t.Elem())
		if err != nil {
			return nil, err
		}
		return &pointerDyn{typ: t, elem: elem}, nil
	case reflect.Slice:
		elem, err := res.resolve(t.Elem())
		if err != nil {
			return nil, err
		}
		return &sliceDyn{typ: t, elem: elem}, nil
	case reflect.Array:
		elem, err := res.resolve(t.Elem())
		if err != nil {
			return nil, err
		}
		return &arrayDyn{typ: t, elem: elem}, nil
	case reflect.Map:
		keys, err := resolveKeys(t.Key())
		if err != nil {
			return nil, err
		}
		elem, err := res.resolve(t.Elem())
		if err != nil {
			return nil, err
		}
		return &mapDyn{typ: t, keys: keys, elem: elem}, nil
	case reflect.Struct:
		if sc, ok := res.structs[t]; ok {
			return sc, nil
		}
		spec := scanNestedType(t)
		sc := res.reserve(t)
		if err := res.fillStruct(sc, t, *spec); err != nil {
			return nil, err
		}
		return sc, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}

// fillStruct resolves the fields described by spec into sc.
func (res *resolver) fillStruct(sc *structConverter, t reflect.Type, spec sentinel.Metadata) error {
	sc.name = t.String()
	for _, fm := range spec.Fields {
		if len(fm.Index) == 0 {
			continue
		}
		sf := t.FieldByIndex(fm.Index)
		if !sf.IsExported() {
			continue
		}
		name, opts, skip := fieldName(sf, fm)
		if skip {
			continue
		}
		conv, err := res.fieldConverter(sf, opts)
		if err != nil {
			return fmt.Errorf("field %s.%s: %w", t, sf.Name, err)
		}
		f := structField{
			name:  name,
			index: fm.Index,
			conv:  conv,
		}
		if val, ok := tagValue(sf, fm, "mask"); ok {
			if !IsValidMaskType(MaskType(val)) {
				return fmt.Errorf("invalid mask type %q for field %s.%s", val, t, sf.Name)
			}
			f.mask = MaskType(val)
		}
		if val, ok := tagValue(sf, fm, "redact"); ok {
			f.redact = val
			f.redacted = true
		}
		sc.fields = append(sc.fields, f)
	}
	seen := make(map[string]struct{}, len(sc.fields))
	for _, f := range sc.fields {
		if _, dup := seen[f.name]; dup {
			return fmt.Errorf("%w: %q declared twice on %s", ErrDuplicateField, f.name, t)
		}
		seen[f.name] = struct{}{}
	}
	return nil
}

// fieldName returns the map key for a field, its tag options and whether it
// is excluded.
func fieldName(sf reflect.StructField, fm sentinel.FieldMetadata) (string, []string, bool) {
	val, ok := tagValue(sf, fm, "fieldmap")
	if !ok {
		return sf.Name, nil, false
	}
	if val == "-" {
		return "", nil, true
	}
	name, rest, _ := strings.Cut(val, ",")
	if name == "" {
		name = sf.Name
	}
	var opts []string
	if rest != "" {
		opts = strings.Split(rest, ",")
	}
	return name, opts, false
}

// fieldConverter resolves the converter for sf, honoring tag options.
func (res *resolver) fieldConverter(sf reflect.StructField, opts []string) (dynConverter, error) {
	for _, opt := range opts {
		switch opt {
		case "rune":
			if sf.Type.Kind() != reflect.Int32 {
				return nil, fmt.Errorf("%w: rune option on %s", ErrUnsupportedType, sf.Type)
			}
			return runeDyn{}, nil
		default:
			return nil, fmt.Errorf("unknown fieldmap option %q", opt)
		}
	}
	return res.resolve(sf.Type)
}

// tagValue prefers sentinel's parsed tags and falls back to the raw struct tag.
func tagValue(sf reflect.StructField, fm sentinel.FieldMetadata, key string) (string, bool) {
	if val, ok := fm.Tags[key]; ok {
		return val, true
	}
	return sf.Tag.Lookup(key)
}

// scanNestedType returns sentinel metadata for a nested struct type.
func scanNestedType(rt reflect.Type) *sentinel.Metadata {
	if spec, ok := sentinel.Lookup(rt.String()); ok {
		return &spec
	}

	spec := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        parseFieldTags(sf.Tag),
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Ptr:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		spec.Fields = append(spec.Fields, fm)
	}

	return &spec
}

// parseFieldTags extracts the tags derivation cares about.
func parseFieldTags(tag reflect.StructTag) map[string]string {
	tags := make(map[string]string)
	for _, key := range []string{"fieldmap", "mask", "redact"} {
		if val, ok := tag.Lookup(key); ok {
			tags[key] = val
		}
	}
	return tags
}

type structField struct {
	name  string
	index []int
	conv  dynConverter

	mask     MaskType
	redact   string
	redacted bool
}

type structConverter struct {
	typ    reflect.Type
	name   string
	fields []structField
}

func (c *structConverter) encode(v reflect.Value) Value {
	out := make(map[string]Value, len(c.fields))
	for i := range c.fields {
		f := &c.fields[i]
		out[f.name] = f.conv.encode(v.FieldByIndex(f.index))
	}
	return MapValue(out)
}

func (c *structConverter) decode(v Value, dst reflect.Value) error {
	entries, ok := v.AsMap()
	if !ok {
		return newTypeMismatch(c.name, KindMap, v)
	}
	in := maps.Clone(entries)
	out := reflect.New(c.typ).Elem()
	for i := range c.fields {
		f := &c.fields[i]
		e, ok := in[f.name]
		if !ok {
			return &MissingFieldError{Field: f.name}
		}
		delete(in, f.name)
		if err := f.conv.decode(e, out.FieldByIndex(f.index)); err != nil {
			return &FieldError{Field: f.name, Err: err}
		}
	}
	dst.Set(out)
	return nil
}

type capabilityConverter struct {
	typ reflect.Type
}

func (c capabilityConverter) encode(v reflect.Value) Value {
	if enc, ok := v.Interface().(ValueEncoder); ok {
		return enc.EncodeValue()
	}
	// pointer-receiver EncodeValue on a non-addressable copy
	p := reflect.New(c.typ)
	p.Elem().Set(v)
	return p.Interface().(ValueEncoder).EncodeValue()
}

func (c capabilityConverter) decode(v Value, dst reflect.Value) error {
	p := reflect.New(c.typ)
	if err := p.Interface().(ValueDecoder).DecodeValue(v); err != nil {
		return err
	}
	dst.Set(p.Elem())
	return nil
}

type valueConverter struct{}

func (valueConverter) encode(v reflect.Value) Value {
	return v.Interface().(Value)
}

func (valueConverter) decode(v Value, dst reflect.Value) error {
	dst.Set(reflect.ValueOf(v))
	return nil
}

type timeDyn struct{}

func (timeDyn) encode(v reflect.Value) Value {
	return TimeValue(v.Interface().(Time))
}

func (timeDyn) decode(v Value, dst reflect.Value) error {
	t, ok := v.AsTime()
	if !ok {
		return newTypeMismatch("fieldmap.Time", KindTime, v)
	}
	dst.Set(reflect.ValueOf(t))
	return nil
}

type stdTimeDyn struct{}

func (stdTimeDyn) encode(v reflect.Value) Value {
	return TimeValue(TimeFrom(v.Interface().(time.Time)))
}

func (stdTimeDyn) decode(v Value, dst reflect.Value) error {
	t, ok := v.AsTime()
	if !ok {
		return newTypeMismatch("time.Time", KindTime, v)
	}
	dst.Set(reflect.ValueOf(t.Std()))
	return nil
}

type boolDyn struct{}

func (boolDyn) encode(v reflect.Value) Value {
	return BoolValue(v.Bool())
}

func (boolDyn) decode(v Value, dst reflect.Value) error {
	b, ok := v.AsBool()
	if !ok {
		return newTypeMismatch(dst.Type().String(), KindBool, v)
	}
	dst.SetBool(b)
	return nil
}

type intDyn struct {
	name string
}

func (intDyn) encode(v reflect.Value) Value {
	return IntValue(v.Int())
}

func (c intDyn) decode(v Value, dst reflect.Value) error {
	i, ok := v.AsInt()
	if !ok {
		return newTypeMismatch(c.name, KindInt, v)
	}
	if dst.OverflowInt(i) {
		return newRangeError(c.name, i)
	}
	dst.SetInt(i)
	return nil
}

type runeDyn struct{}

func (runeDyn) encode(v reflect.Value) Value {
	return StringValue(string(rune(v.Int())))
}

func (runeDyn) decode(v Value, dst reflect.Value) error {
	r, err := runeConverter{}.Decode(v)
	if err != nil {
		return err
	}
	dst.SetInt(int64(r))
	return nil
}

type uintDyn struct {
	name string
}

func (uintDyn) encode(v reflect.Value) Value {
	return IntValue(int64(v.Uint()))
}

func (c uintDyn) decode(v Value, dst reflect.Value) error {
	i, ok := v.AsInt()
	if !ok {
		return newTypeMismatch(c.name, KindInt, v)
	}
	if i < 0 || dst.OverflowUint(uint64(i)) {
		return newRangeError(c.name, i)
	}
	dst.SetUint(uint64(i))
	return nil
}

type floatDyn struct {
	name string
	bits int
}

func (floatDyn) encode(v reflect.Value) Value {
	return DoubleValue(v.Float())
}

func (c floatDyn) decode(v Value, dst reflect.Value) error {
	f, ok := v.AsDouble()
	if !ok {
		return newTypeMismatch(c.name, KindDouble, v)
	}
	if c.bits == 32 && !fitsFloat32(f) {
		return newRangeError(c.name, f)
	}
	dst.SetFloat(f)
	return nil
}

type stringDyn struct {
	name string
}

func (stringDyn) encode(v reflect.Value) Value {
	return StringValue(v.String())
}

func (c stringDyn) decode(v Value, dst reflect.Value) error {
	s, ok := v.AsString()
	if !ok {
		return newTypeMismatch(c.name, KindString, v)
	}
	dst.SetString(s)
	return nil
}

type pointerDyn struct {
	typ  reflect.Type
	elem dynConverter
}

func (c *pointerDyn) encode(v reflect.Value) Value {
	if v.IsNil() {
		return NullValue()
	}
	return c.elem.encode(v.Elem())
}

func (c *pointerDyn) decode(v Value, dst reflect.Value) error {
	if v.IsNull() {
		dst.Set(reflect.Zero(c.typ))
		return nil
	}
	p := reflect.New(c.typ.Elem())
	if err := c.elem.decode(v, p.Elem()); err != nil {
		return err
	}
	dst.Set(p)
	return nil
}

type sliceDyn struct {
	typ  reflect.Type
	elem dynConverter
}

func (c *sliceDyn) encode(v reflect.Value) Value {
	out := make([]Value, v.Len())
	for i := range out {
		out[i] = c.elem.encode(v.Index(i))
	}
	return ArrayValue(out...)
}

func (c *sliceDyn) decode(v Value, dst reflect.Value) error {
	arr, ok := v.AsArray()
	if !ok {
		return newTypeMismatch(c.typ.String(), KindArray, v)
	}
	out := reflect.MakeSlice(c.typ, len(arr), len(arr))
	for i, e := range arr {
		if err := c.elem.decode(e, out.Index(i)); err != nil {
			return &ElementError{Index: i, Err: err}
		}
	}
	dst.Set(out)
	return nil
}

type arrayDyn struct {
	typ  reflect.Type
	elem dynConverter
}

func (c *arrayDyn) encode(v reflect.Value) Value {
	out := make([]Value, v.Len())
	for i := range out {
		out[i] = c.elem.encode(v.Index(i))
	}
	return ArrayValue(out...)
}

func (c *arrayDyn) decode(v Value, dst reflect.Value) error {
	arr, ok := v.AsArray()
	if !ok {
		return newTypeMismatch(c.typ.String(), KindArray, v)
	}
	if len(arr) != c.typ.Len() {
		return &TypeMismatchError{
			Target: c.typ.String(),
			Want:   KindArray,
			Got:    KindArray,
			Detail: fmt.Sprintf("expected %d elements, got %d", c.typ.Len(), len(arr)),
		}
	}
	out := reflect.New(c.typ).Elem()
	for i, e := range arr {
		if err := c.elem.decode(e, out.Index(i)); err != nil {
			return &ElementError{Index: i, Err: err}
		}
	}
	dst.Set(out)
	return nil
}

type mapDyn struct {
	typ  reflect.Type
	keys dynKeys
	elem dynConverter
}

func (c *mapDyn) encode(v reflect.Value) Value {
	out := make(map[string]Value, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		out[c.keys.format(iter.Key())] = c.elem.encode(iter.Value())
	}
	return MapValue(out)
}

func (c *mapDyn) decode(v Value, dst reflect.Value) error {
	entries, ok := v.AsMap()
	if !ok {
		return newTypeMismatch(c.typ.String(), KindMap, v)
	}
	out := reflect.MakeMapWithSize(c.typ, len(entries))
	for _, s := range sortedKeys(entries) {
		k, err := c.keys.parse(s)
		if err != nil {
			return &KeyConversionError{Key: s, Target: c.typ.Key().String(), Cause: err}
		}
		e := reflect.New(c.typ.Elem()).Elem()
		if err := c.elem.decode(entries[s], e); err != nil {
			return &EntryError{Key: s, Err: err}
		}
		out.SetMapIndex(k, e)
	}
	dst.Set(out)
	return nil
}

// dynKeys is the reflective counterpart of KeyConverter.
type dynKeys interface {
	format(k reflect.Value) string
	parse(s string) (reflect.Value, error)
}

func resolveKeys(t reflect.Type) (dynKeys, error) {
	if t.Kind() == reflect.String {
		return stringDynKeys{typ: t}, nil
	}
	if t.Implements(textMarshalerType) && reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return textDynKeys{typ: t}, nil
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intDynKeys{typ: t}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return uintDynKeys{typ: t}, nil
	}
	return nil, fmt.Errorf("%w: map key %s", ErrUnsupportedType, t)
}

type stringDynKeys struct {
	typ reflect.Type
}

func (stringDynKeys) format(k reflect.Value) string {
	return k.String()
}

func (c stringDynKeys) parse(s string) (reflect.Value, error) {
	return reflect.ValueOf(s).Convert(c.typ), nil
}

type intDynKeys struct {
	typ reflect.Type
}

func (intDynKeys) format(k reflect.Value) string {
	return strconv.FormatInt(k.Int(), 10)
}

func (c intDynKeys) parse(s string) (reflect.Value, error) {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return reflect.Value{}, err
	}
	k := reflect.New(c.typ).Elem()
	if k.OverflowInt(i) {
		return reflect.Value{}, newRangeError(c.typ.String(), i)
	}
	k.SetInt(i)
	return k, nil
}

type uintDynKeys struct {
	typ reflect.Type
}

func (uintDynKeys) format(k reflect.Value) string {
	return strconv.FormatUint(k.Uint(), 10)
}

func (c uintDynKeys) parse(s string) (reflect.Value, error) {
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return reflect.Value{}, err
	}
	k := reflect.New(c.typ).Elem()
	if k.OverflowUint(u) {
		return reflect.Value{}, newRangeError(c.typ.String(), u)
	}
	k.SetUint(u)
	return k, nil
}

type textDynKeys struct {
	typ reflect.Type
}

func (textDynKeys) format(k reflect.Value) string {
	b, err := k.Interface().(encoding.TextMarshaler).MarshalText()
	if err != nil {
		return fmt.Sprint(k.Interface())
	}
	return string(b)
}

func (c textDynKeys) parse(s string) (reflect.Value, error) {
	p := reflect.New(c.typ)
	if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
		return reflect.Value{}, err
	}
	return p.Elem(), nil
}

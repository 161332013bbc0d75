package fieldmap_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/zoobzio/fieldmap"
)

type person struct {
	Name string
	Age  uint8
}

var personBinding = fieldmap.MustBind(
	fieldmap.Field("name", func(p *person) *string { return &p.Name }, fieldmap.String()),
	fieldmap.Field("age", func(p *person) *uint8 { return &p.Age }, fieldmap.Uint8()),
)

type team struct {
	Lead    person
	Members []person
	Deputy  *person
	Scores  map[string]int
}

var teamBinding = fieldmap.MustBind(
	fieldmap.Field("lead", func(t *team) *person { return &t.Lead }, fieldmap.Record[person](personBinding)),
	fieldmap.Field("members", func(t *team) *[]person { return &t.Members }, fieldmap.Slice[person](personBinding)),
	fieldmap.Field("deputy", func(t *team) **person { return &t.Deputy }, fieldmap.Optional[person](personBinding)),
	fieldmap.Field("scores", func(t *team) *map[string]int { return &t.Scores }, fieldmap.StringMap(fieldmap.Int())),
)

func TestBinding_Encode(t *testing.T) {
	v := personBinding.Encode(person{Name: "Ada", Age: 36})

	want := fieldmap.MapValue(map[string]fieldmap.Value{
		"name": fieldmap.StringValue("Ada"),
		"age":  fieldmap.IntValue(36),
	})
	if !v.Equal(want) {
		t.Errorf("Encode() = %v, want %v", v, want)
	}
}

func TestBinding_RoundTrip(t *testing.T) {
	in := person{Name: "Ada", Age: 255}

	got, err := personBinding.Decode(personBinding.Encode(in))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got != in {
		t.Errorf("Decode() = %+v, want %+v", got, in)
	}
}

func TestBinding_MissingField(t *testing.T) {
	v := fieldmap.MapValue(map[string]fieldmap.Value{"age": fieldmap.IntValue(1)})

	got, err := personBinding.Decode(v)
	var mf *fieldmap.MissingFieldError
	if !errors.As(err, &mf) {
		t.Fatalf("Decode() error = %v, want *MissingFieldError", err)
	}
	if mf.Field != "name" {
		t.Errorf("MissingFieldError.Field = %q, want name", mf.Field)
	}
	if got != (person{}) {
		t.Errorf("Decode() = %+v, want zero value", got)
	}
}

func TestBinding_ExtraKeysIgnored(t *testing.T) {
	v := fieldmap.MapValue(map[string]fieldmap.Value{
		"name":  fieldmap.StringValue("Ada"),
		"age":   fieldmap.IntValue(36),
		"email": fieldmap.StringValue("ada@example.com"),
	})

	got, err := personBinding.Decode(v)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got != (person{Name: "Ada", Age: 36}) {
		t.Errorf("Decode() = %+v", got)
	}
	if v.Len() != 3 {
		t.Errorf("Decode() modified its input: %v", v)
	}
}

func TestBinding_FieldError(t *testing.T) {
	v := fieldmap.MapValue(map[string]fieldmap.Value{
		"name": fieldmap.StringValue("Ada"),
		"age":  fieldmap.IntValue(300),
	})

	_, err := personBinding.Decode(v)
	var fe *fieldmap.FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("Decode() error = %v, want *FieldError", err)
	}
	if fe.Field != "age" {
		t.Errorf("FieldError.Field = %q, want age", fe.Field)
	}
	if !errors.Is(err, fieldmap.ErrRange) {
		t.Errorf("Decode() error = %v, want ErrRange cause", err)
	}
}

func TestBinding_FirstFailureWins(t *testing.T) {
	v := fieldmap.MapValue(map[string]fieldmap.Value{
		"name": fieldmap.IntValue(1),
	})

	_, err := personBinding.Decode(v)
	var fe *fieldmap.FieldError
	if !errors.As(err, &fe) || fe.Field != "name" {
		t.Errorf("Decode() error = %v, want field name to fail first", err)
	}
}

func TestBinding_NotAMap(t *testing.T) {
	_, err := personBinding.Decode(fieldmap.ArrayValue())
	var tm *fieldmap.TypeMismatchError
	if !errors.As(err, &tm) {
		t.Fatalf("Decode() error = %v, want *TypeMismatchError", err)
	}
	if tm.Want != fieldmap.KindMap || tm.Got != fieldmap.KindArray {
		t.Errorf("TypeMismatchError = %+v", tm)
	}
}

func TestBinding_DecodeFieldsConsumes(t *testing.T) {
	fields := map[string]fieldmap.Value{
		"name":  fieldmap.StringValue("Ada"),
		"age":   fieldmap.IntValue(36),
		"extra": fieldmap.BoolValue(true),
	}

	if _, err := personBinding.DecodeFields(fields); err != nil {
		t.Fatalf("DecodeFields() error: %v", err)
	}
	if len(fields) != 1 {
		t.Errorf("DecodeFields() left %v, want only extra", fields)
	}
	if _, ok := fields["extra"]; !ok {
		t.Error("DecodeFields() should leave undeclared entries in place")
	}
}

func TestBinding_EncodeFieldsCount(t *testing.T) {
	fields := teamBinding.EncodeFields(team{})
	if len(fields) != 4 {
		t.Errorf("EncodeFields() = %d entries, want 4", len(fields))
	}
	if !fields["deputy"].IsNull() {
		t.Errorf("deputy = %v, want null", fields["deputy"])
	}
}

func TestBinding_Nested(t *testing.T) {
	in := team{
		Lead:    person{Name: "Ada", Age: 36},
		Members: []person{{Name: "Bob", Age: 20}, {Name: "Cy", Age: 41}},
		Deputy:  &person{Name: "Dee", Age: 30},
		Scores:  map[string]int{"q1": 7},
	}

	got, err := teamBinding.Decode(teamBinding.Encode(in))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got.Lead != in.Lead || !slices.Equal(got.Members, in.Members) {
		t.Errorf("Decode() = %+v, want %+v", got, in)
	}
	if got.Deputy == nil || *got.Deputy != *in.Deputy {
		t.Errorf("Deputy = %v, want %v", got.Deputy, in.Deputy)
	}
	if got.Scores["q1"] != 7 {
		t.Errorf("Scores = %v", got.Scores)
	}
}

func TestBinding_NestedPath(t *testing.T) {
	v := teamBinding.Encode(team{
		Lead:    person{Name: "Ada"},
		Members: []person{{Name: "Bob"}, {Name: "Cy"}},
		Scores:  map[string]int{},
	})

	entries, _ := v.AsMap()
	members, _ := entries["members"].AsArray()
	broken := map[string]fieldmap.Value{"age": fieldmap.IntValue(1)}
	members = []fieldmap.Value{members[0], fieldmap.MapValue(broken)}

	tampered := map[string]fieldmap.Value{}
	for k, e := range entries {
		tampered[k] = e
	}
	tampered["members"] = fieldmap.ArrayValue(members...)

	_, err := teamBinding.Decode(fieldmap.MapValue(tampered))
	if !errors.Is(err, fieldmap.ErrMissingField) {
		t.Fatalf("Decode() error = %v, want ErrMissingField", err)
	}
	if p := fieldmap.Path(err); p != "members[1].name" {
		t.Errorf("Path() = %q, want members[1].name", p)
	}
}

func TestBind_Invalid(t *testing.T) {
	name := func(p *person) *string { return &p.Name }

	tests := []struct {
		name   string
		fields []fieldmap.FieldBinding[person]
		want   error
	}{
		{
			name:   "empty name",
			fields: []fieldmap.FieldBinding[person]{fieldmap.Field("", name, fieldmap.String())},
			want:   fieldmap.ErrInvalidBinding,
		},
		{
			name:   "nil accessor",
			fields: []fieldmap.FieldBinding[person]{fieldmap.Field[person, string]("name", nil, fieldmap.String())},
			want:   fieldmap.ErrInvalidBinding,
		},
		{
			name:   "nil converter",
			fields: []fieldmap.FieldBinding[person]{fieldmap.Field("name", name, nil)},
			want:   fieldmap.ErrInvalidBinding,
		},
		{
			name:   "nil binding",
			fields: []fieldmap.FieldBinding[person]{nil},
			want:   fieldmap.ErrInvalidBinding,
		},
		{
			name: "duplicate",
			fields: []fieldmap.FieldBinding[person]{
				fieldmap.Field("name", name, fieldmap.String()),
				fieldmap.Field("name", name, fieldmap.String()),
			},
			want: fieldmap.ErrDuplicateField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fieldmap.Bind(tt.fields...)
			if !errors.Is(err, tt.want) {
				t.Errorf("Bind() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMustBind_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustBind() should panic on invalid bindings")
		}
	}()
	fieldmap.MustBind(fieldmap.Field[person, string]("", nil, nil))
}

func TestBinding_Metadata(t *testing.T) {
	if got := personBinding.TypeName(); got != "fieldmap_test.person" {
		t.Errorf("TypeName() = %q", got)
	}

	names := personBinding.Fields()
	if !slices.Equal(names, []string{"name", "age"}) {
		t.Errorf("Fields() = %v", names)
	}
	names[0] = "changed"
	if personBinding.Fields()[0] != "name" {
		t.Error("Fields() should return a copy")
	}
}

func TestBinding_EmptyRecord(t *testing.T) {
	type empty struct{}
	b := fieldmap.MustBind[empty]()

	v := b.Encode(empty{})
	if v.Kind() != fieldmap.KindMap || v.Len() != 0 {
		t.Errorf("Encode() = %v, want {}", v)
	}
	if _, err := b.Decode(fieldmap.MapValue(map[string]fieldmap.Value{"x": fieldmap.NullValue()})); err != nil {
		t.Errorf("Decode() error: %v", err)
	}
}

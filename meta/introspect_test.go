package meta

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propwire/propwire/diagnostic"
)

func TestIntrospect_MethodStyle(t *testing.T) {
	t.Parallel()

	info, err := introspect(reflect.TypeFor[person](), StyleMethods)
	require.NoError(t, err)

	assert.Equal(t, []string{"active", "age", "alias", "name", "nickname"}, info.Names())
	assert.Equal(t, "github.com/propwire/propwire/meta", info.Scope)

	tests := []struct {
		name     string
		typ      reflect.Type
		readable bool
		writable bool
		field    bool
	}{
		{"active", reflect.TypeFor[bool](), true, false, false},
		{"age", reflect.TypeFor[int](), true, true, false},
		{"alias", reflect.TypeFor[string](), true, true, true},
		{"name", reflect.TypeFor[string](), true, true, false},
		{"nickname", reflect.TypeFor[string](), true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := info.Property(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.typ, d.Type)
			assert.Equal(t, tt.readable, d.Readable())
			assert.Equal(t, tt.writable, d.Writable())
			assert.Equal(t, tt.field, d.IsField())
		})
	}

	_, ok := info.Property("hidden")
	assert.False(t, ok, "prop:\"-\" hides a field")

	_, ok = info.Property("describe")
	assert.False(t, ok, "methods with arguments are not getters")
}

func TestIntrospect_LookupAcceptsGoName(t *testing.T) {
	t.Parallel()

	info, err := introspect(reflect.TypeFor[person](), StyleMethods)
	require.NoError(t, err)

	byProperty, ok := info.Property("nickname")
	require.True(t, ok)

	byGoName, ok := info.Property("Nickname")
	require.True(t, ok)
	assert.Same(t, byProperty, byGoName)
}

func TestIntrospect_GetAndSet(t *testing.T) {
	t.Parallel()

	info, err := introspect(reflect.TypeFor[person](), StyleMethods)
	require.NoError(t, err)

	p := &person{}
	target := reflect.ValueOf(p).Elem()

	name, _ := info.Property("name")
	require.NoError(t, name.Set(target, reflect.ValueOf("Ada")))
	assert.Equal(t, "Ada", p.name)
	assert.Equal(t, "SetName", name.SetterName())
	assert.Equal(t, "Name", name.GetterName())

	got, err := name.Get(target)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.String())

	age, _ := info.Property("age")
	require.Error(t, age.Set(target, reflect.ValueOf(-1)), "setter errors are returned")
	require.NoError(t, age.Set(target, reflect.ValueOf(36)))
	assert.Equal(t, 36, p.age)

	active, _ := info.Property("active")
	assert.ErrorIs(t, active.Set(target, reflect.ValueOf(true)), ErrNotWritable)

	// getters run on a copy of non-addressable values
	got, err = name.Get(reflect.ValueOf(*p))
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.String())

	// setters require an addressable target
	assert.ErrorIs(t, name.Set(reflect.ValueOf(*p), reflect.ValueOf("Bob")), ErrNotWritable)

	// pointers are dereferenced
	got, err = name.Get(reflect.ValueOf(p))
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.String())

	var nilPerson *person
	_, err = name.Get(reflect.ValueOf(nilPerson))
	assert.ErrorIs(t, err, ErrNilTarget)
}

func TestIntrospect_FieldStyle(t *testing.T) {
	t.Parallel()

	info, err := introspect(reflect.TypeFor[document](), StyleFields)
	require.NoError(t, err)

	assert.Equal(t, []string{"ID", "attrs", "created", "note", "tags", "title"}, info.Names())

	attrs, _ := info.Property("attrs")
	assert.Equal(t, reflect.TypeFor[string](), attrs.KeyType)
	assert.Equal(t, reflect.TypeFor[int](), attrs.ElemType)

	tags, _ := info.Property("tags")
	assert.Equal(t, reflect.TypeFor[string](), tags.ElemType)
	assert.Nil(t, tags.KeyType)

	doc := &document{}
	target := reflect.ValueOf(doc).Elem()

	// promoted through a nil embedded pointer: zero on read, allocated on write
	note, _ := info.Property("note")
	got, err := note.Get(target)
	require.NoError(t, err)
	assert.Empty(t, got.String())

	require.NoError(t, note.Set(target, reflect.ValueOf("draft")))
	require.NotNil(t, doc.Extra)
	assert.Equal(t, "draft", doc.Note)

	id, _ := info.Property("ID")
	require.NoError(t, id.Set(target, reflect.ValueOf("doc-1")))
	assert.Equal(t, "doc-1", doc.ID)
}

func TestIntrospect_MethodStyleIgnoresUnexportedFields(t *testing.T) {
	t.Parallel()

	info, err := introspect(reflect.TypeFor[document](), StyleMethods)
	require.NoError(t, err)

	_, ok := info.Property("notes")
	assert.False(t, ok)
}

func TestIntrospect_ShadowedField(t *testing.T) {
	t.Parallel()

	info, err := introspect(reflect.TypeFor[shadow](), StyleFields)
	require.NoError(t, err)

	id, ok := info.Property("ID")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[int](), id.Type)
	assert.Equal(t, []int{1}, id.FieldIndex)
}

func TestIntrospect_GenericElementTypes(t *testing.T) {
	t.Parallel()

	info, err := introspect(reflect.TypeFor[Box[int]](), StyleFields)
	require.NoError(t, err)

	items, _ := info.Property("items")
	assert.Equal(t, reflect.TypeFor[int](), items.ElemType)

	index, _ := info.Property("index")
	assert.Equal(t, reflect.TypeFor[string](), index.KeyType)
	assert.Equal(t, reflect.TypeFor[int](), index.ElemType)

	other, err := introspect(reflect.TypeFor[Box[string]](), StyleFields)
	require.NoError(t, err)

	items, _ = other.Property("items")
	assert.Equal(t, reflect.TypeFor[string](), items.ElemType)
}

func TestIntrospect_NamedNonStruct(t *testing.T) {
	t.Parallel()

	info, err := introspect(reflect.TypeFor[celsius](), StyleMethods)
	require.NoError(t, err)
	assert.Equal(t, []string{"fahrenheit"}, info.Names())

	c := celsius(100)
	f, _ := info.Property("fahrenheit")

	got, err := f.Get(reflect.ValueOf(&c).Elem())
	require.NoError(t, err)
	assert.InDelta(t, 212.0, got.Float(), 0.001)

	require.NoError(t, f.Set(reflect.ValueOf(&c).Elem(), reflect.ValueOf(32.0)))
	assert.InDelta(t, 0.0, float64(c), 0.001)

	fields, err := introspect(reflect.TypeFor[celsius](), StyleFields)
	require.NoError(t, err)
	assert.Zero(t, fields.Len())
}

func TestIntrospect_Fatal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		typ    reflect.Type
		style  Style
		reason diagnostic.Reason
	}{
		{"getter and setter types differ", reflect.TypeFor[conflicting](), StyleMethods, diagnostic.ReasonTypeConflict},
		{"two getters for one name", reflect.TypeFor[duplicated](), StyleMethods, diagnostic.ReasonDuplicateProperty},
		{"setter with two arguments", reflect.TypeFor[badSetter](), StyleMethods, diagnostic.ReasonInvalidSignature},
		{"two fields tagged with one name", reflect.TypeFor[clash](), StyleFields, diagnostic.ReasonDuplicateProperty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := introspect(tt.typ, tt.style)
			require.Error(t, err)
			assert.ErrorIs(t, err, diagnostic.ErrFatalIntrospection)
			assert.Equal(t, diagnostic.KindFatalIntrospection, diagnostic.KindOf(err))
			assert.Equal(t, tt.reason, diagnostic.ReasonOf(err))
		})
	}
}

func TestStyleString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "methods", StyleMethods.String())
	assert.Equal(t, "fields", StyleFields.String())
	assert.Equal(t, "unknown", Style(42).String())
}

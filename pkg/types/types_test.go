package types

import (
	"bytes"
	"math"
	"testing"

	"heapstore/pkg/primitives"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeSize(t *testing.T) {
	assert.Equal(t, uint32(8), IntType.Size())
	assert.Equal(t, uint32(8), FloatType.Size())
	assert.Equal(t, uint32(4+StringMaxSize), StringType.Size())
	assert.Equal(t, uint32(0), Type(42).Size())
}

func TestParseType(t *testing.T) {
	for name, want := range map[string]Type{"int": IntType, "string": StringType, "float": FloatType} {
		got, ok := ParseType(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got)
	}
	_, ok := ParseType("blob")
	assert.False(t, ok)
}

func TestSerializeWritesTypeSize(t *testing.T) {
	fields := []Field{NewIntField(-42), NewFloat64Field(3.25), NewStringField("hello")}
	for _, f := range fields {
		var buf bytes.Buffer
		require.NoError(t, f.Serialize(&buf))
		assert.Equal(t, int(f.Type().Size()), buf.Len(), f.Type().String())

		parsed, err := ParseField(&buf, f.Type())
		require.NoError(t, err)
		assert.True(t, f.Equals(parsed), "decoded %v, want %v", parsed, f)
	}
}

func TestIntFieldIsBigEndian(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewIntField(1).Serialize(&buf))
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 1}, buf.Bytes())
}

func TestParseStringRejectsOversizedLength(t *testing.T) {
	data := make([]byte, StringType.Size())
	data[0] = 0xFF
	_, err := ParseField(bytes.NewReader(data), StringType)
	assert.Error(t, err)
}

func TestParseFieldShortInput(t *testing.T) {
	_, err := ParseField(bytes.NewReader([]byte{1, 2, 3}), IntType)
	assert.Error(t, err)
}

func TestStringFieldTruncates(t *testing.T) {
	long := make([]byte, StringMaxSize+10)
	for i := range long {
		long[i] = 'x'
	}
	assert.Len(t, NewStringField(string(long)).Value, StringMaxSize)
}

func TestCompare(t *testing.T) {
	ten := NewIntField(10)

	tests := []struct {
		name  string
		left  Field
		op    primitives.Predicate
		right Field
		want  bool
	}{
		{"int greater", NewIntField(15), primitives.GreaterThan, ten, true},
		{"int equal", NewIntField(10), primitives.Equals, ten, true},
		{"int not equal", NewIntField(5), primitives.NotEqual, ten, true},
		{"int vs float", NewIntField(10), primitives.LessThan, NewFloat64Field(10.5), true},
		{"float vs int", NewFloat64Field(9.5), primitives.GreaterThanOrEqual, ten, false},
		{"string less", NewStringField("apple"), primitives.LessThan, NewStringField("banana"), true},
		{"string like", NewStringField("database"), primitives.Like, NewStringField("tab"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.left.Compare(tt.op, tt.right)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := NewStringField("a").Compare(primitives.Equals, ten)
	assert.Error(t, err)
	_, err = ten.Compare(primitives.Like, NewIntField(1))
	assert.Error(t, err)
}

func TestEqualsHashContract(t *testing.T) {
	pairs := [][2]Field{
		{NewIntField(7), NewIntField(7)},
		{NewStringField("A"), NewStringField("A")},
		{NewFloat64Field(0), NewFloat64Field(math.Copysign(0, -1))},
		{NewFloat64Field(math.NaN()), NewFloat64Field(math.NaN())},
	}
	for _, p := range pairs {
		require.True(t, p[0].Equals(p[1]))
		h0, err := p[0].Hash()
		require.NoError(t, err)
		h1, err := p[1].Hash()
		require.NoError(t, err)
		assert.Equal(t, h0, h1)
	}

	assert.False(t, NewIntField(1).Equals(NewFloat64Field(1)))
	assert.False(t, NewStringField("A").Equals(NewStringField("B")))
}

func TestParseConstant(t *testing.T) {
	f, err := ParseConstant(IntType, " 42 ")
	require.NoError(t, err)
	assert.True(t, f.Equals(NewIntField(42)))

	f, err = ParseConstant(FloatType, "2.5")
	require.NoError(t, err)
	assert.True(t, f.Equals(NewFloat64Field(2.5)))

	f, err = ParseConstant(StringType, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", f.String())

	_, err = ParseConstant(IntType, "x")
	assert.Error(t, err)
}

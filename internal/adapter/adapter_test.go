package adapter

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedHandler func(string, int)

func values(args ...interface{}) []reflect.Value {
	out := make([]reflect.Value, len(args))
	for i, a := range args {
		out[i] = reflect.ValueOf(a)
	}
	return out
}

func TestSignatureOf(t *testing.T) {
	t.Run("extracts parameters", func(t *testing.T) {
		sig, err := SignatureFor[func(string, int, float32)]()
		require.NoError(t, err)

		assert.Equal(t, 3, sig.Arity())
		assert.Equal(t, reflect.TypeOf(""), sig.Params[0])
		assert.Equal(t, reflect.TypeOf(float32(0)), sig.Params[2])
		assert.False(t, sig.HasResults())
		assert.Equal(t, "func(string, int, float32)", sig.String())
	})

	t.Run("accepts named function types", func(t *testing.T) {
		sig, err := SignatureFor[namedHandler]()
		require.NoError(t, err)
		assert.Equal(t, 2, sig.Arity())
	})

	t.Run("rejects non-function types", func(t *testing.T) {
		_, err := SignatureFor[int]()
		assert.ErrorIs(t, err, ErrNotFunc)

		_, err = SignatureOf(nil)
		assert.ErrorIs(t, err, ErrNotFunc)
	})

	t.Run("rejects variadic functions", func(t *testing.T) {
		_, err := SignatureFor[func(...int)]()
		assert.ErrorIs(t, err, ErrVariadic)
	})

	t.Run("reports results", func(t *testing.T) {
		sig, err := SignatureFor[func(int) error]()
		require.NoError(t, err)
		assert.True(t, sig.HasResults())
	})
}

func TestSignatureCache(t *testing.T) {
	cache := NewSignatureCache()
	typ := reflect.TypeOf(func(int) {})

	first, err := cache.Get(typ)
	require.NoError(t, err)
	second, err := cache.Get(typ)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.Len())

	_, err = cache.Get(reflect.TypeOf(0))
	assert.Error(t, err)
	assert.Equal(t, 1, cache.Len())
}

func TestProject(t *testing.T) {
	emitter, err := SignatureFor[func(string, int, int, float32)]()
	require.NoError(t, err)

	t.Run("drops trailing arguments and converts numerics", func(t *testing.T) {
		receiver, err := SignatureFor[func(string, int, float32)]()
		require.NoError(t, err)

		p, err := Project(emitter, receiver)
		require.NoError(t, err)
		assert.Equal(t, 3, p.Width())

		out := p.Apply(values("Banana", 10, 26, float32(-5)))
		require.Len(t, out, 3)
		assert.Equal(t, "Banana", out[0].Interface())
		assert.Equal(t, 10, out[1].Interface())
		assert.Equal(t, float32(26), out[2].Interface())
	})

	t.Run("numeric conversion truncates and wraps", func(t *testing.T) {
		from, err := SignatureFor[func(float64, int, int)]()
		require.NoError(t, err)
		to, err := SignatureFor[func(int, uint8, int8)]()
		require.NoError(t, err)

		p, err := Project(from, to)
		require.NoError(t, err)

		out := p.Apply(values(-2.75, 300, -1))
		assert.Equal(t, -2, out[0].Interface())
		assert.Equal(t, uint8(44), out[1].Interface())
		assert.Equal(t, int8(-1), out[2].Interface())
	})

	t.Run("empty receiver takes nothing", func(t *testing.T) {
		receiver, err := SignatureFor[func()]()
		require.NoError(t, err)

		p, err := Project(emitter, receiver)
		require.NoError(t, err)
		assert.Empty(t, p.Apply(values("x", 1, 2, float32(3))))
	})

	t.Run("rejects wider receiver", func(t *testing.T) {
		small, err := SignatureFor[func(string)]()
		require.NoError(t, err)
		wide, err := SignatureFor[func(string, int)]()
		require.NoError(t, err)

		_, err = Project(small, wide)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrArity)
		assert.Contains(t, err.Error(), "provides 1")
	})

	t.Run("rejects incompatible prefix", func(t *testing.T) {
		receiver, err := SignatureFor[func(int)]()
		require.NoError(t, err)

		_, err = Project(emitter, receiver)
		require.Error(t, err)

		var mismatch *MismatchError
		require.True(t, errors.As(err, &mismatch))
		assert.Equal(t, 0, mismatch.Index)
		assert.ErrorIs(t, err, ErrIncompatible)
	})

	t.Run("assigns concrete types to interfaces", func(t *testing.T) {
		from, err := SignatureFor[func(error)]()
		require.NoError(t, err)
		to, err := SignatureFor[func(interface{})]()
		require.NoError(t, err)

		_, err = Project(from, to)
		assert.NoError(t, err)

		_, err = Project(to, from)
		assert.ErrorIs(t, err, ErrIncompatible)
	})

	t.Run("does not convert numbers to strings", func(t *testing.T) {
		from, err := SignatureFor[func(int)]()
		require.NoError(t, err)
		to, err := SignatureFor[func(string)]()
		require.NoError(t, err)

		_, err = Project(from, to)
		assert.ErrorIs(t, err, ErrIncompatible)
	})
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name    string
		arg     interface{}
		to      reflect.Type
		want    interface{}
		wantErr bool
	}{
		{name: "exact", arg: "a", to: reflect.TypeOf(""), want: "a"},
		{name: "numeric", arg: -5.0, to: reflect.TypeOf(float32(0)), want: float32(-5)},
		{name: "nil interface", arg: nil, to: reflect.TypeOf((*error)(nil)).Elem(), want: nil},
		{name: "nil int", arg: nil, to: reflect.TypeOf(0), wantErr: true},
		{name: "string to int", arg: "1", to: reflect.TypeOf(0), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Coerce(tt.arg, tt.to)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrIncompatible)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, v.Type())
			assert.Equal(t, tt.want, v.Interface())
		})
	}

	t.Run("wraps concrete value in interface", func(t *testing.T) {
		to := reflect.TypeOf((*error)(nil)).Elem()
		v, err := Coerce(fmt.Errorf("boom"), to)
		require.NoError(t, err)
		assert.Equal(t, to, v.Type())
		assert.EqualError(t, v.Interface().(error), "boom")
	})
}

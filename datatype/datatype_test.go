package datatype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeModule struct{ name string }

func (m fakeModule) FullName() string { return m.name }

type fakeBackend struct{ s string }

func (b fakeBackend) BackendTypeString() string { return b.s }

func TestZeroValueInvalid(t *testing.T) {
	var d DataType
	assert.False(t, d.Valid())
}

func TestValidRequiresOwnerAndBackend(t *testing.T) {
	d := New(fakeModule{"lang"}, "i32", fakeBackend{"i32"})
	assert.True(t, d.Valid())
}

func TestQualifiedName(t *testing.T) {
	d := New(fakeModule{"lang"}, "i32", fakeBackend{"i32"})
	assert.Equal(t, "lang:i32", d.QualifiedName())
}

func TestEqualBySameHandleAndName(t *testing.T) {
	mod := fakeModule{"lang"}
	a := New(mod, "i32", fakeBackend{"i32"})
	b := New(mod, "i32", fakeBackend{"i32"})
	assert.True(t, a.Equal(b))
}

func TestNotEqualDifferentBackend(t *testing.T) {
	mod := fakeModule{"lang"}
	a := New(mod, "i32", fakeBackend{"i32"})
	b := New(mod, "i32", fakeBackend{"i64"})
	assert.False(t, a.Equal(b))
}

func TestInvalidNeverEqual(t *testing.T) {
	var a DataType
	b := New(fakeModule{"lang"}, "i32", fakeBackend{"i32"})
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(a))
}

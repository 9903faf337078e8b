package uuidx

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsValidAndUnique(t *testing.T) {
	a := New()
	b := New()
	assert.True(t, a.Valid())
	assert.True(t, b.Valid())
	assert.False(t, a.Equal(b))
}

func TestNilIsInvalid(t *testing.T) {
	assert.False(t, Nil.Valid())
}

func TestParseRoundTrip(t *testing.T) {
	original := New()
	parsed, err := Parse(original.String())
	require.NoError(t, err)
	assert.True(t, original.Equal(parsed))
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("not-a-uuid")
	assert.Error(t, err)
}

func TestJSONRoundTrip(t *testing.T) {
	original := New()
	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded UUID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, original.Equal(decoded))
}

func TestLessIsTotalOrder(t *testing.T) {
	a := MustParse("00000000-0000-0000-0000-000000000001")
	b := MustParse("00000000-0000-0000-0000-000000000002")
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.False(t, a.Less(a))
}

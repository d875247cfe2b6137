package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `{
  "type": "object",
  "required": ["name", "columns"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "columns": {"type": "array", "items": {"type": "string"}}
  }
}`

func TestCheck(t *testing.T) {
	t.Parallel()

	require.NoError(t, Check([]byte(doc), []byte(`{"name":"vip","columns":["a","b"]}`)))

	err := Check([]byte(doc), []byte(`{"name":"","columns":[1]}`))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "want *ValidationError, got %v", err)
	assert.Len(t, ve.Errors, 2)
	assert.Contains(t, err.Error(), "name")

	err = Check([]byte(doc), []byte(`{not json`))
	require.Error(t, err)
	assert.False(t, errors.As(err, &ve))
}

func TestCheckValue(t *testing.T) {
	t.Parallel()
	v := map[string]any{"name": "vip", "columns": []any{"a"}}
	require.NoError(t, CheckValue([]byte(doc), v))

	err := CheckValue([]byte(doc), map[string]any{"columns": []any{"a"}})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
}

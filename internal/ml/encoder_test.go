package ml_test

import (
	"os"
	"path/filepath"
	"testing"

	"freshmarket/internal/ml"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductEncoder_Roundtrip(t *testing.T) {
	enc := ml.NewProductEncoder([]string{"Bread", "Eggs", "Milk"})

	id, ok := enc.Transform("Milk")
	assert.True(t, ok)
	assert.Equal(t, 2, id)

	name, ok := enc.Inverse(0)
	assert.True(t, ok)
	assert.Equal(t, "Bread", name)

	_, ok = enc.Transform("Unseen")
	assert.False(t, ok)

	_, ok = enc.Inverse(99)
	assert.False(t, ok)

	assert.Equal(t, 3, enc.Len())
}

func TestLoadProductEncoder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "label_encoder.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"classes":["Bread","Milk"]}`), 0o600))

	enc, err := ml.LoadProductEncoder(path)
	require.NoError(t, err)

	id, ok := enc.Transform("Bread")
	assert.True(t, ok)
	assert.Equal(t, 0, id)

	_, err = ml.LoadProductEncoder(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

package helper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareModel(t *testing.T) {
	originalModelDir := ModelDir
	ModelDir = t.TempDir()
	defer func() { ModelDir = originalModelDir }()

	t.Run("Return existing model path when model exists", func(t *testing.T) {
		modelPath := filepath.Join(ModelDir, "test_mock-model")
		require.NoError(t, os.MkdirAll(modelPath, 0750))

		path, err := PrepareModel("test/mock-model", "")
		assert.NoError(t, err, "Expected PrepareModel to not return an error for existing model")
		assert.Equal(t, modelPath, path, "Expected returned path to match existing model path")
	})

	t.Run("Handle model name without slash", func(t *testing.T) {
		expectedPath := filepath.Join(ModelDir, "simple-model")
		require.NoError(t, os.MkdirAll(expectedPath, 0750))

		path, err := PrepareModel("simple-model", "onnx/model.onnx")
		assert.NoError(t, err)
		assert.Equal(t, expectedPath, path, "Expected path to use model name directly")
	})

	t.Run("Download model when it doesn't exist", func(t *testing.T) {
		if testing.Short() {
			t.Skip("Skipping model download in short mode")
		}

		path, err := PrepareModel("sentence-transformers/all-MiniLM-L6-v2", "onnx/model.onnx")

		// Depends on network and disk space
		if err != nil {
			assert.Contains(t, err.Error(), "failed to")
		} else {
			assert.DirExists(t, path)
		}
	})
}

package filestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalStore(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	assert.NoError(t, err)

	t.Run("upload and read back", func(t *testing.T) {
		url, err := store.Upload([]byte("jpeg bytes"), "screenshot/1-site.jpg")
		assert.NoError(t, err)
		assert.Equal(t, "screenshot/1-site.jpg", url)

		data, err := store.Read("screenshot/1-site.jpg")
		assert.NoError(t, err)
		assert.Equal(t, []byte("jpeg bytes"), data)
	})

	t.Run("list by prefix", func(t *testing.T) {
		_, err := store.Upload([]byte("x"), "receipt/2-invoice.pdf")
		assert.NoError(t, err)

		entries, err := store.List("screenshot/")
		assert.NoError(t, err)
		assert.Equal(t, []string{"screenshot/1-site.jpg"}, entries)
	})

	t.Run("delete", func(t *testing.T) {
		assert.NoError(t, store.Delete("receipt/2-invoice.pdf"))

		_, err := store.Read("receipt/2-invoice.pdf")
		assert.Error(t, err)
	})

	t.Run("path escapes are contained", func(t *testing.T) {
		url, err := store.Upload([]byte("x"), "../outside.txt")
		assert.NoError(t, err)
		assert.Equal(t, "../outside.txt", url)

		// the object lands inside the root regardless
		data, err := store.Read("outside.txt")
		assert.NoError(t, err)
		assert.Equal(t, []byte("x"), data)
	})

	t.Run("empty path rejected", func(t *testing.T) {
		_, err := store.Upload([]byte("x"), "")
		assert.Error(t, err)
	})
}

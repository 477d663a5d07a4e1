package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFSStore_PutGetDelete(t *testing.T) {
	// Arrange
	store, err := NewFSStore(t.TempDir())
	assert.NoError(t, err)
	ctx := context.Background()

	// Act
	err = store.Put(ctx, "qr/7/abc.png", []byte("png-bytes"), ContentTypePNG)
	assert.NoError(t, err)

	data, err := store.Get(ctx, "qr/7/abc.png")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	// Delete and verify gone
	assert.NoError(t, store.Delete(ctx, "qr/7/abc.png"))
	_, err = store.Get(ctx, "qr/7/abc.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFSStore_GetMissing(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	assert.NoError(t, err)

	_, err = store.Get(context.Background(), "labels/1/missing.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFSStore_DeleteMissingIsNoop(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	assert.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "labels/1/missing.png"))
}

func TestFSStore_PutOverwrites(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	assert.NoError(t, err)
	ctx := context.Background()

	assert.NoError(t, store.Put(ctx, "a/b.png", []byte("old"), ContentTypePNG))
	assert.NoError(t, store.Put(ctx, "a/b.png", []byte("new"), ContentTypePNG))

	data, err := store.Get(ctx, "a/b.png")
	assert.NoError(t, err)
	assert.Equal(t, []byte("new"), data)
}

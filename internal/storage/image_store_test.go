package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/errors"
)

func TestLocalImageStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	store, err := NewLocalImageStore(dir, "http://shop.test/")
	require.NoError(t, err)

	name, err := store.Save(context.Background(), "../../etc/Photo.PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"))
	assert.NotContains(t, name, "/")

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "http://shop.test/static/images/"+name, store.URL(name))
}

func TestLocalImageStore_RejectsOtherTypes(t *testing.T) {
	store, err := NewLocalImageStore(t.TempDir(), "http://shop.test")
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "script.sh", strings.NewReader("#!/bin/sh"))
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestLocalImageStore_UniqueNames(t *testing.T) {
	store, err := NewLocalImageStore(t.TempDir(), "http://shop.test")
	require.NoError(t, err)

	a, err := store.Save(context.Background(), "a.jpg", strings.NewReader("1"))
	require.NoError(t, err)
	b, err := store.Save(context.Background(), "a.jpg", strings.NewReader("2"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

package storage

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rag-assistant/backend/internal/domain/document"
)

// setupTestDB 创建临时测试数据库
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDocumentRepository_CRUD(t *testing.T) {
	repo, err := NewDocumentRepository(setupTestDB(t))
	require.NoError(t, err)

	base := time.UnixMilli(time.Now().UnixMilli())
	first := &document.Document{
		ID: "d1", Filename: "a.txt", FilePath: "/docs/d1_a.txt",
		Size: 10, ChunkCount: 1, ContentHash: "h1", CreatedAt: base,
	}
	second := &document.Document{
		ID: "d2", Filename: "b.pdf", FilePath: "/docs/d2_b.pdf",
		Size: 9000, ChunkCount: 3, ContentHash: "h2", CreatedAt: base.Add(time.Second),
	}
	require.NoError(t, repo.Save(first))
	require.NoError(t, repo.Save(second))

	got, err := repo.FindByID("d1")
	require.NoError(t, err)
	assert.Equal(t, first.Filename, got.Filename)
	assert.Equal(t, first.ChunkCount, got.ChunkCount)
	assert.True(t, first.CreatedAt.Equal(got.CreatedAt))

	all, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "d2", all[0].ID)

	require.NoError(t, repo.Delete("d1"))
	assert.ErrorIs(t, repo.Delete("d1"), document.ErrDocumentNotFound)

	_, err = repo.FindByID("d1")
	assert.ErrorIs(t, err, document.ErrDocumentNotFound)
}

func TestFileBlobStore_Put(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "documents")
	store := NewFileBlobStoreAt(dir)

	path, size, err := store.Put("id1", `C:\Users\me\report.txt`, bytes.NewBufferString("hello"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "id1_report.txt"), path)
	assert.Equal(t, int64(5), size)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, store.Remove(path))
	require.NoError(t, store.Remove(path), "removing twice is fine")
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"notes.md", "notes.md", false},
		{"../../etc/passwd", "passwd", false},
		{`dir\file.pdf`, "file.pdf", false},
		{"", "", true},
		{"..", "", true},
		{"/", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := SafeFilename(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, document.ErrEmptyFilename)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

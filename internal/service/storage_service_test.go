package service

import (
	"context"
	"edu_eval_backend/internal/config"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStorageUploadBytes(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Storage: config.StorageConfig{Type: "local", LocalPath: dir}}
	s := NewStorageService(cfg)

	url, err := s.UploadBytes(context.Background(), "exports/xade/6A/table.csv", []byte("NIA;Alumno\n"), "text/csv")
	if err != nil {
		t.Fatalf("UploadBytes: %v", err)
	}
	if url != "/uploads/exports/xade/6A/table.csv" {
		t.Fatalf("unexpected url %q", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, "exports", "xade", "6A", "table.csv"))
	if err != nil || string(data) != "NIA;Alumno\n" {
		t.Fatalf("stored file = %q (%v)", data, err)
	}

	if err := s.Delete(context.Background(), "exports/xade/6A/table.csv"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestStorageFallsBackToLocal(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Type: "minio", MinioEndpoint: "http://bad endpoint", LocalPath: t.TempDir()}}
	if _, ok := NewStorageService(cfg).Provider.(*LocalStorageProvider); !ok {
		t.Fatalf("expected local fallback for an invalid MinIO endpoint")
	}
}

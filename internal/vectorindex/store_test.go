package vectorindex

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/kailas-cloud/dogreid/internal/domain"
)

func writeFixture(t *testing.T, vectors [][]float32, meta []Metadata) Config {
	t.Helper()
	dir := t.TempDir()
	cfg := Config{
		Type:         TypeFlat,
		VectorsPath:  filepath.Join(dir, "dogs.idx"),
		MetadataPath: filepath.Join(dir, "meta.parquet"),
		Dimensions:   3,
	}
	if err := WriteFlat(cfg.VectorsPath, 3, vectors); err != nil {
		t.Fatalf("WriteFlat: %v", err)
	}
	if err := WriteMetadata(cfg.MetadataPath, meta); err != nil {
		t.Fatalf("WriteMetadata: %v", err)
	}
	return cfg
}

func TestLoad_Success(t *testing.T) {
	meta := []Metadata{
		{PetID: 1, OwnerID: int64Ptr(10), URL: "a"},
		{PetID: 2, URL: "b"},
		{PetID: 1, OwnerID: int64Ptr(10), URL: "c"},
		{PetID: 3, URL: "d"},
		{PetID: 4, OwnerID: int64Ptr(11), URL: "e"},
	}
	cfg := writeFixture(t, testVectors(), meta)

	s, err := Load(cfg)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer s.Close()

	if s.Size() != 5 || s.Dimensions() != 3 {
		t.Fatalf("size=%d dim=%d", s.Size(), s.Dimensions())
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}

	m, ok := s.Metadata(1)
	if !ok || m.PetID != 2 || m.URL != "b" || m.OwnerID != nil {
		t.Errorf("unexpected metadata at 1: %+v", m)
	}
	m, ok = s.Metadata(4)
	if !ok || m.OwnerID == nil || *m.OwnerID != 11 {
		t.Errorf("unexpected metadata at 4: %+v", m)
	}
	if _, ok := s.Metadata(5); ok {
		t.Error("position 5 should be out of range")
	}
	if _, ok := s.Metadata(-1); ok {
		t.Error("position -1 should be out of range")
	}
}

func TestLoad_CountMismatch(t *testing.T) {
	cfg := writeFixture(t, testVectors(), []Metadata{{PetID: 1, URL: "a"}})

	_, err := Load(cfg)
	if !errors.Is(err, domain.ErrIndexMetadataMismatch) {
		t.Fatalf("expected ErrIndexMetadataMismatch, got %v", err)
	}
	var me *domain.MismatchError
	if !errors.As(err, &me) || me.Vectors != 5 || me.Metadata != 1 {
		t.Errorf("unexpected mismatch detail: %v", err)
	}
}

func TestLoad_MissingMetadata(t *testing.T) {
	cfg := writeFixture(t, testVectors(), nil)
	cfg.MetadataPath = filepath.Join(t.TempDir(), "missing.parquet")
	if _, err := Load(cfg); err == nil {
		t.Fatal("expected error")
	}
}

func TestStore_Search(t *testing.T) {
	idx, _ := NewFlat(3, testVectors())
	meta := make([]Metadata, 5)
	s, err := NewStore(idx, meta)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	hits, err := s.Search(context.Background(), []float32{0, 0, 1}, 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if hits[0].Position != 3 {
		t.Errorf("expected position 3 first, got %d", hits[0].Position)
	}

	if _, err := s.Search(context.Background(), []float32{1}, 2); !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Errorf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestOpen_FAISSMissingFile(t *testing.T) {
	if _, err := Open(TypeFAISS, filepath.Join(t.TempDir(), "dogs.faiss"), 0); err == nil {
		t.Fatal("expected error")
	}
}

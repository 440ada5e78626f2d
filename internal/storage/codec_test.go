package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"boxyjump/internal/model"
)

func TestDecodeLifeFixture(t *testing.T) {
	data, err := os.ReadFile(fixturePath("life_record_v1.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	life, err := DecodeLife(data)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	if life.RunID != "run-fixture-1" || life.Generation != 7 || life.Operation != "mate" {
		t.Fatalf("unexpected life header: %+v", life)
	}
	if len(life.ParentGenerations) != 2 || life.ParentGenerations[1] != 6 {
		t.Fatalf("unexpected parents: %v", life.ParentGenerations)
	}
	if len(life.Genome.Responses) != 2 || life.Genome.Responses[1].Kind != "jump" || life.Genome.Responses[1].Secondary != 62.5 {
		t.Fatalf("unexpected genome snapshot: %+v", life.Genome)
	}
}

func TestDecodeRejectsVersionMismatch(t *testing.T) {
	payload, err := EncodeRun(model.Run{ID: "r1"})
	if err != nil {
		t.Fatalf("encode run: %v", err)
	}
	if _, err := DecodeRun(payload); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected version mismatch, got %v", err)
	}

	payload, err = EncodeLife(model.LifeRecord{VersionedRecord: model.VersionedRecord{SchemaVersion: 2, CodecVersion: 1}})
	if err != nil {
		t.Fatalf("encode life: %v", err)
	}
	if _, err := DecodeLife(payload); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected version mismatch, got %v", err)
	}
}

func TestDecodeRejectsMalformedPayload(t *testing.T) {
	if _, err := DecodeLife([]byte("{")); err == nil {
		t.Fatal("expected decode error")
	}
}

func fixturePath(name string) string {
	return filepath.Join("..", "..", "testdata", "fixtures", name)
}

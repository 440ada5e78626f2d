package storage

import (
	"encoding/json"
	"errors"

	"boxyjump/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

// Versioned stamps the current schema and codec versions.
func Versioned() model.VersionedRecord {
	return model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
}

func EncodeRun(r model.Run) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeRun(data []byte) (model.Run, error) {
	var run model.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return model.Run{}, err
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return model.Run{}, err
	}
	return run, nil
}

func EncodeLife(l model.LifeRecord) ([]byte, error) {
	return json.Marshal(l)
}

func DecodeLife(data []byte) (model.LifeRecord, error) {
	var life model.LifeRecord
	if err := json.Unmarshal(data, &life); err != nil {
		return model.LifeRecord{}, err
	}
	if err := checkVersion(life.VersionedRecord); err != nil {
		return model.LifeRecord{}, err
	}
	return life, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}

package model

import "time"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// GenomeSnapshot is a read-only, presentation-neutral copy of a genome.
type GenomeSnapshot struct {
	Generation int                `json:"generation"`
	Receptors  []string           `json:"receptors"`
	Responses  []ResponseSnapshot `json:"responses"`
}

type ResponseSnapshot struct {
	Receptor  string  `json:"receptor"`
	Kind      string  `json:"kind"`
	Odds      float64 `json:"odds"`
	Amount    float64 `json:"amount"`
	Secondary float64 `json:"secondary"`
	// Active is false when the receptor the response hangs off is not present.
	Active bool `json:"active"`
}

type Run struct {
	VersionedRecord
	ID                  string    `json:"id"`
	Seed                int64     `json:"seed"`
	CourseSeed          int64     `json:"course_seed"`
	MutationChance      float64   `json:"mutation_chance"`
	MutationRate        float64   `json:"mutation_rate"`
	SignificantProgress float64   `json:"significant_progress"`
	StartedAt           time.Time `json:"started_at"`
}

// LifeRecord is the persisted form of one scored life.
type LifeRecord struct {
	VersionedRecord
	RunID             string         `json:"run_id"`
	Generation        int            `json:"generation"`
	Score             float64        `json:"score"`
	Distance          float64        `json:"distance"`
	Elapsed           float64        `json:"elapsed"`
	Operation         string         `json:"operation"`
	ParentGenerations []int          `json:"parent_generations,omitempty"`
	Genome            GenomeSnapshot `json:"genome"`
}

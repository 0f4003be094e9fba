package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Params holds the populate-pipeline knobs, loaded from params.yaml.
// Chunk sizes and token limits are all measured in the same token unit
// as the pipeline's TokenCounter.
type Params struct {
	DataDir         string `yaml:"data_dir"`
	ChunksFile      string `yaml:"chunks_file"`
	ChunkSize       int    `yaml:"chunk_size"`
	ChunkOverlap    int    `yaml:"chunk_overlap"`
	LowerTokenLimit int    `yaml:"lower_token_limit"`
	UpperTokenLimit int    `yaml:"upper_token_limit"`
	IngestBatchSize int    `yaml:"ingest_batch_size"`
	TopK            int    `yaml:"top_k"`
	FailFast        bool   `yaml:"fail_fast"`
}

// DefaultParams returns the values used when params.yaml is absent.
func DefaultParams() *Params {
	return &Params{
		DataDir:         "data",
		ChunksFile:      "faiss/chunks.jsonl",
		ChunkSize:       400,
		ChunkOverlap:    80,
		LowerTokenLimit: 10,
		UpperTokenLimit: 2000,
		IngestBatchSize: 16,
		TopK:            5,
		FailFast:        false,
	}
}

// LoadParams reads params.yaml from the given path. A missing file yields
// the defaults; a present but invalid file is an error.
func LoadParams(path string) (*Params, error) {
	p := DefaultParams()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read params: %w", err)
	}

	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse params: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Params) Validate() error {
	if p.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", p.ChunkSize)
	}
	if p.ChunkOverlap < 0 || p.ChunkOverlap >= p.ChunkSize {
		return fmt.Errorf("chunk_overlap must satisfy 0 <= overlap < chunk_size, got %d", p.ChunkOverlap)
	}
	if p.IngestBatchSize <= 0 {
		return fmt.Errorf("ingest_batch_size must be positive, got %d", p.IngestBatchSize)
	}
	if p.LowerTokenLimit >= p.UpperTokenLimit {
		return fmt.Errorf("token window is empty: lower=%d upper=%d", p.LowerTokenLimit, p.UpperTokenLimit)
	}
	return nil
}

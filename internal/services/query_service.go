package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/raget/internal/core"
	"github.com/markdave123-py/raget/internal/core/llm"
	"github.com/markdave123-py/raget/internal/models"
)

// QueryService answers questions over the ingested corpus: embed the
// question, retrieve the top-k chunks from pgvector, grade each for
// relevance, then generate a concise answer from the relevant context.
type QueryService struct {
	db       core.DbClient
	embedder core.EmbeddingProvider
	llm      core.LLMProvider
	topK     int
	logger   *slog.Logger
}

func NewQueryService(db core.DbClient, embedder core.EmbeddingProvider, provider core.LLMProvider, topK int, logger *slog.Logger) *QueryService {
	if topK <= 0 {
		topK = 5
	}
	return &QueryService{db: db, embedder: embedder, llm: provider, topK: topK, logger: logger}
}

// Answer runs the full query path and returns the generated answer plus
// the chunks it was grounded on.
func (s *QueryService) Answer(ctx context.Context, question string) (string, []models.DocumentChunk, error) {
	vecs, err := s.embedder.EmbedTexts(ctx, []string{question})
	if err != nil {
		return "", nil, fmt.Errorf("embed question: %w", err)
	}
	if len(vecs) == 0 {
		return "", nil, fmt.Errorf("embed question: empty response")
	}

	chunks, err := s.db.SearchChunks(ctx, vecs[0], s.topK)
	if err != nil {
		return "", nil, fmt.Errorf("search chunks: %w", err)
	}
	if len(chunks) == 0 {
		return llm.NoAnswerReply, nil, nil
	}

	relevant := s.gradeChunks(ctx, question, chunks)
	if len(relevant) == 0 {
		s.logger.Info("no retrieved chunk graded relevant", "retrieved", len(chunks))
		return llm.NoAnswerReply, nil, nil
	}

	var sb strings.Builder
	for _, ch := range relevant {
		sb.WriteString(ch.Content)
		sb.WriteString("\n---\n")
	}

	system, user := llm.AnswerPrompt(question, sb.String())
	answer, err := s.llm.Generate(ctx, system, user)
	if err != nil {
		return "", nil, fmt.Errorf("generate answer: %w", err)
	}
	return answer, relevant, nil
}

// gradeChunks filters the retrieved chunks concurrently with the
// retrieval-grader prompt. A grader failure keeps the chunk: erroneous
// retrievals are cheaper than dropped answers.
func (s *QueryService) gradeChunks(ctx context.Context, question string, chunks []models.DocumentChunk) []models.DocumentChunk {
	keep := make([]bool, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for i := range chunks {
		g.Go(func() error {
			ok, err := s.gradeOne(gctx, question, chunks[i].Content)
			if err != nil {
				s.logger.Warn("grading failed; keeping chunk", "chunk_id", chunks[i].ChunkID, "err", err)
				keep[i] = true
				return nil
			}
			keep[i] = ok
			return nil
		})
	}
	_ = g.Wait()

	var relevant []models.DocumentChunk
	for i, ch := range chunks {
		if keep[i] {
			relevant = append(relevant, ch)
		}
	}
	return relevant
}

type graderScore struct {
	Score string `json:"score"`
}

func (s *QueryService) gradeOne(ctx context.Context, question, document string) (bool, error) {
	system, user := llm.GraderPrompt(question, document)
	raw, err := s.llm.Generate(ctx, system, user)
	if err != nil {
		return false, err
	}

	var score graderScore
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &score); err != nil {
		return false, fmt.Errorf("parse grader output %q: %w", raw, err)
	}
	return strings.EqualFold(strings.TrimSpace(score.Score), "YES"), nil
}

// stripCodeFence removes a ```json ... ``` wrapper if the model added one.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

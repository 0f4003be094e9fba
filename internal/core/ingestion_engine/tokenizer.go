package ingestion_engine

// TokenCounter reports how many tokens a piece of text encodes to.
// The splitter and the token-window filter must share one counter so the
// configured size bounds mean the same thing in both places.
type TokenCounter interface {
	Count(text string) (int, error)
}

// ApproxCounter is a cheap token estimator (~4 runes ≈ 1 token).
// Swap in a real tokenizer here to improve chunk boundaries.
type ApproxCounter struct{}

func (ApproxCounter) Count(text string) (int, error) {
	n := len([]rune(text))
	if n <= 0 {
		return 0, nil
	}
	return (n + 3) / 4, nil
}

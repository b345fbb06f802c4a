package cart

import "sync/atomic"

// Sequence hands out refresh tokens.
//
// Every GET /cart is stamped with a strictly increasing token. A response
// is applied only if its token is newer than the last applied one, so a
// slow early refresh can never overwrite a later one.
//
// Thread-safety: Sequence is safe for concurrent use (atomic operations).
type Sequence struct {
	n atomic.Int64
}

// Next returns the next token.
// Calls are linearizable - each call returns a unique, increasing value.
func (s *Sequence) Next() int64 {
	return s.n.Add(1)
}

// Current returns the last token handed out without incrementing.
func (s *Sequence) Current() int64 {
	return s.n.Load()
}

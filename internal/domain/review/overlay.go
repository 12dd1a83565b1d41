package review

import (
	"sync"
	"time"
)

// Overlay layers one session's submitted reviews and helpful votes over the
// fixture repository. Nothing it holds is persisted.
type Overlay struct {
	repo *Repository
	now  func() time.Time

	mu      sync.RWMutex
	added   map[string][]Review
	helpful map[string]int
}

func NewOverlay(repo *Repository) *Overlay {
	return &Overlay{
		repo:    repo,
		now:     time.Now,
		added:   make(map[string][]Review),
		helpful: make(map[string]int),
	}
}

// Reviews lists the session's own reviews newest first, then the fixtures,
// with helpful votes applied.
func (o *Overlay) Reviews(productID string) []Review {
	o.mu.RLock()
	defer o.mu.RUnlock()

	added := o.added[productID]
	fixtures := o.repo.ForProduct(productID)
	out := make([]Review, 0, len(added)+len(fixtures))
	for i := len(added) - 1; i >= 0; i-- {
		out = append(out, o.applyVotes(added[i]))
	}
	for _, r := range fixtures {
		out = append(out, o.applyVotes(r))
	}
	return out
}

func (o *Overlay) Summary(productID string) Summary {
	return Summarize(o.Reviews(productID))
}

// Add validates and records a submission for the session.
func (o *Overlay) Add(productID string, n NewReview) (Review, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	r, err := NewFromSubmission(productID, n, o.now())
	if err != nil {
		return Review{}, err
	}
	// ids are millisecond based; keep them unique within the session
	for o.exists(r.ID) {
		r.ID += "-1"
	}
	o.added[productID] = append(o.added[productID], r)
	return r, nil
}

// MarkHelpful adds one helpful vote and returns the updated review.
func (o *Overlay) MarkHelpful(reviewID string) (Review, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	r, ok := o.find(reviewID)
	if !ok {
		return Review{}, ErrReviewNotFound
	}
	o.helpful[reviewID]++
	return o.applyVotes(r), nil
}

func (o *Overlay) find(reviewID string) (Review, bool) {
	if r, ok := o.repo.ByID(reviewID); ok {
		return r, true
	}
	for _, reviews := range o.added {
		for _, r := range reviews {
			if r.ID == reviewID {
				return r, true
			}
		}
	}
	return Review{}, false
}

func (o *Overlay) exists(reviewID string) bool {
	_, ok := o.find(reviewID)
	return ok
}

func (o *Overlay) applyVotes(r Review) Review {
	r.HelpfulCount += o.helpful[r.ID]
	return r
}

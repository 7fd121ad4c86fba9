package insights

import (
	"context"
	"slices"

	"github.com/unowned-ai/rpager/pkg/store"
)

// UnlockSet is the persisted set of unlocked achievement ids.
type UnlockSet struct {
	IDs []int `json:"ids"`
}

func (u UnlockSet) Has(id int) bool {
	return slices.Contains(u.IDs, id)
}

// Tracker keeps the unlock set. Refresh only ever adds ids, so an
// achievement stays unlocked after the underlying stat drops.
type Tracker struct {
	doc *store.Document[UnlockSet]
}

func NewTracker(doc *store.Document[UnlockSet]) *Tracker {
	return &Tracker{doc: doc}
}

// Unlocked returns the persisted ids in ascending order.
func (t *Tracker) Unlocked(ctx context.Context) ([]int, error) {
	set, err := t.doc.Value(ctx)
	if err != nil {
		return nil, err
	}
	ids := slices.Clone(set.IDs)
	slices.Sort(ids)
	return ids, nil
}

// Refresh evaluates p, persists any new unlocks and returns the achievements
// unlocked by this call. Nothing is written when nothing new unlocked.
func (t *Tracker) Refresh(ctx context.Context, p Progress) ([]Achievement, error) {
	met := Evaluate(p)

	var fresh []Achievement
	_, _, err := t.doc.Mutate(ctx, func(current UnlockSet) (UnlockSet, bool, error) {
		fresh = fresh[:0]
		next := UnlockSet{IDs: slices.Clone(current.IDs)}
		for _, id := range met {
			if next.Has(id) {
				continue
			}
			next.IDs = append(next.IDs, id)
			if a, ok := AchievementByID(id); ok {
				fresh = append(fresh, a)
			}
		}
		if len(next.IDs) == len(current.IDs) {
			return current, false, nil
		}
		slices.Sort(next.IDs)
		return next, true, nil
	})
	if err != nil {
		return nil, err
	}
	return fresh, nil
}

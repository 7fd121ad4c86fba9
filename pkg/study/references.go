package study

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unowned-ai/rpager/pkg/store"
)

// UncategorisedReference groups references without a category.
const UncategorisedReference = "Uncategorised"

func (s *Store) AddReference(ctx context.Context, ref Reference) (Reference, error) {
	if ref.ID == "" {
		ref.ID = uuid.NewString()
	}
	if ref.UploadDate.IsZero() {
		ref.UploadDate = NewMillis(s.Now())
	}
	ref.Name = strings.TrimSpace(ref.Name)
	ref.Category = strings.TrimSpace(ref.Category)

	if err := s.references.Add(ctx, ref); err != nil {
		return Reference{}, err
	}
	return ref, nil
}

func (s *Store) ListReferences(ctx context.Context) ([]Reference, error) {
	return s.references.List(ctx)
}

func (s *Store) GetReference(ctx context.Context, id string) (Reference, error) {
	return s.references.Get(ctx, id)
}

// SetReadingProgress sets the percent read; values outside 0..100 are
// rejected with store.ErrInvalid.
func (s *Store) SetReadingProgress(ctx context.Context, id string, percent int) (bool, error) {
	if percent < 0 || percent > 100 {
		return false, store.Invalid("progress", "%d is outside 0..100", percent)
	}
	return s.references.Update(ctx, id, func(r Reference) Reference {
		r.Progress = percent
		return r
	})
}

func (s *Store) ToggleBookmark(ctx context.Context, id string) (bool, error) {
	return s.references.Update(ctx, id, func(r Reference) Reference {
		r.Bookmarked = !r.Bookmarked
		return r
	})
}

// MarkOpened stamps the reference as opened at the given instant.
func (s *Store) MarkOpened(ctx context.Context, id string, at time.Time) (bool, error) {
	at = s.orNow(at)
	return s.references.Update(ctx, id, func(r Reference) Reference {
		r.LastOpened = MillisPtr(at)
		return r
	})
}

func (s *Store) DeleteReference(ctx context.Context, id string) (bool, error) {
	return s.references.Remove(ctx, id)
}

// ReferencesByCategory groups references by category, keeping storage order
// inside each group.
func (s *Store) ReferencesByCategory(ctx context.Context) (map[string][]Reference, error) {
	refs, err := s.references.List(ctx)
	if err != nil {
		return nil, err
	}
	groups := make(map[string][]Reference)
	for _, r := range refs {
		cat := r.Category
		if cat == "" {
			cat = UncategorisedReference
		}
		groups[cat] = append(groups[cat], r)
	}
	return groups, nil
}

// Categories lists the category names of groups in order.
func Categories(groups map[string][]Reference) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

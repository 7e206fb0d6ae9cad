package service

import "github.com/msomdec/recipe-api/internal/domain"

// ResolveTags maps requested tag names onto the owner's existing tags.
//
// A name that matches an existing tag of ownerID exactly reuses that tag.
// Any other name becomes a new tag owned by ownerID with a zero ID, to be
// inserted when the result is committed. Repeated names collapse to a single
// entry and the first-seen order is kept. Tags in existing that belong to a
// different owner are never matched.
//
// Names are compared as given. RecipeService trims surrounding whitespace
// before calling, so " Dinner" and "Dinner" resolve to the same tag there.
//
// ResolveTags does no I/O; running it twice over the same inputs gives the
// same result.
func ResolveTags(ownerID int64, names []string, existing []domain.Tag) []domain.Tag {
	byName := make(map[string]domain.Tag, len(existing))
	for _, t := range existing {
		if t.UserID != ownerID {
			continue
		}
		if _, ok := byName[t.Name]; !ok {
			byName[t.Name] = t
		}
	}

	resolved := make([]domain.Tag, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		if t, ok := byName[name]; ok {
			resolved = append(resolved, t)
			continue
		}
		resolved = append(resolved, domain.Tag{UserID: ownerID, Name: name})
	}
	return resolved
}

package core

// FavoriteSet tracks which book ids the user has marked favorite. It
// lives for the whole component lifetime, independent of any single
// list snapshot: search results are resynchronized from it when they
// are mapped, but snapshots already rendered are not retroactively
// updated.
type FavoriteSet struct {
	ids map[string]struct{}
}

// NewFavoriteSet returns an empty favorite set.
func NewFavoriteSet() *FavoriteSet {
	return &FavoriteSet{ids: make(map[string]struct{})}
}

// Add marks id as favorite.
func (s *FavoriteSet) Add(id string) {
	s.ids[id] = struct{}{}
}

// Remove unmarks id.
func (s *FavoriteSet) Remove(id string) {
	delete(s.ids, id)
}

// Has reports whether id is marked favorite.
func (s *FavoriteSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of favorited ids.
func (s *FavoriteSet) Len() int {
	return len(s.ids)
}

// Package core holds the domain types shared by the catalog clients,
// the browse controller and the TUI.
package core

// Book is a catalog record augmented with the derived presentation
// fields the UI needs. The catalog backends never produce the derived
// fields; they are computed when a record is mapped into a Book.
type Book struct {
	ID       string
	Name     string
	Price    *float64
	Language string
	Genre    string

	// Derived, never sent by a backend.
	IsFavorite     bool
	PriceFormatted string
}

// NewBook maps a raw catalog record into a Book, computing the derived
// fields. The favorite flag is taken from favs; a nil set marks the
// book as not favorited.
func NewBook(rec Record, favs *FavoriteSet) Book {
	return Book{
		ID:             rec.ID,
		Name:           rec.Name,
		Price:          rec.Price,
		Language:       rec.Language,
		Genre:          rec.Genre,
		IsFavorite:     favs != nil && favs.Has(rec.ID),
		PriceFormatted: FormatPrice(rec.Price),
	}
}

// MapRecords maps a full result set into Books. A nil favorite set
// leaves every book unfavorited, which is what the initial catalog
// load does regardless of prior favorites.
func MapRecords(recs []Record, favs *FavoriteSet) []Book {
	books := make([]Book, 0, len(recs))
	for _, rec := range recs {
		books = append(books, NewBook(rec, favs))
	}
	return books
}

// SetFavorite returns a copy of books with the flag of the book with
// the given id flipped to fav. The input slice is not mutated; list
// snapshots already handed to a renderer stay as they were.
func SetFavorite(books []Book, id string, fav bool) []Book {
	out := make([]Book, len(books))
	copy(out, books)
	for i := range out {
		if out[i].ID == id {
			out[i].IsFavorite = fav
		}
	}
	return out
}

// FindBook returns the book with the given id, or false when the id is
// not in the list.
func FindBook(books []Book, id string) (Book, bool) {
	for _, b := range books {
		if b.ID == id {
			return b, true
		}
	}
	return Book{}, false
}

// Record is the raw catalog record shape shared by every catalog
// backend. Price may be absent.
type Record struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Price    *float64 `json:"price,omitempty" yaml:"price,omitempty"`
	Language string   `json:"language" yaml:"language"`
	Genre    string   `json:"genre" yaml:"genre"`
}

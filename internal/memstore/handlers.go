package memstore

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const maxBody = 1 << 20

// Handler returns the REST API mounted under /api.
func (s *Store) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/books", s.inject(OpListBooks, s.listBooks))
		r.Post("/books", s.inject(OpCreateBook, s.createBook))
		r.Put("/books/{id}", s.inject(OpUpdateShelf, s.updateShelf))
		r.Put("/books/{id}/details", s.inject(OpUpdateDetails, s.updateDetails))
		r.Put("/books/{id}/type", s.inject(OpUpdateType, s.updateType))
		r.Delete("/books/{id}", s.inject(OpDeleteBook, s.deleteBook))
		r.Get("/shelves", s.inject(OpListShelves, s.listShelves))
		r.Post("/shelves", s.inject(OpCreateShelf, s.createShelf))
		r.Get("/search", s.inject(OpSearch, s.search))
	})
	return r
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Debug("store request", "method", r.Method, "uri", r.RequestURI,
			"status", ww.Status(), "request_id", r.Header.Get("X-Request-ID"), "duration", time.Since(start))
	})
}

// inject answers with a queued failure for op, if any.
func (s *Store) inject(op string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if f, ok := s.takeFailure(op); ok {
			respondWithError(w, f.status, f.message)
			return
		}
		h(w, r)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	if message == "" {
		w.WriteHeader(code)
		return
	}
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("encoding response", "error", err)
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

// decode reads a JSON body strictly. It writes the error response itself.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			respondWithError(w, http.StatusBadRequest, "Request body must not be empty")
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			respondWithError(w, http.StatusBadRequest, "Request body contains badly-formed JSON")
		case errors.As(err, &maxErr):
			respondWithError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		default:
			respondWithError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		}
		return false
	}
	return true
}

func (s *Store) listBooks(w http.ResponseWriter, r *http.Request) {
	books := s.Books()
	if books == nil {
		books = []catalog.Book{}
	}
	respondWithJSON(w, http.StatusOK, books)
}

func (s *Store) createBook(w http.ResponseWriter, r *http.Request) {
	var d catalog.Draft
	if !decode(w, r, &d) {
		return
	}
	d.Title = strings.TrimSpace(d.Title)
	d.CatalogRef = strings.TrimSpace(d.CatalogRef)
	if err := d.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing required fields: title and open_library_id")
		return
	}

	s.mu.Lock()
	if catalog.ByCatalogRef(s.books, d.CatalogRef) != nil {
		s.mu.Unlock()
		respondWithError(w, http.StatusConflict, "Book already exists")
		return
	}
	created := s.insertLocked(catalog.Book{
		Title:      d.Title,
		Author:     d.Author,
		CatalogRef: d.CatalogRef,
		ISBN:       d.ISBN,
		CoverURL:   d.CoverURL,
	})
	s.mu.Unlock()
	respondWithJSON(w, http.StatusCreated, created)
}

func (s *Store) updateShelf(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ShelfID catalog.ID `json:"shelf_id"`
	}
	if !decode(w, r, &payload) {
		return
	}
	id := catalog.ID(chi.URLParam(r, "id"))

	s.mu.Lock()
	i := s.bookIndexLocked(id)
	switch {
	case i < 0:
		s.mu.Unlock()
		respondWithError(w, http.StatusNotFound, "Book not found")
		return
	case !s.hasShelfLocked(payload.ShelfID):
		s.mu.Unlock()
		respondWithError(w, http.StatusBadRequest, "Invalid shelf")
		return
	}
	s.books[i].ShelfID = payload.ShelfID
	updated := s.books[i]
	s.mu.Unlock()
	respondWithJSON(w, http.StatusOK, updated)
}

func (s *Store) updateDetails(w http.ResponseWriter, r *http.Request) {
	var d catalog.Details
	if !decode(w, r, &d) {
		return
	}
	if err := d.Validate(); err != nil {
		var ve *catalog.ValidationError
		if errors.As(err, &ve) {
			respondWithError(w, http.StatusBadRequest, detailsMessage(ve))
			return
		}
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mutate(w, catalog.ID(chi.URLParam(r, "id")), func(b *catalog.Book) {
		*b = b.WithDetails(d.Normalize())
	})
}

func (s *Store) updateType(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Type catalog.Format `json:"type"`
	}
	if !decode(w, r, &payload) {
		return
	}
	if !payload.Type.Valid() {
		respondWithError(w, http.StatusBadRequest, "Invalid type value. Must be 'book' or 'audiobook'")
		return
	}
	s.mutate(w, catalog.ID(chi.URLParam(r, "id")), func(b *catalog.Book) {
		b.Format = payload.Type
	})
}

func (s *Store) mutate(w http.ResponseWriter, id catalog.ID, fn func(*catalog.Book)) {
	s.mu.Lock()
	i := s.bookIndexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		respondWithError(w, http.StatusNotFound, "Book not found")
		return
	}
	fn(&s.books[i])
	updated := s.books[i]
	s.mu.Unlock()
	respondWithJSON(w, http.StatusOK, updated)
}

func (s *Store) deleteBook(w http.ResponseWriter, r *http.Request) {
	id := catalog.ID(chi.URLParam(r, "id"))
	s.mu.Lock()
	i := s.bookIndexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		respondWithError(w, http.StatusNotFound, "Book not found")
		return
	}
	s.books = append(s.books[:i], s.books[i+1:]...)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Store) listShelves(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, s.Shelves())
}

func (s *Store) createShelf(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name"`
	}
	if !decode(w, r, &payload) {
		return
	}
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		respondWithError(w, http.StatusBadRequest, "Shelf name is required")
		return
	}
	s.mu.Lock()
	for _, sh := range s.shelves {
		if strings.EqualFold(sh.Name, name) {
			s.mu.Unlock()
			respondWithError(w, http.StatusConflict, "Shelf already exists")
			return
		}
	}
	sh := catalog.Shelf{ID: s.shelfByNameLocked(name), Name: name}
	s.mu.Unlock()
	respondWithJSON(w, http.StatusCreated, sh)
}

func (s *Store) search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		respondWithError(w, http.StatusBadRequest, "Missing search query parameter 'q'")
		return
	}
	s.mu.Lock()
	results := []catalog.Candidate{}
	for _, c := range s.catalog {
		if catalog.MatchesSearch(catalog.Book{Title: c.Title, Author: c.Author}, q) {
			results = append(results, c)
		}
	}
	s.mu.Unlock()
	respondWithJSON(w, http.StatusOK, results)
}

func detailsMessage(ve *catalog.ValidationError) string {
	switch ve.Field {
	case "rating":
		return "Rating must be between 1 and 10"
	case "series_index":
		return "Series index must be greater than 0"
	case "series":
		if strings.Contains(ve.Message, "series number") {
			return "Cannot provide series_index without series name"
		}
	}
	return ve.Error()
}

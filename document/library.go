package document

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Library is the in-memory document registry for the service. Documents
// are registered once (content extracted eagerly) and served read-only
// afterwards.
type Library struct {
	mu        sync.Mutex
	docs      map[string]Document
	contents  map[string]Content
	ids       []string // registration order, for stable listings
	extractor Extractor
	logger    *log.Logger
}

func NewLibrary(extractor Extractor, logger *log.Logger) *Library {
	if logger == nil {
		logger = log.Default()
	}
	return &Library{
		docs:      make(map[string]Document),
		contents:  make(map[string]Content),
		extractor: extractor,
		logger:    logger,
	}
}

// Register extracts a document's content and adds it to the registry. The
// document's Title and TotalPages are filled from extraction when unset.
func (l *Library) Register(doc Document) error {
	if doc.ID == "" || doc.Path == "" {
		return fmt.Errorf("document needs id and path")
	}
	content, err := l.extractor.Extract(doc.Path)
	if err != nil {
		return err
	}
	if doc.Title == "" {
		doc.Title = content.Title
	}
	doc.TotalPages = content.TotalPages
	content.Title = doc.Title

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.docs[doc.ID]; ok {
		return fmt.Errorf("document %q already registered", doc.ID)
	}
	l.docs[doc.ID] = doc
	l.contents[doc.ID] = content
	l.ids = append(l.ids, doc.ID)
	return nil
}

// LoadDir registers every *.pdf under dir for owner, using the file name
// (without extension) as the document id. Files that fail extraction are
// logged and skipped.
func (l *Library) LoadDir(dir, owner string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read documents dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		id := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if err := l.Register(Document{ID: id, Path: path, Owner: owner}); err != nil {
			l.logger.Printf("[document] skipping %s: %v", path, err)
		}
	}
	return nil
}

// Get returns a document's metadata, enforcing ownership. Unknown ids
// return ErrNotFound; someone else's document returns ErrUnauthorized.
func (l *Library) Get(id, user string) (Document, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.get(id, user)
}

// Content returns a document's extracted pages, enforcing ownership.
func (l *Library) Content(id, user string) (Content, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.get(id, user); err != nil {
		return Content{}, err
	}
	return l.contents[id], nil
}

// PageCount returns the number of pages in a document.
func (l *Library) PageCount(id, user string) (int, error) {
	doc, err := l.Get(id, user)
	if err != nil {
		return 0, err
	}
	return doc.TotalPages, nil
}

// FileLocation returns the document's backing file path.
func (l *Library) FileLocation(id, user string) (string, error) {
	doc, err := l.Get(id, user)
	if err != nil {
		return "", err
	}
	return doc.Path, nil
}

// List returns every document the user can read, in registration order.
func (l *Library) List(user string) []Document {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Document, 0, len(l.ids))
	for _, id := range l.ids {
		doc := l.docs[id]
		if doc.Owner == "" || doc.Owner == user {
			out = append(out, doc)
		}
	}
	return out
}

// Search returns the document's pages matching query, best first. Scoring
// is occurrence counting over case-folded text; pages without a match are
// omitted.
func (l *Library) Search(id, user, query string) ([]SearchHit, error) {
	content, err := l.Content(id, user)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}
	var hits []SearchHit
	for _, page := range content.Pages {
		score := strings.Count(strings.ToLower(page.Text), query)
		if score == 0 {
			continue
		}
		hits = append(hits, SearchHit{PageNumber: page.PageNumber, Text: page.Text, Score: score})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	return hits, nil
}

// get resolves id for user; callers hold l.mu.
func (l *Library) get(id, user string) (Document, error) {
	doc, ok := l.docs[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	if doc.Owner != "" && doc.Owner != user {
		return Document{}, ErrUnauthorized
	}
	return doc, nil
}

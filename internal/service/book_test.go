package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/skald/internal/domain"
)

// mockBookStore implements BookStore with canned responses.
type mockBookStore struct {
	books      map[uuid.UUID]*domain.Book
	created    *domain.CreateBookParams
	lastUpdate *domain.UpdateBookParams
}

func newMockBookStore() *mockBookStore {
	return &mockBookStore{books: make(map[uuid.UUID]*domain.Book)}
}

func (m *mockBookStore) CreateBook(ctx context.Context, params domain.CreateBookParams) (*domain.Book, error) {
	m.created = &params
	book := &domain.Book{
		ID:         uuid.New(),
		Title:      params.Title,
		Author:     params.Author,
		PriceCents: params.PriceCents,
		Stock:      params.Stock,
	}
	m.books[book.ID] = book
	return book, nil
}

func (m *mockBookStore) GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	book, ok := m.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	return book, nil
}

func (m *mockBookStore) ListBooks(ctx context.Context) ([]domain.Book, error) {
	out := make([]domain.Book, 0, len(m.books))
	for _, b := range m.books {
		out = append(out, *b)
	}
	return out, nil
}

func (m *mockBookStore) UpdateBook(ctx context.Context, id uuid.UUID, params domain.UpdateBookParams) (*domain.Book, error) {
	m.lastUpdate = &params
	book, ok := m.books[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	if params.Stock != nil {
		book.Stock = *params.Stock
	}
	return book, nil
}

func (m *mockBookStore) DeleteBook(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.books[id]; !ok {
		return domain.ErrBookNotFound
	}
	delete(m.books, id)
	return nil
}

func TestBookCreate(t *testing.T) {
	store := newMockBookStore()
	svc := NewBookService(store)

	book, err := svc.CreateBook(context.Background(), domain.CreateBookParams{
		Title:      "The Hobbit",
		Author:     "J.R.R. Tolkien",
		PriceCents: 1499,
		Stock:      10,
	})
	require.NoError(t, err)
	assert.Equal(t, "The Hobbit", book.Title)
	assert.EqualValues(t, 10, book.Stock)
	require.NotNil(t, store.created)
}

func TestBookCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		params domain.CreateBookParams
	}{
		{"missing title", domain.CreateBookParams{Author: "A"}},
		{"missing author", domain.CreateBookParams{Title: "T"}},
		{"negative price", domain.CreateBookParams{Title: "T", Author: "A", PriceCents: -1}},
		{"negative stock", domain.CreateBookParams{Title: "T", Author: "A", Stock: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewBookService(newMockBookStore())
			_, err := svc.CreateBook(context.Background(), tt.params)
			require.Error(t, err)
			assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
		})
	}
}

func TestBookUpdate_RestockAllowed(t *testing.T) {
	store := newMockBookStore()
	svc := NewBookService(store)

	book, err := svc.CreateBook(context.Background(), domain.CreateBookParams{
		Title: "Restocked", Author: "A", Stock: 0,
	})
	require.NoError(t, err)

	stock := int32(25)
	updated, err := svc.UpdateBook(context.Background(), book.ID, domain.UpdateBookParams{Stock: &stock})
	require.NoError(t, err)
	assert.EqualValues(t, 25, updated.Stock)

	negative := int32(-5)
	_, err = svc.UpdateBook(context.Background(), book.ID, domain.UpdateBookParams{Stock: &negative})
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestBookDelete_Unknown(t *testing.T) {
	svc := NewBookService(newMockBookStore())
	err := svc.DeleteBook(context.Background(), uuid.New())
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

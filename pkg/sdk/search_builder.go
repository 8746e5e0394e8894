package recordbook

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/recordbook/internal/domain"
	"github.com/kailas-cloud/recordbook/internal/domain/module"
	domrec "github.com/kailas-cloud/recordbook/internal/domain/record"
	"github.com/kailas-cloud/recordbook/internal/domain/search/filter"
)

// SearchBuilder is a fluent builder for record searches.
//
// Field filters are combined with AND and win over the free-text query,
// which is matched against every field with OR. A builder without filters
// or query returns every record.
type SearchBuilder[T any] struct {
	module module.Module
	search searchUseCase
	obs    *observer
	list   func(ctx context.Context, fs filter.Set) ([]T, error)

	values map[string]string
	query  string
	err    error
}

func newSearchBuilder[T any](
	m module.Module, search searchUseCase, obs *observer,
	list func(ctx context.Context, fs filter.Set) ([]T, error),
) *SearchBuilder[T] {
	return &SearchBuilder[T]{
		module: m,
		search: search,
		obs:    obs,
		list:   list,
		values: make(map[string]string),
	}
}

// Where adds a field filter. Text fields match by case-insensitive
// substring, government IDs and numbers match exactly.
func (b *SearchBuilder[T]) Where(field, value string) *SearchBuilder[T] {
	name, ok := filter.Canonical(b.module, field)
	if !ok {
		if b.err == nil {
			b.err = fmt.Errorf("%w: %s has no field %q", domain.ErrInvalidFilter, b.module, field)
		}
		return b
	}
	b.values[name] = value
	return b
}

// Age filters citizens by exact age.
func (b *SearchBuilder[T]) Age(age int) *SearchBuilder[T] {
	return b.Where(FieldAge, strconv.Itoa(age))
}

// ArrestedOn filters criminals by arrest day.
func (b *SearchBuilder[T]) ArrestedOn(day time.Time) *SearchBuilder[T] {
	return b.Where(FieldDateArrested, domrec.FormatDate(day))
}

// Query sets the free-text fallback query.
func (b *SearchBuilder[T]) Query(q string) *SearchBuilder[T] {
	b.query = q
	return b
}

func (b *SearchBuilder[T]) filters() (filter.Set, error) {
	if b.err != nil {
		return filter.Set{}, b.err
	}
	return filter.New(b.module, b.values, b.query), nil
}

// Do executes the search and returns matching records in ID order.
func (b *SearchBuilder[T]) Do(ctx context.Context) (_ []T, err error) {
	op := "search_" + b.module.Plural()
	start := time.Now()
	defer func() { b.obs.observe(op, start, err) }()

	fs, err := b.filters()
	if err != nil {
		return nil, err
	}
	items, err := b.list(ctx, fs)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", b.module.Plural(), err)
	}
	b.obs.observeHits(op, len(items))
	return items, nil
}

// Page executes the search and returns rendered rows with highlights.
func (b *SearchBuilder[T]) Page(ctx context.Context) (_ SearchResult, err error) {
	op := "page_" + b.module.Plural()
	start := time.Now()
	defer func() { b.obs.observe(op, start, err) }()

	fs, err := b.filters()
	if err != nil {
		return SearchResult{}, err
	}
	page, err := b.search.Search(ctx, fs)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search %s: %w", b.module.Plural(), err)
	}
	b.obs.observeHits(op, page.Total())
	return resultFromPage(page), nil
}

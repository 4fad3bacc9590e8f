package memstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"posledger/internal/core/apperror"
	"posledger/internal/core/entity"
	"posledger/internal/core/id"
	"posledger/internal/domain"
)

type record interface {
	entity.Validatable
	GetID() id.ID
	GetName() string
	GetVersion() int
	SetVersion(v int)
	SetStatus(s entity.Status)
	IsDeleted() bool
}

// catalogRepo is the generic in-memory CatalogRepository. T is stored by
// value; P is its pointer type carrying the entity methods.
type catalogRepo[T any, P interface {
	*T
	record
}] struct {
	store      *Store
	entityName string
	table      func(st *state) map[id.ID]T

	// unique maps a column to its value getter. Used by ExistsBy and to
	// emulate unique constraints.
	unique map[string]func(P) string

	// sortKeys adds orderable columns besides name.
	sortKeys map[string]func(a, b P) int
}

func (r *catalogRepo[T, P]) Create(_ context.Context, e P) error {
	return r.store.write(func(st *state) error {
		tbl := r.table(st)
		if _, ok := tbl[e.GetID()]; ok {
			return apperror.NewDuplicate(r.entityName, "id", e.GetID().String())
		}
		if err := r.checkUnique(tbl, e); err != nil {
			return err
		}
		tbl[e.GetID()] = *e
		return nil
	})
}

func (r *catalogRepo[T, P]) checkUnique(tbl map[id.ID]T, e P) error {
	for col, get := range r.unique {
		val := get(e)
		for k, v := range tbl {
			other := P(&v)
			if k != e.GetID() && get(other) == val {
				return apperror.NewDuplicate(r.entityName, col, val)
			}
		}
	}
	return nil
}

func (r *catalogRepo[T, P]) GetByID(_ context.Context, entityID id.ID) (P, error) {
	var (
		out P
		ok  bool
	)
	r.store.read(func(st *state) {
		var v T
		if v, ok = r.table(st)[entityID]; ok {
			out = P(&v)
		}
	})
	if !ok {
		return nil, apperror.NewNotFound(r.entityName, entityID.String())
	}
	return out, nil
}

func (r *catalogRepo[T, P]) GetByName(_ context.Context, name string) (P, error) {
	var out P
	r.store.read(func(st *state) {
		for _, v := range r.table(st) {
			cand := P(&v)
			if cand.GetName() != name {
				continue
			}
			if out == nil || (out.IsDeleted() && !cand.IsDeleted()) {
				out = cand
			}
		}
	})
	if out == nil {
		return nil, apperror.NewNotFound(r.entityName, name)
	}
	return out, nil
}

func (r *catalogRepo[T, P]) Update(_ context.Context, e P) error {
	return r.store.write(func(st *state) error {
		tbl := r.table(st)
		cur, ok := tbl[e.GetID()]
		if !ok || P(&cur).GetVersion() != e.GetVersion() {
			return apperror.NewConcurrentModification(r.entityName, e.GetID().String())
		}
		if err := r.checkUnique(tbl, e); err != nil {
			return err
		}
		e.SetVersion(e.GetVersion() + 1)
		tbl[e.GetID()] = *e
		return nil
	})
}

func (r *catalogRepo[T, P]) SetStatus(_ context.Context, entityID id.ID, status entity.Status) error {
	return r.store.write(func(st *state) error {
		tbl := r.table(st)
		v, ok := tbl[entityID]
		if !ok {
			return apperror.NewNotFound(r.entityName, entityID.String())
		}
		rec := P(&v)
		rec.SetStatus(status)
		rec.SetVersion(rec.GetVersion() + 1)
		tbl[entityID] = v
		return nil
	})
}

func (r *catalogRepo[T, P]) List(_ context.Context, filter domain.ListFilter) (domain.ListResult[P], error) {
	var all []P
	r.store.read(func(st *state) {
		for _, v := range r.table(st) {
			all = append(all, P(&v))
		}
	})

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	items := make([]P, 0, len(all))
	for _, e := range all {
		if !filter.IncludeDeleted && e.IsDeleted() {
			continue
		}
		if len(filter.IDs) > 0 && !slices.Contains(filter.IDs, e.GetID()) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.GetName()), search) {
			continue
		}
		items = append(items, e)
	}

	slices.SortStableFunc(items, r.comparator(filter.OrderBy))

	total := int64(len(items))
	return domain.ListResult[P]{
		Items:      page(items, filter.Offset, filter.Limit),
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

func (r *catalogRepo[T, P]) comparator(orderBy string) func(a, b P) int {
	desc := strings.HasPrefix(orderBy, "-")
	key := strings.TrimPrefix(orderBy, "-")

	cmpFn := func(a, b P) int { return cmp.Compare(a.GetName(), b.GetName()) }
	if fn, ok := r.sortKeys[key]; ok {
		cmpFn = fn
	}
	if desc {
		return func(a, b P) int { return -cmpFn(a, b) }
	}
	return cmpFn
}

func (r *catalogRepo[T, P]) ExistsBy(_ context.Context, column, value string, excludeID id.ID) (bool, error) {
	get, ok := r.unique[column]
	if !ok {
		return false, fmt.Errorf("memstore: %s has no lookup column %q", r.entityName, column)
	}
	var found bool
	r.store.read(func(st *state) {
		for k, v := range r.table(st) {
			if k != excludeID && get(P(&v)) == value {
				found = true
				return
			}
		}
	})
	return found, nil
}

func page[E any](items []E, offset, limit int) []E {
	if offset >= len(items) {
		return []E{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

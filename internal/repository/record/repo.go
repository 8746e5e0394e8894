package record

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/recordbook/internal/db"
	"github.com/kailas-cloud/recordbook/internal/domain"
	"github.com/kailas-cloud/recordbook/internal/domain/module"
	domrec "github.com/kailas-cloud/recordbook/internal/domain/record"
	"github.com/kailas-cloud/recordbook/internal/domain/search/query"
)

// DefaultKeyPrefix namespaces every key written by the repository.
const DefaultKeyPrefix = "recordbook:"

const reportKind = "report"

// store is the consumer interface for records (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Incr(ctx context.Context, key string) (int64, error)
	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRangeAll(ctx context.Context, key string) ([]string, error)
}

// Repo stores records as hashes with a per-kind sequence counter and an id-ordered
// sorted set. Searches load the kind's records and evaluate the plan in memory.
type Repo struct {
	store  store
	prefix string
}

// New creates a record repository. An empty prefix falls back to DefaultKeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// CreateCitizen assigns an ID and persists the citizen.
func (r *Repo) CreateCitizen(ctx context.Context, c domrec.Citizen) (domrec.Citizen, error) {
	id, err := r.insert(ctx, string(module.Citizen), func(id int64) map[string]string {
		return citizenToHash(c.WithID(id))
	})
	if err != nil {
		return domrec.Citizen{}, err
	}
	return c.WithID(id), nil
}

// GetCitizen returns a citizen by ID.
func (r *Repo) GetCitizen(ctx context.Context, id int64) (domrec.Citizen, error) {
	m, err := r.get(ctx, string(module.Citizen), id)
	if err != nil {
		return domrec.Citizen{}, err
	}
	return citizenFromHash(id, m)
}

// FindCitizens returns citizens matching the plan in ascending ID order.
func (r *Repo) FindCitizens(ctx context.Context, plan query.Plan) ([]domrec.Citizen, error) {
	ids, hashes, err := r.loadAll(ctx, string(module.Citizen))
	if err != nil {
		return nil, err
	}
	all := make([]domrec.Citizen, 0, len(hashes))
	for i, m := range hashes {
		c, err := citizenFromHash(ids[i], m)
		if err != nil {
			return nil, err
		}
		all = append(all, c)
	}
	return plan.FilterCitizens(all), nil
}

// CreateCriminal assigns an ID and persists the criminal.
func (r *Repo) CreateCriminal(ctx context.Context, c domrec.Criminal) (domrec.Criminal, error) {
	id, err := r.insert(ctx, string(module.Criminal), func(id int64) map[string]string {
		return criminalToHash(c.WithID(id))
	})
	if err != nil {
		return domrec.Criminal{}, err
	}
	return c.WithID(id), nil
}

// GetCriminal returns a criminal by ID.
func (r *Repo) GetCriminal(ctx context.Context, id int64) (domrec.Criminal, error) {
	m, err := r.get(ctx, string(module.Criminal), id)
	if err != nil {
		return domrec.Criminal{}, err
	}
	return criminalFromHash(id, m)
}

// FindCriminals returns criminals matching the plan in ascending ID order.
func (r *Repo) FindCriminals(ctx context.Context, plan query.Plan) ([]domrec.Criminal, error) {
	ids, hashes, err := r.loadAll(ctx, string(module.Criminal))
	if err != nil {
		return nil, err
	}
	all := make([]domrec.Criminal, 0, len(hashes))
	for i, m := range hashes {
		c, err := criminalFromHash(ids[i], m)
		if err != nil {
			return nil, err
		}
		all = append(all, c)
	}
	return plan.FilterCriminals(all), nil
}

// CreateReport assigns an ID and persists the report.
func (r *Repo) CreateReport(ctx context.Context, rep domrec.Report) (domrec.Report, error) {
	id, err := r.insert(ctx, reportKind, func(id int64) map[string]string {
		return reportToHash(rep.WithID(id))
	})
	if err != nil {
		return domrec.Report{}, err
	}
	return rep.WithID(id), nil
}

// ListReports returns every report in ascending ID order.
func (r *Repo) ListReports(ctx context.Context) ([]domrec.Report, error) {
	ids, hashes, err := r.loadAll(ctx, reportKind)
	if err != nil {
		return nil, err
	}
	out := make([]domrec.Report, 0, len(hashes))
	for i, m := range hashes {
		rep, err := reportFromHash(ids[i], m)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, nil
}

// insert allocates the next ID, writes the hash, then indexes it. The index is written
// last so a half-written record is never visible to searches.
func (r *Repo) insert(ctx context.Context, kind string, fields func(id int64) map[string]string) (int64, error) {
	id, err := r.store.Incr(ctx, r.seqKey(kind))
	if err != nil {
		return 0, fmt.Errorf("allocate %s id: %w", kind, err)
	}
	key := r.recordKey(kind, id)
	if err := r.store.HSet(ctx, key, fields(id)); err != nil {
		return 0, fmt.Errorf("hset %s: %w", key, err)
	}
	if err := r.store.ZAdd(ctx, r.idsKey(kind), float64(id), strconv.FormatInt(id, 10)); err != nil {
		return 0, fmt.Errorf("index %s: %w", key, err)
	}
	return id, nil
}

func (r *Repo) get(ctx context.Context, kind string, id int64) (map[string]string, error) {
	key := r.recordKey(kind, id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("%s %d: %w", kind, id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("hgetall %s: %w", key, err)
	}
	return m, nil
}

// loadAll returns IDs and hashes for every indexed record of kind. Index entries whose
// hash is missing are skipped.
func (r *Repo) loadAll(ctx context.Context, kind string) ([]int64, []map[string]string, error) {
	members, err := r.store.ZRangeAll(ctx, r.idsKey(kind))
	if err != nil {
		return nil, nil, fmt.Errorf("list %s ids: %w", kind, err)
	}
	if len(members) == 0 {
		return nil, nil, nil
	}

	ids := make([]int64, 0, len(members))
	keys := make([]string, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
		keys = append(keys, r.recordKey(kind, id))
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s records: %w", kind, err)
	}

	outIDs := ids[:0]
	out := make([]map[string]string, 0, len(hashes))
	for i, h := range hashes {
		if len(h) == 0 {
			continue
		}
		outIDs = append(outIDs, ids[i])
		out = append(out, h)
	}
	return outIDs, out, nil
}

func (r *Repo) recordKey(kind string, id int64) string {
	return fmt.Sprintf("%s%s:%d", r.prefix, kind, id)
}

func (r *Repo) seqKey(kind string) string {
	return r.prefix + kind + ":seq"
}

func (r *Repo) idsKey(kind string) string {
	return r.prefix + kind + ":ids"
}

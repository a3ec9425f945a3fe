package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"dermascan/internal/client/models"
	"dermascan/internal/client/repositories/kv"
	"dermascan/internal/common"
	"dermascan/internal/dbx"
	"dermascan/internal/logging"

	"github.com/google/uuid"
)

// MaxHistoryEntries caps the shared collection; the oldest entries are
// evicted first.
const MaxHistoryEntries = 100

// HistoryService is the per-user analysis log layered on the kv store. The
// collection is shared between all owners that ever logged in on this device
// and is stored newest-first under one key.
//
// Every mutation is a read-modify-write of the whole collection, so all
// mutations are serialized through mu and run inside a transaction. The
// source application allowed concurrent appends to silently drop records;
// this implementation does not.
type HistoryService struct {
	db  *sql.DB
	log logging.Logger

	mu sync.Mutex
}

func NewHistoryService(db *sql.DB, log logging.Logger) *HistoryService {
	return &HistoryService{db: db, log: log}
}

func (s *HistoryService) readAll(ctx context.Context, q dbx.DBTX) []models.AnalysisRecord {
	raw, err := kv.NewSQLiteRepository(q).Get(ctx, keyHistory)
	if err != nil {
		s.log.Warn(ctx, "failed to read history, treating as empty", "error", err)
		return nil
	}
	records := models.DecodeHistory(raw)
	if len(raw) > 0 && records == nil {
		s.log.Warn(ctx, "stored history is corrupted, treating as empty")
	}
	return records
}

func (s *HistoryService) writeAll(ctx context.Context, q dbx.DBTX, records []models.AnalysisRecord) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return kv.NewSQLiteRepository(q).Set(ctx, keyHistory, raw)
}

func filterOwner(records []models.AnalysisRecord, owner string) []models.AnalysisRecord {
	out := make([]models.AnalysisRecord, 0, len(records))
	for _, r := range records {
		if strings.EqualFold(r.UserID, owner) {
			out = append(out, r)
		}
	}
	return out
}

// Append attributes rec to owner, stamps it with a fresh id and date,
// prepends it, trims the collection to the newest MaxHistoryEntries entries
// and persists the result. It returns the owner's records for immediate
// display.
func (s *HistoryService) Append(ctx context.Context, rec models.AnalysisRecord, owner string) ([]models.AnalysisRecord, error) {
	if strings.TrimSpace(owner) == "" {
		s.log.Error(ctx, "refusing to save analysis without an owner")
		return nil, common.ErrOwnerRequired
	}

	rec.ID = uuid.NewString()
	rec.UserID = strings.ToLower(owner)
	rec.Date = time.Now().UTC().Format(time.RFC3339Nano)

	s.mu.Lock()
	defer s.mu.Unlock()

	var mine []models.AnalysisRecord
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		records := s.readAll(ctx, tx)
		records = append([]models.AnalysisRecord{rec}, records...)
		if len(records) > MaxHistoryEntries {
			records = records[:MaxHistoryEntries]
		}
		if err := s.writeAll(ctx, tx, records); err != nil {
			return err
		}
		mine = filterOwner(records, rec.UserID)
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "failed to save analysis", "error", err)
		return nil, err
	}

	s.log.Info(ctx, "analysis saved", "owner", rec.UserID, "disease", rec.Disease)
	return mine, nil
}

// ListFor returns owner's records. Stored order (newest first) is preserved
// unless sortByDate is set, in which case records are re-sorted by parsed
// date descending; unparseable dates sink to the end.
func (s *HistoryService) ListFor(ctx context.Context, owner string, sortByDate bool) ([]models.AnalysisRecord, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, common.ErrOwnerRequired
	}

	records := filterOwner(s.readAll(ctx, s.db), owner)

	if sortByDate {
		sort.SliceStable(records, func(i, j int) bool {
			ti, oki := records[i].When()
			tj, okj := records[j].When()
			if oki != okj {
				return oki
			}
			return ti.After(tj)
		})
	}
	return records, nil
}

// DeleteOne removes the record with the given id. The record must belong to
// owner; deleting someone else's record fails with common.ErrNotOwned.
func (s *HistoryService) DeleteOne(ctx context.Context, id, owner string) error {
	if strings.TrimSpace(owner) == "" {
		return common.ErrOwnerRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		records := s.readAll(ctx, tx)

		idx := -1
		for i, r := range records {
			if r.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return common.ErrNotFound
		}
		if !strings.EqualFold(records[idx].UserID, owner) {
			return common.ErrNotOwned
		}

		records = append(records[:idx], records[idx+1:]...)
		return s.writeAll(ctx, tx, records)
	})
}

// DeleteAllFor removes every record belonging to owner and nothing else.
// It returns the number of records removed.
func (s *HistoryService) DeleteAllFor(ctx context.Context, owner string) (int, error) {
	if strings.TrimSpace(owner) == "" {
		return 0, common.ErrOwnerRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		records := s.readAll(ctx, tx)

		remaining := make([]models.AnalysisRecord, 0, len(records))
		for _, r := range records {
			if strings.EqualFold(r.UserID, owner) {
				removed++
				continue
			}
			remaining = append(remaining, r)
		}
		if removed == 0 {
			return nil
		}
		return s.writeAll(ctx, tx, remaining)
	})
	if err != nil {
		s.log.Error(ctx, "failed to clear history", "owner", owner, "error", err)
		return 0, err
	}

	s.log.Info(ctx, "history cleared", "owner", owner, "removed", removed)
	return removed, nil
}

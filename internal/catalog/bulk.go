// Bulk replacement for catalogue tables. A load clears the table then
// inserts records in fixed-size chunks, each chunk in its own transaction:
// a failure partway leaves earlier chunks committed, so ingestion is
// idempotent-but-not-transactional and callers re-run on failure.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jfexwana/lego-manager/pkg/types"
)

// chunkSize bounds memory per insert transaction and lets progress
// reporting interleave with other work.
const chunkSize = 1000

// progressEveryChunks throttles the progress callback.
const progressEveryChunks = 5

// BulkReplace clears table and loads records into it. records must be the
// typed slice matching the table ([]types.Part for "parts" and so on).
// After a successful load it writes the derived metadata counters: row
// count, last-update timestamp, and for inventory_parts the per-part and
// per-category distinct-inventory counts that make rarity queries O(1).
func (s *Store) BulkReplace(ctx context.Context, table string, records any, onProgress func(done, total int)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.conn()
	if err != nil {
		return err
	}

	ins, total, err := inserterFor(table, records)
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return &types.StorageError{Op: "clear " + table, Err: err}
	}

	for start, chunk := 0, 0; start < total; start, chunk = start+chunkSize, chunk+1 {
		end := start + chunkSize
		if end > total {
			end = total
		}
		if err := insertChunk(ctx, db, ins, start, end); err != nil {
			return &types.StorageError{Op: fmt.Sprintf("load %s rows %d..%d", table, start, end), Err: err}
		}
		if onProgress != nil && chunk%progressEveryChunks == 0 {
			onProgress(end, total)
		}
	}
	if onProgress != nil {
		onProgress(total, total)
	}

	if err := s.setMetadataLocked(ctx, table+"_count", strconv.Itoa(total)); err != nil {
		return err
	}
	if err := s.setMetadataLocked(ctx, table+"_last_update", strconv.FormatInt(time.Now().UnixMilli(), 10)); err != nil {
		return err
	}

	switch table {
	case types.TableInventoryParts:
		if recs, ok := records.([]types.InventoryPart); ok {
			if err := s.writeRarityCounters(ctx, recs); err != nil {
				return err
			}
		}
	case types.TableParts:
		if recs, ok := records.([]types.Part); ok {
			if err := s.writeCategoryCounts(ctx, recs); err != nil {
				return err
			}
		}
	}

	s.log.Info().Str("table", table).Int("rows", total).Msg("table replaced")
	return nil
}

// inserter binds one record of a typed slice into an INSERT statement.
type inserter struct {
	stmt string
	bind func(i int) []any
}

func inserterFor(table string, records any) (inserter, int, error) {
	switch table {
	case types.TableParts:
		recs, ok := records.([]types.Part)
		if !ok {
			return inserter{}, 0, types.ErrInvalidData
		}
		return inserter{
			stmt: "INSERT INTO parts (part_num, name, part_cat_id) VALUES (?, ?, ?)",
			bind: func(i int) []any { r := recs[i]; return []any{r.PartNum, r.Name, r.CategoryID} },
		}, len(recs), nil
	case types.TablePartCategories:
		recs, ok := records.([]types.Category)
		if !ok {
			return inserter{}, 0, types.ErrInvalidData
		}
		return inserter{
			stmt: "INSERT INTO part_categories (id, name) VALUES (?, ?)",
			bind: func(i int) []any { r := recs[i]; return []any{r.ID, r.Name} },
		}, len(recs), nil
	case types.TableColors:
		recs, ok := records.([]types.Color)
		if !ok {
			return inserter{}, 0, types.ErrInvalidData
		}
		return inserter{
			stmt: "INSERT INTO colors (id, name) VALUES (?, ?)",
			bind: func(i int) []any { r := recs[i]; return []any{r.ID, r.Name} },
		}, len(recs), nil
	case types.TableSets:
		recs, ok := records.([]types.Set)
		if !ok {
			return inserter{}, 0, types.ErrInvalidData
		}
		return inserter{
			stmt: "INSERT INTO sets (set_num, name, year, theme_id, num_parts, img_url) VALUES (?, ?, ?, ?, ?, ?)",
			bind: func(i int) []any {
				r := recs[i]
				return []any{r.SetNum, r.Name, r.Year, r.ThemeID, r.NumParts, r.ImgURL}
			},
		}, len(recs), nil
	case types.TableInventories:
		recs, ok := records.([]types.Inventory)
		if !ok {
			return inserter{}, 0, types.ErrInvalidData
		}
		return inserter{
			stmt: "INSERT INTO inventories (id, version, set_num) VALUES (?, ?, ?)",
			bind: func(i int) []any { r := recs[i]; return []any{r.ID, r.Version, r.SetNum} },
		}, len(recs), nil
	case types.TableInventoryParts:
		recs, ok := records.([]types.InventoryPart)
		if !ok {
			return inserter{}, 0, types.ErrInvalidData
		}
		return inserter{
			stmt: "INSERT INTO inventory_parts (inventory_id, part_num, color_id, quantity, is_spare, img_url) VALUES (?, ?, ?, ?, ?, ?)",
			bind: func(i int) []any {
				r := recs[i]
				spare := 0
				if r.IsSpare {
					spare = 1
				}
				return []any{r.InventoryID, r.PartNum, r.ColorID, r.Quantity, spare, r.ImgURL}
			},
		}, len(recs), nil
	case types.TableMinifigs:
		recs, ok := records.([]types.Minifig)
		if !ok {
			return inserter{}, 0, types.ErrInvalidData
		}
		return inserter{
			stmt: "INSERT INTO minifigs (fig_num, name, num_parts, img_url) VALUES (?, ?, ?, ?)",
			bind: func(i int) []any { r := recs[i]; return []any{r.FigNum, r.Name, r.NumParts, r.ImgURL} },
		}, len(recs), nil
	case types.TableInventoryMinifigs:
		recs, ok := records.([]types.InventoryMinifig)
		if !ok {
			return inserter{}, 0, types.ErrInvalidData
		}
		return inserter{
			stmt: "INSERT INTO inventory_minifigs (inventory_id, fig_num, quantity) VALUES (?, ?, ?)",
			bind: func(i int) []any { r := recs[i]; return []any{r.InventoryID, r.FigNum, r.Quantity} },
		}, len(recs), nil
	default:
		return inserter{}, 0, types.ErrTableNotFound
	}
}

// insertChunk writes records [start, end) in one independent transaction.
func insertChunk(ctx context.Context, db *sql.DB, ins inserter, start, end int) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, ins.stmt)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := start; i < end; i++ {
		if _, err := stmt.ExecContext(ctx, ins.bind(i)...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// writeRarityCounters precomputes, at load time, how many distinct
// inventories reference each part and, transitively, each category. The
// counters keep rarity lookups O(1) instead of full join-table scans.
func (s *Store) writeRarityCounters(ctx context.Context, recs []types.InventoryPart) error {
	partInvs := make(map[string]map[int]struct{})
	for _, ip := range recs {
		set, ok := partInvs[ip.PartNum]
		if !ok {
			set = make(map[int]struct{})
			partInvs[ip.PartNum] = set
		}
		set[ip.InventoryID] = struct{}{}
	}

	for partNum, invs := range partInvs {
		key := fmt.Sprintf("part_%s_set_count", partNum)
		if err := s.setMetadataLocked(ctx, key, strconv.Itoa(len(invs))); err != nil {
			return err
		}
	}

	// Category rollup needs the parts table; a missing parts load only
	// skips the rollup, it does not fail the inventory_parts load.
	partToCategory, err := s.partCategoryMapLocked(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("category set counts skipped")
		return nil
	}

	categoryInvs := make(map[int]map[int]struct{})
	for partNum, invs := range partInvs {
		catID, ok := partToCategory[partNum]
		if !ok || catID == 0 {
			continue
		}
		set, ok := categoryInvs[catID]
		if !ok {
			set = make(map[int]struct{})
			categoryInvs[catID] = set
		}
		for inv := range invs {
			set[inv] = struct{}{}
		}
	}

	for catID, invs := range categoryInvs {
		key := fmt.Sprintf("category_%d_set_count", catID)
		if err := s.setMetadataLocked(ctx, key, strconv.Itoa(len(invs))); err != nil {
			return err
		}
	}
	return nil
}

// writeCategoryCounts records how many parts each category holds.
func (s *Store) writeCategoryCounts(ctx context.Context, recs []types.Part) error {
	counts := make(map[int]int)
	for _, p := range recs {
		counts[p.CategoryID]++
	}

	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		key := fmt.Sprintf("category_%d_count", id)
		if err := s.setMetadataLocked(ctx, key, strconv.Itoa(counts[id])); err != nil {
			return err
		}
	}
	return nil
}

// partCategoryMapLocked builds part_num → category id. Caller holds the
// write lock.
func (s *Store) partCategoryMapLocked(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT part_num, part_cat_id FROM parts")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var num string
		var cat int
		if err := rows.Scan(&num, &cat); err != nil {
			return nil, err
		}
		out[num] = cat
	}
	return out, rows.Err()
}

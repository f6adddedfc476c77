// Read operations for the catalogue store. All queries are side-effect
// free; full-table scans are reserved for the small reference tables while
// inventory_parts exposes a streaming iterator.
package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jfexwana/lego-manager/pkg/types"
)

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func hydratePart(sc scanner) (types.Part, error) {
	var p types.Part
	err := sc.Scan(&p.PartNum, &p.Name, &p.CategoryID)
	return p, err
}

func hydrateSet(sc scanner) (types.Set, error) {
	var s types.Set
	err := sc.Scan(&s.SetNum, &s.Name, &s.Year, &s.ThemeID, &s.NumParts, &s.ImgURL)
	return s, err
}

func hydrateInventory(sc scanner) (types.Inventory, error) {
	var inv types.Inventory
	err := sc.Scan(&inv.ID, &inv.Version, &inv.SetNum)
	return inv, err
}

func hydrateInventoryPart(sc scanner) (types.InventoryPart, error) {
	var ip types.InventoryPart
	var spare int
	err := sc.Scan(&ip.ID, &ip.InventoryID, &ip.PartNum, &ip.ColorID, &ip.Quantity, &spare, &ip.ImgURL)
	ip.IsSpare = spare != 0
	return ip, err
}

func hydrateMinifig(sc scanner) (types.Minifig, error) {
	var m types.Minifig
	err := sc.Scan(&m.FigNum, &m.Name, &m.NumParts, &m.ImgURL)
	return m, err
}

const (
	selectPart          = `SELECT part_num, name, part_cat_id FROM parts`
	selectSet           = `SELECT set_num, name, year, theme_id, num_parts, img_url FROM sets`
	selectInventory     = `SELECT id, version, set_num FROM inventories`
	selectInventoryPart = `SELECT id, inventory_id, part_num, color_id, quantity, is_spare, img_url FROM inventory_parts`
	selectMinifig       = `SELECT fig_num, name, num_parts, img_url FROM minifigs`
)

// AllParts returns every part.
func (s *Store) AllParts(ctx context.Context) ([]types.Part, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, selectPart)
	if err != nil {
		return nil, &types.StorageError{Op: "query parts", Err: err}
	}
	defer rows.Close()

	var out []types.Part
	for rows.Next() {
		p, err := hydratePart(rows)
		if err != nil {
			return nil, &types.StorageError{Op: "scan parts", Err: err}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AllCategories returns every part category.
func (s *Store) AllCategories(ctx context.Context) ([]types.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, "SELECT id, name FROM part_categories")
	if err != nil {
		return nil, &types.StorageError{Op: "query part_categories", Err: err}
	}
	defer rows.Close()

	var out []types.Category
	for rows.Next() {
		var c types.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, &types.StorageError{Op: "scan part_categories", Err: err}
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AllColors returns every color.
func (s *Store) AllColors(ctx context.Context) ([]types.Color, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, "SELECT id, name FROM colors")
	if err != nil {
		return nil, &types.StorageError{Op: "query colors", Err: err}
	}
	defer rows.Close()

	var out []types.Color
	for rows.Next() {
		var c types.Color
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, &types.StorageError{Op: "scan colors", Err: err}
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AllSets returns every set.
func (s *Store) AllSets(ctx context.Context) ([]types.Set, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, selectSet)
	if err != nil {
		return nil, &types.StorageError{Op: "query sets", Err: err}
	}
	defer rows.Close()

	var out []types.Set
	for rows.Next() {
		st, err := hydrateSet(rows)
		if err != nil {
			return nil, &types.StorageError{Op: "scan sets", Err: err}
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// AllInventories returns every inventory row, ordered by id so reverse
// lookups that take the first match are deterministic.
func (s *Store) AllInventories(ctx context.Context) ([]types.Inventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, selectInventory+" ORDER BY id")
	if err != nil {
		return nil, &types.StorageError{Op: "query inventories", Err: err}
	}
	defer rows.Close()

	var out []types.Inventory
	for rows.Next() {
		inv, err := hydrateInventory(rows)
		if err != nil {
			return nil, &types.StorageError{Op: "scan inventories", Err: err}
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// AllMinifigs returns every minifig.
func (s *Store) AllMinifigs(ctx context.Context) ([]types.Minifig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, selectMinifig)
	if err != nil {
		return nil, &types.StorageError{Op: "query minifigs", Err: err}
	}
	defer rows.Close()

	var out []types.Minifig
	for rows.Next() {
		m, err := hydrateMinifig(rows)
		if err != nil {
			return nil, &types.StorageError{Op: "scan minifigs", Err: err}
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ForEachInventoryPart streams every inventory_part row through fn in id
// order. It is the only sanctioned way to walk the join table: the table
// runs to millions of rows and must not be materialized wholesale.
func (s *Store) ForEachInventoryPart(ctx context.Context, fn func(types.InventoryPart) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, selectInventoryPart+" ORDER BY id")
	if err != nil {
		return &types.StorageError{Op: "query inventory_parts", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		ip, err := hydrateInventoryPart(rows)
		if err != nil {
			return &types.StorageError{Op: "scan inventory_parts", Err: err}
		}
		if err := fn(ip); err != nil {
			return err
		}
	}
	return rows.Err()
}

// InventoriesBySetNum returns the inventories recorded for a set number,
// ordered by id.
func (s *Store) InventoriesBySetNum(ctx context.Context, setNum string) ([]types.Inventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, selectInventory+" WHERE set_num = ? ORDER BY id", setNum)
	if err != nil {
		return nil, &types.StorageError{Op: "query inventories by set_num", Err: err}
	}
	defer rows.Close()

	var out []types.Inventory
	for rows.Next() {
		inv, err := hydrateInventory(rows)
		if err != nil {
			return nil, &types.StorageError{Op: "scan inventories", Err: err}
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// InventoryPartsByInventory returns the parts of one inventory.
func (s *Store) InventoryPartsByInventory(ctx context.Context, inventoryID int) ([]types.InventoryPart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, selectInventoryPart+" WHERE inventory_id = ? ORDER BY id", inventoryID)
	if err != nil {
		return nil, &types.StorageError{Op: "query inventory_parts by inventory", Err: err}
	}
	defer rows.Close()

	var out []types.InventoryPart
	for rows.Next() {
		ip, err := hydrateInventoryPart(rows)
		if err != nil {
			return nil, &types.StorageError{Op: "scan inventory_parts", Err: err}
		}
		out = append(out, ip)
	}
	return out, rows.Err()
}

// InventoryMinifigsByInventory returns the minifig rows of one inventory.
func (s *Store) InventoryMinifigsByInventory(ctx context.Context, inventoryID int) ([]types.InventoryMinifig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		"SELECT id, inventory_id, fig_num, quantity FROM inventory_minifigs WHERE inventory_id = ? ORDER BY id", inventoryID)
	if err != nil {
		return nil, &types.StorageError{Op: "query inventory_minifigs", Err: err}
	}
	defer rows.Close()

	var out []types.InventoryMinifig
	for rows.Next() {
		var im types.InventoryMinifig
		if err := rows.Scan(&im.ID, &im.InventoryID, &im.FigNum, &im.Quantity); err != nil {
			return nil, &types.StorageError{Op: "scan inventory_minifigs", Err: err}
		}
		out = append(out, im)
	}
	return out, rows.Err()
}

// PartByNum returns one part by its number. ErrNotFound when absent.
func (s *Store) PartByNum(ctx context.Context, partNum string) (types.Part, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return types.Part{}, err
	}

	p, err := hydratePart(db.QueryRowContext(ctx, selectPart+" WHERE part_num = ?", partNum))
	if errors.Is(err, sql.ErrNoRows) {
		return types.Part{}, types.ErrNotFound
	}
	if err != nil {
		return types.Part{}, &types.StorageError{Op: "get part", Err: err}
	}
	return p, nil
}

// SetByNum returns one set by its number. ErrNotFound when absent.
func (s *Store) SetByNum(ctx context.Context, setNum string) (types.Set, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return types.Set{}, err
	}

	st, err := hydrateSet(db.QueryRowContext(ctx, selectSet+" WHERE set_num = ?", setNum))
	if errors.Is(err, sql.ErrNoRows) {
		return types.Set{}, types.ErrNotFound
	}
	if err != nil {
		return types.Set{}, &types.StorageError{Op: "get set", Err: err}
	}
	return st, nil
}

// MinifigByNum returns one minifig by its number. ErrNotFound when absent.
func (s *Store) MinifigByNum(ctx context.Context, figNum string) (types.Minifig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return types.Minifig{}, err
	}

	m, err := hydrateMinifig(db.QueryRowContext(ctx, selectMinifig+" WHERE fig_num = ?", figNum))
	if errors.Is(err, sql.ErrNoRows) {
		return types.Minifig{}, types.ErrNotFound
	}
	if err != nil {
		return types.Minifig{}, &types.StorageError{Op: "get minifig", Err: err}
	}
	return m, nil
}

// ColorByID returns one color. ErrNotFound when absent.
func (s *Store) ColorByID(ctx context.Context, id int) (types.Color, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return types.Color{}, err
	}

	var c types.Color
	err = db.QueryRowContext(ctx, "SELECT id, name FROM colors WHERE id = ?", id).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Color{}, types.ErrNotFound
	}
	if err != nil {
		return types.Color{}, &types.StorageError{Op: "get color", Err: err}
	}
	return c, nil
}

// ColorByName returns the first color matching name exactly. Legacy
// migration uses it to recover missing color ids. ErrNotFound when absent.
func (s *Store) ColorByName(ctx context.Context, name string) (types.Color, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return types.Color{}, err
	}

	var c types.Color
	err = db.QueryRowContext(ctx, "SELECT id, name FROM colors WHERE name = ? ORDER BY id LIMIT 1", name).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Color{}, types.ErrNotFound
	}
	if err != nil {
		return types.Color{}, &types.StorageError{Op: "get color by name", Err: err}
	}
	return c, nil
}

// SetInfo returns the display projection of a set, or ErrNotFound.
func (s *Store) SetInfo(ctx context.Context, setNum string) (types.SetInfo, error) {
	st, err := s.SetByNum(ctx, setNum)
	if err != nil {
		return types.SetInfo{}, err
	}
	return types.SetInfo{
		Number:   st.SetNum,
		Name:     st.Name,
		Year:     st.Year,
		NumParts: st.NumParts,
		ImgURL:   st.ImgURL,
	}, nil
}

// MultipleSetInfos returns projections for the set numbers that resolve;
// unknown numbers are skipped.
func (s *Store) MultipleSetInfos(ctx context.Context, setNums []string) ([]types.SetInfo, error) {
	out := make([]types.SetInfo, 0, len(setNums))
	for _, num := range setNums {
		info, err := s.SetInfo(ctx, num)
		if errors.Is(err, types.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, nil
}

// MinifigsInSet returns the minifigs contained in a set, resolved through
// the set's first inventory. A set with no inventory yields nil.
func (s *Store) MinifigsInSet(ctx context.Context, setNum string) ([]types.MinifigInSet, error) {
	invs, err := s.InventoriesBySetNum(ctx, setNum)
	if err != nil {
		return nil, err
	}
	if len(invs) == 0 {
		return nil, nil
	}

	rows, err := s.InventoryMinifigsByInventory(ctx, invs[0].ID)
	if err != nil {
		return nil, err
	}

	out := make([]types.MinifigInSet, 0, len(rows))
	for _, im := range rows {
		entry := types.MinifigInSet{FigNum: im.FigNum, Name: "Unknown minifig", Quantity: im.Quantity}
		if m, err := s.MinifigByNum(ctx, im.FigNum); err == nil {
			entry.Name = m.Name
			entry.ImgURL = m.ImgURL
			entry.NumParts = m.NumParts
		} else if !errors.Is(err, types.ErrNotFound) {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

// MinifigParts returns the parts of a minifig's own inventory enriched with
// part and color names. Minifig inventories are keyed by fig number in the
// inventories table, same as sets.
func (s *Store) MinifigParts(ctx context.Context, figNum string) ([]types.MinifigPart, error) {
	invs, err := s.InventoriesBySetNum(ctx, figNum)
	if err != nil {
		return nil, err
	}
	if len(invs) == 0 {
		return nil, nil
	}

	parts, err := s.InventoryPartsByInventory(ctx, invs[0].ID)
	if err != nil {
		return nil, err
	}

	out := make([]types.MinifigPart, 0, len(parts))
	for _, ip := range parts {
		mp := types.MinifigPart{
			PartNum:   ip.PartNum,
			Name:      "Unknown part",
			ColorID:   ip.ColorID,
			ColorName: "Unknown color",
			Quantity:  ip.Quantity,
			ImgURL:    ip.ImgURL,
		}
		if mp.Quantity == 0 {
			mp.Quantity = 1
		}
		if p, err := s.PartByNum(ctx, ip.PartNum); err == nil {
			mp.Name = p.Name
		} else if !errors.Is(err, types.ErrNotFound) {
			return nil, err
		}
		if c, err := s.ColorByID(ctx, ip.ColorID); err == nil {
			mp.ColorName = c.Name
		} else if !errors.Is(err, types.ErrNotFound) {
			return nil, err
		}
		out = append(out, mp)
	}
	return out, nil
}

package server

import (
	"database/sql"
	"errors"
	"fmt"
)

type SQLiteItemStore struct {
	DB *sql.DB
}

func NewSQLiteItemStore(db *sql.DB) *SQLiteItemStore {
	return &SQLiteItemStore{DB: db}
}

func (s *SQLiteItemStore) Create(name string, price float64) (Item, error) {
	res, err := s.DB.Exec(
		`INSERT INTO items (name, price, deleted) VALUES (?, ?, 0)`,
		name, price,
	)
	if err != nil {
		return Item{}, fmt.Errorf("insert item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Item{}, fmt.Errorf("insert item: %w", err)
	}
	return Item{ID: id, Name: name, Price: price}, nil
}

func (s *SQLiteItemStore) Get(id int64) (Item, error) {
	row := s.DB.QueryRow(
		`SELECT id, name, price, deleted FROM items WHERE id = ?`, id,
	)
	return scanItem(row)
}

func (s *SQLiteItemStore) Replace(id int64, name string, price float64) (Item, error) {
	// Upsert at the given id; the deleted flag survives a replace.
	_, err := s.DB.Exec(
		`INSERT INTO items (id, name, price, deleted) VALUES (?, ?, ?, 0)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, price = excluded.price`,
		id, name, price,
	)
	if err != nil {
		return Item{}, fmt.Errorf("replace item: %w", err)
	}
	return s.Get(id)
}

func (s *SQLiteItemStore) PartialUpdate(id int64, patch ItemPatch) (Item, error) {
	it, err := s.Get(id)
	if err != nil {
		return Item{}, err
	}
	if it.Deleted {
		return Item{}, ErrNotModified
	}
	if patch.Name != nil {
		it.Name = *patch.Name
	}
	if patch.Price != nil {
		it.Price = *patch.Price
	}
	_, err = s.DB.Exec(
		`UPDATE items SET name = ?, price = ? WHERE id = ?`,
		it.Name, it.Price, id,
	)
	if err != nil {
		return Item{}, fmt.Errorf("update item: %w", err)
	}
	return it, nil
}

func (s *SQLiteItemStore) SoftDelete(id int64) error {
	res, err := s.DB.Exec(`UPDATE items SET deleted = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteItemStore) List() ([]Item, error) {
	rows, err := s.DB.Query(
		`SELECT id, name, price, deleted FROM items ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	out := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.Deleted); err != nil {
			return nil, fmt.Errorf("list items: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func scanItem(row *sql.Row) (Item, error) {
	var it Item
	if err := row.Scan(&it.ID, &it.Name, &it.Price, &it.Deleted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, fmt.Errorf("scan item: %w", err)
	}
	return it, nil
}

type SQLiteCartStore struct {
	DB *sql.DB
}

func NewSQLiteCartStore(db *sql.DB) *SQLiteCartStore {
	return &SQLiteCartStore{DB: db}
}

func (s *SQLiteCartStore) Create() (int64, error) {
	res, err := s.DB.Exec(`INSERT INTO carts DEFAULT VALUES`)
	if err != nil {
		return 0, fmt.Errorf("insert cart: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert cart: %w", err)
	}
	return id, nil
}

func (s *SQLiteCartStore) Get(id int64) (Cart, error) {
	var exists int
	if err := s.DB.QueryRow(`SELECT 1 FROM carts WHERE id = ?`, id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Cart{}, ErrNoCart
		}
		return Cart{}, fmt.Errorf("get cart: %w", err)
	}

	rows, err := s.DB.Query(
		`SELECT item_id, quantity FROM cart_items WHERE cart_id = ? ORDER BY position`,
		id,
	)
	if err != nil {
		return Cart{}, fmt.Errorf("get cart: %w", err)
	}
	defer rows.Close()

	c := Cart{ID: id}
	for rows.Next() {
		var ln CartLine
		if err := rows.Scan(&ln.ItemID, &ln.Quantity); err != nil {
			return Cart{}, fmt.Errorf("get cart: %w", err)
		}
		c.Lines = append(c.Lines, ln)
	}
	return c, rows.Err()
}

func (s *SQLiteCartStore) AddItem(cartID, itemID int64) error {
	var exists int
	if err := s.DB.QueryRow(`SELECT 1 FROM carts WHERE id = ?`, cartID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoCart
		}
		return fmt.Errorf("add item: %w", err)
	}

	// Position fixes the first-add order that cart serialization promises.
	_, err := s.DB.Exec(
		`INSERT INTO cart_items (cart_id, item_id, quantity, position)
		 VALUES (?, ?, 1, (SELECT COALESCE(MAX(position), 0) + 1 FROM cart_items WHERE cart_id = ?))
		 ON CONFLICT(cart_id, item_id) DO UPDATE SET quantity = quantity + 1`,
		cartID, itemID, cartID,
	)
	if err != nil {
		return fmt.Errorf("add item: %w", err)
	}
	return nil
}

func (s *SQLiteCartStore) List() ([]Cart, error) {
	rows, err := s.DB.Query(`SELECT id FROM carts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list carts: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list carts: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := []Cart{}
	for _, id := range ids {
		c, err := s.Get(id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

package store

import (
	"context"
	"fmt"
)

// schemaDDL creates the catalog table and the three tenant-scoped tables.
// Every tenant-scoped table carries a user_id column; the guard layer
// depends on that naming.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		price NUMERIC(10,2) NOT NULL,
		color TEXT,
		category TEXT,
		image_url TEXT,
		stock INTEGER DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS cart (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL,
		product_id INTEGER NOT NULL REFERENCES products(id),
		quantity INTEGER DEFAULT 1,
		size TEXT,
		added_at TIMESTAMPTZ DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL,
		total_amount NUMERIC(10,2) NOT NULL,
		status TEXT DEFAULT 'pending',
		shipping_address TEXT,
		created_at TIMESTAMPTZ DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id SERIAL PRIMARY KEY,
		order_id INTEGER NOT NULL REFERENCES orders(id),
		product_id INTEGER NOT NULL REFERENCES products(id),
		quantity INTEGER NOT NULL,
		size TEXT,
		price NUMERIC(10,2) NOT NULL
	)`,
}

type seedProduct struct {
	name, description string
	price             float64
	color, category   string
	imageURL          string
	stock             int
}

var seedProducts = []seedProduct{
	{"Blue Denim Jacket", "Classic blue denim jacket", 89.99, "blue", "jackets", "https://images.unsplash.com/photo-1551028719-00167b16eac5?w=400", 15},
	{"Navy Blue Jacket", "Water-resistant navy jacket", 129.99, "blue", "jackets", "https://images.unsplash.com/photo-1591047139829-d91aecb6caea?w=400", 8},
	{"Light Blue Bomber", "Casual light blue bomber jacket", 99.99, "blue", "jackets", "https://images.unsplash.com/photo-1521223890158-f9f7c3d5d504?w=400", 12},
	{"Black Hoodie", "Comfortable black hoodie", 49.99, "black", "hoodies", "https://images.unsplash.com/photo-1556821840-3a63f95609a7?w=400", 20},
	{"Gray Hoodie", "Soft gray hoodie with pocket", 54.99, "gray", "hoodies", "https://images.unsplash.com/photo-1620799140408-edc6dcb6d633?w=400", 18},
	{"White T-Shirt", "Basic white cotton tee", 19.99, "white", "tshirts", "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=400", 30},
	{"Black T-Shirt", "Classic black tee", 19.99, "black", "tshirts", "https://images.unsplash.com/photo-1583743814966-8936f5b7be1a?w=400", 25},
	{"Red Jacket", "Bold red winter jacket", 149.99, "red", "jackets", "https://images.unsplash.com/photo-1548126032-079346d0e327?w=400", 6},
}

// EnsureSchema creates the shop tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, ddl := range schemaDDL {
		if _, err := s.pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// SeedProducts loads the demo catalog. Idempotent: a non-empty catalog
// is left alone.
func (s *Store) SeedProducts(ctx context.Context) error {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&count); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, p := range seedProducts {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO products (name, description, price, color, category, image_url, stock)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.name, p.description, p.price, p.color, p.category, p.imageURL, p.stock,
		)
		if err != nil {
			return fmt.Errorf("seed product %q: %w", p.name, err)
		}
	}
	return nil
}

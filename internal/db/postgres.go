package db

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func ConnectPostgres() *pgxpool.Pool {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Fatal(err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal("Postgres connection failed:", err)
	}

	log.Println("✅ Connected to PostgreSQL")

	// Initialize schema
	if err := initSchema(db); err != nil {
		log.Fatal("Failed to initialize schema:", err)
	}

	return db
}

// initSchema creates or updates the database schema
func initSchema(db *pgxpool.Pool) error {
	ctx := context.Background()

	statements := []string{
		// -------------------------------
		// RESTAURANTS
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS restaurants (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL,
			name VARCHAR(255) NOT NULL,
			city VARCHAR(255),
			cuisine_type VARCHAR(100),
			commission_rate NUMERIC(5,2) NOT NULL DEFAULT 10,
			approved BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// -------------------------------
		// MENU ITEMS
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS menu_items (
			id UUID PRIMARY KEY,
			restaurant_id UUID NOT NULL REFERENCES restaurants(id),
			name VARCHAR(255) NOT NULL,
			category VARCHAR(100),
			price_pence BIGINT NOT NULL,
			discounted_price_pence BIGINT NOT NULL DEFAULT 0,
			is_discounted BOOLEAN NOT NULL DEFAULT FALSE,
			catering_unit INT NOT NULL DEFAULT 0,
			feeds_per_unit INT NOT NULL DEFAULT 0,
			addons JSONB,
			available BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_menu_items_restaurant
			ON menu_items(restaurant_id)`,

		// -------------------------------
		// PROMOTIONS
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS promotions (
			id UUID PRIMARY KEY,
			restaurant_id UUID NOT NULL REFERENCES restaurants(id),
			name VARCHAR(255) NOT NULL,
			variant VARCHAR(50) NOT NULL,
			applicability VARCHAR(20) NOT NULL,
			status VARCHAR(20) NOT NULL,
			priority INT NOT NULL DEFAULT 0,
			stackable BOOLEAN NOT NULL DEFAULT FALSE,
			absorbed_by VARCHAR(20) NOT NULL,
			min_order_pence BIGINT,
			start_date TIMESTAMP NOT NULL,
			end_date TIMESTAMP NOT NULL,
			terms JSONB NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_promotions_restaurant
			ON promotions(restaurant_id)`,

		// -------------------------------
		// PROMO CODES
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS promo_codes (
			id UUID PRIMARY KEY,
			code VARCHAR(50) UNIQUE NOT NULL,
			kind VARCHAR(20) NOT NULL,
			value NUMERIC(12,2) NOT NULL,
			min_order_pence BIGINT NOT NULL DEFAULT 0,
			max_usage INT NOT NULL DEFAULT 0,
			usage_count INT NOT NULL DEFAULT 0,
			start_date TIMESTAMP NOT NULL,
			end_date TIMESTAMP NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// -------------------------------
		// ORDERS
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			customer_id UUID NOT NULL,
			order_context VARCHAR(20) NOT NULL,
			status VARCHAR(20) NOT NULL,
			promo_code VARCHAR(50),
			subtotal_pence BIGINT NOT NULL,
			discount_pence BIGINT NOT NULL,
			delivery_fee_pence BIGINT NOT NULL,
			service_charge_pence BIGINT NOT NULL,
			total_pence BIGINT NOT NULL,
			breakdown JSONB NOT NULL,
			special_instructions JSONB,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_customer
			ON orders(customer_id)`,

		// -------------------------------
		// ORDER ITEMS
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id),
			session_id VARCHAR(100) NOT NULL,
			restaurant_id UUID NOT NULL,
			menu_item_id UUID NOT NULL,
			name VARCHAR(255) NOT NULL,
			quantity INT NOT NULL,
			unit_pence BIGINT NOT NULL,
			addon_pence BIGINT NOT NULL DEFAULT 0,
			total_pence BIGINT NOT NULL,
			discount_pence BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order
			ON order_items(order_id)`,

		// -------------------------------
		// ORDER PAYOUTS
		// -------------------------------
		`CREATE TABLE IF NOT EXISTS order_payouts (
			id SERIAL PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id),
			restaurant_id UUID NOT NULL REFERENCES restaurants(id),
			gross_pence BIGINT NOT NULL,
			commission_rate NUMERIC(5,2) NOT NULL,
			gross_commission_pence BIGINT NOT NULL,
			net_commission_pence BIGINT NOT NULL,
			restaurant_absorbed_pence BIGINT NOT NULL,
			platform_absorbed_pence BIGINT NOT NULL,
			net_pence BIGINT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_order_payouts_restaurant
			ON order_payouts(restaurant_id, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

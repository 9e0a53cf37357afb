package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type ctxKey string

const dbKey ctxKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) *sql.DB {
	db, _ := c.Context.Value(dbKey).(*sql.DB)
	return db
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Create the schema and seed demo products with sales history",
		Flags: []cli.Flag{
			newDBURLFlag(),
		},
		Commands: []*cli.Command{
			{
				Name:   "schema",
				Usage:  "Create database tables if they do not exist",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runSchema,
			},
			{
				Name:  "demo",
				Usage: "Seed demo products with synthetic daily sales history",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.IntFlag{
						Name:  "days",
						Usage: "Days of history to generate per product",
						Value: 180,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runDemo,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runSchema(c *cli.Context) error {
	db := dbFrom(c)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			stock_name TEXT NOT NULL UNIQUE,
			min_stock_level DOUBLE PRECISION NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS sales_records (
			id BIGSERIAL PRIMARY KEY,
			product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			date DATE NOT NULL,
			daily_sales DOUBLE PRECISION NOT NULL DEFAULT 0,
			stock_quantity DOUBLE PRECISION NOT NULL DEFAULT 0,
			UNIQUE (product_id, date)
		)`,
		`CREATE TABLE IF NOT EXISTS forecast_runs (
			id BIGSERIAL PRIMARY KEY,
			product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			months INT NOT NULL,
			review_days INT NOT NULL,
			accuracy_pct DOUBLE PRECISION,
			run_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS reorder_plans (
			id BIGSERIAL PRIMARY KEY,
			run_id BIGINT NOT NULL REFERENCES forecast_runs(id) ON DELETE CASCADE,
			review_date DATE NOT NULL,
			stock_before DOUBLE PRECISION NOT NULL,
			demand_next DOUBLE PRECISION NOT NULL,
			order_qty DOUBLE PRECISION NOT NULL,
			stockout BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_records_product_date ON sales_records (product_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_reorder_plans_run ON reorder_plans (run_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(c.Context, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	log.Println("schema created")
	return nil
}

type demoProduct struct {
	name      string
	minStock  float64
	baseSales float64
	weekendUp float64
	seed      int64
}

func runDemo(c *cli.Context) error {
	db := dbFrom(c)
	days := c.Int("days")

	products := []demoProduct{
		{name: "Espresso Beans 1kg", minStock: 50, baseSales: 12, weekendUp: 1.6, seed: 1},
		{name: "Oat Milk 1L", minStock: 80, baseSales: 25, weekendUp: 1.3, seed: 2},
		{name: "Paper Cups 250ml", minStock: 200, baseSales: 60, weekendUp: 1.8, seed: 3},
	}

	for _, p := range products {
		if err := seedProduct(c.Context, db, p, days); err != nil {
			return fmt.Errorf("failed to seed %s: %w", p.name, err)
		}
		log.Printf("seeded %s with %d days of history", p.name, days)
	}

	return nil
}

func seedProduct(ctx context.Context, db *sql.DB, p demoProduct, days int) error {
	var id int64
	err := db.QueryRowContext(ctx, `
		INSERT INTO products (stock_name, min_stock_level, is_active)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (stock_name) DO UPDATE SET min_stock_level = EXCLUDED.min_stock_level
		RETURNING id
	`, p.name, p.minStock).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}

	// Fixed seed per product keeps reseeding idempotent.
	rng := rand.New(rand.NewSource(p.seed))
	start := time.Now().AddDate(0, 0, -days)
	stock := p.minStock * 3

	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO sales_records (product_id, date, daily_sales, stock_quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, date) DO UPDATE SET
			daily_sales = EXCLUDED.daily_sales,
			stock_quantity = EXCLUDED.stock_quantity
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)

		sales := p.baseSales * (1 + 0.2*math.Sin(2*math.Pi*float64(i)/7))
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			sales *= p.weekendUp
		}
		sales = math.Max(0, sales+rng.NormFloat64()*p.baseSales*0.15)
		sales = math.Round(sales)

		stock -= sales
		if stock < p.minStock {
			// Restock to three safety floors, mimicking a periodic reorder.
			stock = p.minStock * 3
		}

		if _, err := stmt.ExecContext(ctx, id, day.Format("2006-01-02"), sales, stock); err != nil {
			return fmt.Errorf("failed to insert sales record: %w", err)
		}
	}

	return nil
}

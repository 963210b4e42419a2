package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/logicmart/analytics/internal/adapter/postgres"
	"github.com/logicmart/analytics/internal/adapter/store"
	"github.com/logicmart/analytics/internal/config"
	"github.com/logicmart/analytics/internal/core/port"
)

// businessHours weights transaction volume per opening hour. Lunch and the
// early evening peak; the first and last hours barely tick over.
var businessHours = map[int]int{
	8:  1,
	9:  8,
	10: 7,
	11: 7,
	12: 10,
	13: 12,
	14: 4,
	15: 6,
	16: 8,
	17: 13,
	18: 9,
	19: 15,
	20: 4,
	21: 4,
	22: 2,
}

var paymentMethods = []string{"cash", "card", "mobile"}

type catalogProduct struct {
	sku      string
	name     string
	category string
	supplier string
	cost     float64
	price    float64
	stock    int
}

// catalog references the categories and suppliers created by the schema
// migrations by name. Inserts are keyed on SKU, so reseeding is a no-op.
var catalog = []catalogProduct{
	{"FV-001", "Bananas 1kg", "Fruits & Vegetables", "Fresh Farm Co.", 0.79, 1.49, 180},
	{"FV-002", "Tomatoes 500g", "Fruits & Vegetables", "Fresh Farm Co.", 0.95, 1.99, 140},
	{"FV-003", "Potatoes 2kg", "Fruits & Vegetables", "Fresh Farm Co.", 1.20, 2.49, 90},
	{"DE-001", "Whole Milk 1L", "Dairy & Eggs", "Dairy Best Ltd.", 0.89, 1.59, 220},
	{"DE-002", "Free-Range Eggs 12pk", "Dairy & Eggs", "Dairy Best Ltd.", 2.10, 3.49, 120},
	{"DE-003", "Cheddar Cheese 400g", "Dairy & Eggs", "Dairy Best Ltd.", 2.80, 4.99, 75},
	{"MS-001", "Chicken Breast 1kg", "Meat & Seafood", "Ocean Fresh Seafood", 4.50, 7.99, 60},
	{"MS-002", "Salmon Fillet 300g", "Meat & Seafood", "Ocean Fresh Seafood", 5.20, 8.99, 40},
	{"BK-001", "Sourdough Loaf", "Bakery", "Golden Bakery", 1.40, 3.29, 55},
	{"BK-002", "Croissants 4pk", "Bakery", "Golden Bakery", 1.10, 2.79, 65},
	{"BV-001", "Orange Juice 1L", "Beverages", "Beverage Distributors Inc.", 1.15, 2.29, 150},
	{"BV-002", "Sparkling Water 6pk", "Beverages", "Beverage Distributors Inc.", 1.60, 3.19, 130},
	{"SN-001", "Tortilla Chips 200g", "Snacks", "Beverage Distributors Inc.", 0.85, 1.99, 170},
	{"SN-002", "Mixed Nuts 250g", "Snacks", "Fresh Farm Co.", 2.40, 4.49, 85},
	{"HH-001", "Dish Soap 500ml", "Household", "Beverage Distributors Inc.", 0.95, 2.19, 110},
	{"FF-001", "Vanilla Ice Cream 1L", "Frozen Foods", "Dairy Best Ltd.", 1.90, 3.99, 70},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		daysFlag   = flag.Int("days", 1, "number of days to seed, ending today")
		volumeFlag = flag.Float64("volume", 1.0, "multiplier on the hourly transaction counts")
		seedFlag   = flag.Int64("seed", 0, "random seed (0 picks one from the clock)")
	)
	flag.Parse()

	if *daysFlag < 1 {
		return fmt.Errorf("days must be at least 1, got %d", *daysFlag)
	}
	if *volumeFlag <= 0 {
		return fmt.Errorf("volume must be positive, got %g", *volumeFlag)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	if err := store.Migrate(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	policy := postgres.RetryPolicy{MaxAttempts: cfg.RetryAttempts, Backoff: cfg.RetryBackoff}
	conns, err := postgres.NewConnManager(postgres.ConnConfig{
		URL:               cfg.DatabaseURL,
		ConnectTimeout:    cfg.ConnectTimeout,
		KeepaliveIdle:     cfg.KeepaliveIdle,
		KeepaliveInterval: cfg.KeepaliveInterval,
		KeepaliveCount:    cfg.KeepaliveCount,
	}, policy, logger)
	if err != nil {
		return fmt.Errorf("building connection manager: %w", err)
	}
	defer conns.Close(context.Background())

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &seeder{
		exec:   postgres.NewExecutor(conns, policy, logger),
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}

	ctx := context.Background()
	if err := s.ensureCatalog(ctx); err != nil {
		return err
	}

	products, err := s.loadProducts(ctx)
	if err != nil {
		return err
	}
	cashier, err := s.loadCashier(ctx)
	if err != nil {
		return err
	}

	var (
		totalTxns    int
		totalRevenue float64
	)
	today := time.Now()
	for d := *daysFlag - 1; d >= 0; d-- {
		day := today.AddDate(0, 0, -d)
		txns, revenue, err := s.seedDay(ctx, day, *volumeFlag, products, cashier)
		if err != nil {
			return fmt.Errorf("seeding %s: %w", day.Format("2006-01-02"), err)
		}
		logger.Info("day seeded",
			slog.String("date", day.Format("2006-01-02")),
			slog.Int("transactions", txns),
			slog.Float64("revenue", math.Round(revenue*100)/100),
		)
		totalTxns += txns
		totalRevenue += revenue
	}

	logger.Info("seed complete",
		slog.Int("days", *daysFlag),
		slog.Int("transactions", totalTxns),
		slog.Float64("revenue", math.Round(totalRevenue*100)/100),
		slog.Int64("seed", seed),
	)
	return nil
}

type seeder struct {
	exec   port.QueryExecutor
	rng    *rand.Rand
	logger *slog.Logger
}

type product struct {
	id    int64
	price float64
}

func (s *seeder) ensureCatalog(ctx context.Context) error {
	const insertProduct = `
		INSERT INTO products (sku, name, category_id, supplier_id, cost_price, selling_price, current_stock)
		VALUES ($1, $2,
			(SELECT id FROM categories WHERE name = $3),
			(SELECT id FROM suppliers WHERE name = $4),
			$5, $6, $7)
		ON CONFLICT (sku) DO NOTHING`

	var added int64
	for _, p := range catalog {
		n, err := s.exec.Exec(ctx, insertProduct, p.sku, p.name, p.category, p.supplier, p.cost, p.price, p.stock)
		if err != nil {
			return fmt.Errorf("inserting product %s: %w", p.sku, err)
		}
		added += n
	}
	if added > 0 {
		s.logger.Info("product catalog created", slog.Int64("products", added))
	}
	return nil
}

func (s *seeder) loadProducts(ctx context.Context) ([]product, error) {
	tbl, err := s.exec.Query(ctx, `SELECT id, selling_price FROM products WHERE is_active = TRUE ORDER BY id LIMIT 20`)
	if err != nil {
		return nil, fmt.Errorf("loading products: %w", err)
	}
	if tbl.Empty() {
		return nil, fmt.Errorf("no active products found")
	}

	products := make([]product, 0, tbl.RowCount())
	for i := range tbl.Rows {
		id, _ := tbl.Value(i, "id")
		price, _ := tbl.Value(i, "selling_price")
		products = append(products, product{id: asInt64(id), price: asFloat64(price)})
	}
	return products, nil
}

// loadCashier picks the first seeded user to stamp on transactions and
// inventory movements.
func (s *seeder) loadCashier(ctx context.Context) (int64, error) {
	tbl, err := s.exec.Query(ctx, `SELECT MIN(id) AS id FROM users`)
	if err != nil {
		return 0, fmt.Errorf("loading cashier: %w", err)
	}
	v, ok := tbl.Value(0, "id")
	if !ok || v == nil {
		return 0, fmt.Errorf("no users found; run migrations first")
	}
	return asInt64(v), nil
}

func (s *seeder) seedDay(ctx context.Context, day time.Time, volume float64, products []product, cashier int64) (int, float64, error) {
	var (
		txns    int
		revenue float64
	)
	for hour := 8; hour <= 22; hour++ {
		count := int(float64(businessHours[hour])*volume + 0.5)
		for i := 0; i < count; i++ {
			total, err := s.insertTransaction(ctx, day, hour, i, products, cashier)
			if err != nil {
				return txns, revenue, err
			}
			txns++
			revenue += total
		}
	}
	return txns, revenue, nil
}

type lineItem struct {
	product  product
	quantity int
	total    float64
}

func (s *seeder) insertTransaction(ctx context.Context, day time.Time, hour, seq int, products []product, cashier int64) (float64, error) {
	// The uuid suffix keeps codes unique across reruns for the same day.
	code := fmt.Sprintf("TXN%s%02d%03d-%s", day.Format("20060102"), hour, seq, uuid.NewString()[:8])
	at := time.Date(day.Year(), day.Month(), day.Day(), hour, s.rng.Intn(60), s.rng.Intn(60), 0, time.Local)

	items := make([]lineItem, 1+s.rng.Intn(5))
	var subtotal float64
	for i := range items {
		p := products[s.rng.Intn(len(products))]
		qty := 1 + s.rng.Intn(3)
		items[i] = lineItem{product: p, quantity: qty, total: float64(qty) * p.price}
		subtotal += items[i].total
	}
	tax := math.Round(subtotal*5) / 100
	total := subtotal + tax
	payment := paymentMethods[s.rng.Intn(len(paymentMethods))]

	const insertTxn = `
		INSERT INTO sales_transactions (transaction_id, cashier_id, total_amount, tax_amount, discount_amount, payment_method, transaction_date, status)
		VALUES ($1, $2, $3, $4, 0, $5, $6, 'completed')`
	if _, err := s.exec.Exec(ctx, insertTxn, code, cashier, total, tax, payment, at); err != nil {
		return 0, fmt.Errorf("inserting transaction %s: %w", code, err)
	}

	// Writes go through Exec, which never retries, so the generated id is
	// fetched back by the unique code rather than RETURNING through Query.
	idTbl, err := s.exec.Query(ctx, `SELECT id FROM sales_transactions WHERE transaction_id = $1`, code)
	if err != nil {
		return 0, fmt.Errorf("resolving transaction %s: %w", code, err)
	}
	v, ok := idTbl.Value(0, "id")
	if !ok {
		return 0, fmt.Errorf("transaction %s not found after insert", code)
	}
	txnID := asInt64(v)

	const insertItem = `
		INSERT INTO sales_transaction_items (transaction_id, product_id, quantity, unit_price, total_price, discount_applied)
		VALUES ($1, $2, $3, $4, $5, 0)`
	const insertMovement = `
		INSERT INTO inventory_movements (product_id, movement_type, quantity, reference_id, reference_type, notes, movement_date, created_by)
		VALUES ($1, 'outbound', $2, $3, 'sale', $4, $5, $6)`
	const decrementStock = `
		UPDATE products SET current_stock = GREATEST(current_stock - $1, 0), updated_at = $2 WHERE id = $3`

	for _, item := range items {
		if _, err := s.exec.Exec(ctx, insertItem, txnID, item.product.id, item.quantity, item.product.price, item.total); err != nil {
			return 0, fmt.Errorf("inserting item for %s: %w", code, err)
		}
		if _, err := s.exec.Exec(ctx, insertMovement, item.product.id, item.quantity, txnID, "sale "+code, at, cashier); err != nil {
			return 0, fmt.Errorf("inserting movement for %s: %w", code, err)
		}
		if _, err := s.exec.Exec(ctx, decrementStock, item.quantity, at, item.product.id); err != nil {
			return 0, fmt.Errorf("updating stock for %s: %w", code, err)
		}
	}
	return total, nil
}

// pgx surfaces SERIAL ids as int32 and BIGSERIAL as int64.
func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int16:
		return int64(n)
	case int:
		return int64(n)
	}
	return 0
}

func asFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	}
	return 0
}

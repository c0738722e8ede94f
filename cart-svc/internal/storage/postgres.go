package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"delivery-platform/cart-svc/internal/domain"
	"delivery-platform/cart-svc/internal/service"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) ListItems(ctx context.Context, vendorID string) ([]domain.CatalogItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT ci.id, v.id, v.name, v.section, ci.name, ci.price
		FROM catalog_items ci
		JOIN vendors v ON ci.vendor_id = v.id
		WHERE v.id = $1
		ORDER BY ci.name`, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.CatalogItem{}
	for rows.Next() {
		var item domain.CatalogItem
		if err := rows.Scan(&item.ID, &item.VendorID, &item.VendorName, &item.Section, &item.Name, &item.Price); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) ResolveItem(ctx context.Context, vendorID, itemID string) (*domain.CatalogItem, error) {
	var item domain.CatalogItem
	err := r.DB.QueryRowContext(ctx, `
		SELECT ci.id, v.id, v.name, v.section, ci.name, ci.price
		FROM catalog_items ci
		JOIN vendors v ON ci.vendor_id = v.id
		WHERE v.id = $1 AND ci.id = $2`, vendorID, itemID).
		Scan(&item.ID, &item.VendorID, &item.VendorName, &item.Section, &item.Name, &item.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.ErrCatalogItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO orders (session_id, vendor_id, vendor_name, section, subtotal, delivery_fee, tax, total, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, order.SessionID, order.VendorID, order.VendorName, order.Section,
		order.Subtotal, order.DeliveryFee, order.Tax, order.Total, order.Status).
		Scan(&order.ID, &order.CreatedAt); err != nil {
		return err
	}

	for _, item := range order.Items {
		options, err := json.Marshal(item.Options)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, item_id, name, quantity, unit_price, options, special_instructions)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, order.ID, item.ItemID, item.Name, item.Quantity, item.UnitPrice, string(options), item.SpecialInstructions); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) SaveQRCode(ctx context.Context, orderID int, qr []byte) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE orders SET qr_code = $1 WHERE id = $2`, qr, orderID)
	return err
}

func (r *PostgresRepository) GetOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	var order domain.Order
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, session_id, vendor_id, vendor_name, section, subtotal, delivery_fee, tax, total, status, created_at
		FROM orders WHERE id = $1
	`, orderID).Scan(&order.ID, &order.SessionID, &order.VendorID, &order.VendorName, &order.Section,
		&order.Subtotal, &order.DeliveryFee, &order.Tax, &order.Total, &order.Status, &order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT item_id, name, quantity, unit_price, options, COALESCE(special_instructions, '')
		FROM order_items
		WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	order.Items = []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		var options []byte
		if err := rows.Scan(&item.ItemID, &item.Name, &item.Quantity, &item.UnitPrice, &options, &item.SpecialInstructions); err != nil {
			continue
		}
		if len(options) > 0 {
			_ = json.Unmarshal(options, &item.Options)
		}
		order.Items = append(order.Items, item)
	}

	return &order, rows.Err()
}

func (r *PostgresRepository) GetQRCode(ctx context.Context, orderID int) ([]byte, error) {
	var qrCode []byte
	err := r.DB.QueryRowContext(ctx, "SELECT qr_code FROM orders WHERE id = $1", orderID).Scan(&qrCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return qrCode, nil
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS vendors (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			section TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS catalog_items (
			id TEXT NOT NULL,
			vendor_id TEXT NOT NULL REFERENCES vendors(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			price NUMERIC(10, 2) NOT NULL,
			PRIMARY KEY (vendor_id, id)
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			session_id TEXT NOT NULL,
			vendor_id TEXT NOT NULL,
			vendor_name TEXT NOT NULL,
			section TEXT NOT NULL,
			subtotal NUMERIC(10, 2) NOT NULL,
			delivery_fee NUMERIC(10, 2) NOT NULL,
			tax NUMERIC(10, 2) NOT NULL,
			total NUMERIC(10, 2) NOT NULL,
			status TEXT NOT NULL,
			qr_code BYTEA,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			item_id TEXT NOT NULL,
			name TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			unit_price NUMERIC(10, 2) NOT NULL,
			options JSONB,
			special_instructions TEXT
		)`,
	}
	for _, stmt := range statements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

var (
	_ service.OrderRepository   = (*PostgresRepository)(nil)
	_ service.CatalogRepository = (*PostgresRepository)(nil)
)

package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/appaccess/app/models"
	_ "github.com/shashiranjanraj/appaccess/database/migrations"
	"github.com/shashiranjanraj/appaccess/pkg/cache"
	"github.com/shashiranjanraj/appaccess/pkg/database"
	"github.com/shashiranjanraj/appaccess/pkg/event"
	"github.com/shashiranjanraj/appaccess/pkg/logger"
	"github.com/shashiranjanraj/appaccess/pkg/migration"
)

// ErrCustomerNotFound is returned when no customer row has the requested id.
var ErrCustomerNotFound = errors.New("customer not found")

const summarySQL = `
SELECT c.id, c.name, c.email, c.ssn, c.credit_card, c.address, c.created_at,
       COALESCE(t.total_orders, 0) AS total_orders,
       COALESCE(t.total_spent, 0) AS total_spent
FROM customers c
LEFT JOIN (
    SELECT customer_id, COUNT(*) AS total_orders, SUM(total_amount) AS total_spent
    FROM orders
    GROUP BY customer_id
) t ON t.customer_id = c.id
WHERE c.id = ?`

// orderTotals is the cached part of a summary. Customer columns are always
// read from the database.
type orderTotals struct {
	TotalOrders int64   `json:"total_orders"`
	TotalSpent  float64 `json:"total_spent"`
}

// CustomerRepository handles database operations for customers and their orders.
type CustomerRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

// Option configures a CustomerRepository.
type Option func(*CustomerRepository)

// WithCache caches per-customer order totals. A nil cache disables caching.
func WithCache(c *cache.Cache) Option {
	return func(r *CustomerRepository) { r.cache = c }
}

func NewCustomerRepository(db *gorm.DB, opts ...Option) *CustomerRepository {
	r := &CustomerRepository{db: db}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DB exposes the underlying handle for seeders and tests.
func (r *CustomerRepository) DB() *gorm.DB { return r.db }

// EnsureSchema creates the customers and orders tables if they are missing.
func (r *CustomerRepository) EnsureSchema(ctx context.Context) error {
	return migration.New(r.db).Run(ctx)
}

// AddCustomer inserts a customer and returns its generated id.
func (r *CustomerRepository) AddCustomer(ctx context.Context, in models.NewCustomer) (uint, error) {
	c := in.Customer()
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return 0, fmt.Errorf("insert customer %q: %w", in.Email, err)
	}
	event.Fire(event.CustomerRegistered, c.Redacted())
	return c.ID, nil
}

// CreateOrder inserts an order for an existing customer and returns its id.
// A missing customer surfaces as the driver's foreign key error.
//
// The customer's totals version moves on both sides of the insert, so
// totals cached while the insert was in flight are never read. When the
// first move fails the order is not inserted.
func (r *CustomerRepository) CreateOrder(ctx context.Context, in models.NewOrder) (uint, error) {
	if err := r.cache.Bump(ctx, versionKey(in.CustomerID)); err != nil {
		return 0, fmt.Errorf("invalidate totals for customer %d: %w", in.CustomerID, err)
	}

	o := in.Order()
	if err := r.db.WithContext(ctx).Omit("Customer").Create(&o).Error; err != nil {
		return 0, fmt.Errorf("insert order for customer %d: %w", in.CustomerID, err)
	}

	if err := r.cache.Bump(ctx, versionKey(in.CustomerID)); err != nil {
		logger.WithCtx(ctx).Warn("cache: totals version not advanced after insert",
			"customer_id", in.CustomerID, "order_id", o.ID, "error", err)
	}
	event.Fire(event.OrderCreated, o)
	return o.ID, nil
}

// FindWithTotals returns the customer with its order count and spend.
func (r *CustomerRepository) FindWithTotals(ctx context.Context, id uint) (models.CustomerSummary, error) {
	version, err := r.cache.Version(ctx, versionKey(id))
	cacheable := err == nil
	if !cacheable {
		logger.WithCtx(ctx).Warn("cache: totals version unavailable", "customer_id", id, "error", err)
	}

	var t orderTotals
	if cacheable && r.cache.Get(ctx, totalsKey(id, version), &t) {
		return r.withTotals(ctx, id, t)
	}

	var s models.CustomerSummary
	res := r.db.WithContext(ctx).Raw(summarySQL, id).Scan(&s)
	if res.Error != nil {
		return models.CustomerSummary{}, fmt.Errorf("load customer %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.CustomerSummary{}, ErrCustomerNotFound
	}
	s.TotalSpent = models.RoundCents(s.TotalSpent)

	if cacheable {
		t = orderTotals{TotalOrders: s.TotalOrders, TotalSpent: s.TotalSpent}
		if err := r.cache.Set(ctx, totalsKey(id, version), t); err != nil {
			logger.WithCtx(ctx).Warn("cache: store totals", "customer_id", id, "error", err)
		}
	}
	return s, nil
}

func (r *CustomerRepository) withTotals(ctx context.Context, id uint, t orderTotals) (models.CustomerSummary, error) {
	var c models.Customer
	err := r.db.WithContext(ctx).Take(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CustomerSummary{}, ErrCustomerNotFound
	}
	if err != nil {
		return models.CustomerSummary{}, fmt.Errorf("load customer %d: %w", id, err)
	}
	return c.Summary(t.TotalOrders, t.TotalSpent), nil
}

// SearchByEmail returns customers whose email contains pattern, ordered by id.
// The pattern is matched literally.
func (r *CustomerRepository) SearchByEmail(ctx context.Context, pattern string) ([]models.CustomerMatch, error) {
	matches := []models.CustomerMatch{}
	err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Select("id", "name", "email").
		Where("email LIKE ? ESCAPE '!'", "%"+escapeLike(pattern)+"%").
		Order("id").
		Scan(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("search customers by %q: %w", pattern, err)
	}
	return matches, nil
}

// OrderHistory returns a customer's orders, newest first.
func (r *CustomerRepository) OrderHistory(ctx context.Context, customerID uint) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("load orders for customer %d: %w", customerID, err)
	}
	return orders, nil
}

func (r *CustomerRepository) Ping(ctx context.Context) error {
	return database.Ping(ctx, r.db)
}

// Close releases the connection and the cache client.
func (r *CustomerRepository) Close() error {
	cerr := r.cache.Close()
	if err := database.Close(r.db); err != nil {
		return err
	}
	return cerr
}

func versionKey(customerID uint) string {
	return fmt.Sprintf("customer:%d:version", customerID)
}

func totalsKey(customerID uint, version int64) string {
	return fmt.Sprintf("customer:%d:totals:%d", customerID, version)
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_", "[", "![")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

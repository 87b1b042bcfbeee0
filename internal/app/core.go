package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alrazi/medstock/internal/auth"
	"github.com/alrazi/medstock/internal/catalog"
	"github.com/alrazi/medstock/internal/integration"
	"github.com/alrazi/medstock/internal/inventory"
	"github.com/alrazi/medstock/internal/observability"
	"github.com/alrazi/medstock/internal/platform/cache"
	"github.com/alrazi/medstock/internal/reports"
	"github.com/alrazi/medstock/internal/store"
	"github.com/alrazi/medstock/internal/users"
)

// Core is the entry point the presentation layer calls. It owns the store
// handle and the services built on it.
type Core struct {
	Catalog   *catalog.Service
	Inventory *inventory.Service
	Users     *users.Service
	Auth      *auth.Service
	Reports   *reports.Service
	Metrics   *observability.Metrics

	store       store.Store
	cacheClient *redis.Client
	logger      *slog.Logger
	now         func() time.Time
}

// Option customises Core construction.
type Option func(*Core)

// WithClock overrides the clock used for timestamps and the dashboard day.
func WithClock(now func() time.Time) Option {
	return func(c *Core) {
		if now != nil {
			c.now = now
		}
	}
}

// WithReportsCache caches report datasets in Redis through client.
func WithReportsCache(client *redis.Client) Option {
	return func(c *Core) {
		c.cacheClient = client
	}
}

// Open connects the configured store and builds Core on it.
func Open(ctx context.Context, cfg *Config, logger *slog.Logger, opts ...Option) (*Core, error) {
	st, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.ReportsCache {
		client, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		opts = append(opts, WithReportsCache(client))
	}
	core, err := New(ctx, cfg, logger, st, opts...)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return core, nil
}

// New initialises st, seeds the default administrator and wires services.
func New(ctx context.Context, cfg *Config, logger *slog.Logger, st store.Store, opts ...Option) (*Core, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Core{store: st, logger: logger, now: time.Now, Metrics: observability.NewMetrics()}
	for _, opt := range opts {
		opt(c)
	}

	if err := st.Init(ctx); err != nil {
		c.closeCache()
		return nil, fmt.Errorf("app: init store: %w", err)
	}

	c.Users = users.NewService(users.NewRepository(st), logger)
	if _, err := c.Users.EnsureDefaultAdmin(ctx, users.DefaultAdmin{
		Username:    cfg.SeedAdminUsername,
		Password:    cfg.SeedAdminPassword,
		DisplayName: cfg.SeedAdminDisplayName,
	}); err != nil {
		c.closeCache()
		return nil, err
	}
	c.Auth = auth.NewService(c.Users)
	c.Catalog = catalog.NewService(catalog.NewRepository(st)).WithClock(c.now)

	hooks := integration.NewHooks(logger, c.Metrics, cfg.LowStockThreshold)
	c.Inventory = inventory.NewService(inventory.NewRepository(st), logger, inventory.ServiceConfig{
		AllowNegativeStock: cfg.AllowNegativeStock,
		StrictItemRefs:     cfg.LedgerStrictItemRefs,
		Now:                c.now,
	}, hooks)

	var reportsCache *reports.Cache
	if c.cacheClient != nil {
		reportsCache = reports.NewCache(c.cacheClient, cfg.ReportsCacheTTL)
	}
	c.Reports = reports.NewService(c.Catalog, c.Inventory, reportsCache, reports.Config{
		LowStockThreshold: cfg.LowStockThreshold,
	})
	hooks.AttachReports(c.Reports)
	return c, nil
}

// Store exposes the underlying handle.
func (c *Core) Store() store.Store {
	return c.store
}

// Close releases the store and the reports cache connection.
func (c *Core) Close() error {
	return errors.Join(c.store.Close(), c.closeCache())
}

func (c *Core) closeCache() error {
	if c.cacheClient == nil {
		return nil
	}
	return c.cacheClient.Close()
}

// ListItems returns the catalog.
func (c *Core) ListItems(ctx context.Context) ([]catalog.Item, error) {
	return c.Catalog.List(ctx)
}

// SearchItems filters the catalog by name, code or category.
func (c *Core) SearchItems(ctx context.Context, term string) ([]catalog.Item, error) {
	return c.Catalog.Search(ctx, term)
}

// CreateItem registers an item.
func (c *Core) CreateItem(ctx context.Context, in catalog.CreateItemInput) (catalog.Item, error) {
	item, err := c.Catalog.Create(ctx, in)
	if err != nil {
		return catalog.Item{}, err
	}
	c.invalidateReports(ctx)
	return item, nil
}

// UpdateItem edits an item's descriptive fields. Callers gate this to admins.
func (c *Core) UpdateItem(ctx context.Context, id string, in catalog.UpdateItemInput) (catalog.Item, error) {
	item, err := c.Catalog.Update(ctx, id, in)
	if err != nil {
		return catalog.Item{}, err
	}
	c.invalidateReports(ctx)
	return item, nil
}

// DeleteItem removes an item. Callers gate this to admins.
func (c *Core) DeleteItem(ctx context.Context, id string) error {
	if err := c.Catalog.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidateReports(ctx)
	return nil
}

// ListTransactions returns every movement, newest first.
func (c *Core) ListTransactions(ctx context.Context) ([]inventory.Transaction, error) {
	return c.Inventory.List(ctx)
}

// SearchTransactions filters movements by item name or username.
func (c *Core) SearchTransactions(ctx context.Context, term string) ([]inventory.Transaction, error) {
	return c.Inventory.Search(ctx, term)
}

// RecordTransaction posts a movement on behalf of actor.
func (c *Core) RecordTransaction(ctx context.Context, itemID string, direction inventory.Direction, quantity int, actor users.User) (inventory.Transaction, error) {
	return c.Inventory.Record(ctx, inventory.RecordInput{
		ItemID:    itemID,
		Direction: direction,
		Quantity:  quantity,
		Actor:     inventory.Actor{UserID: actor.ID, DisplayName: actor.DisplayName},
	})
}

// ReviseTransaction corrects a movement's quantity. Callers gate this to admins.
func (c *Core) ReviseTransaction(ctx context.Context, transactionID string, quantity int) (inventory.Transaction, error) {
	return c.Inventory.Revise(ctx, inventory.ReviseInput{TransactionID: transactionID, Quantity: quantity})
}

// Authenticate checks credentials.
func (c *Core) Authenticate(ctx context.Context, username, password string) (users.User, error) {
	return c.Auth.Authenticate(ctx, username, password)
}

// UpdateProfile edits the caller's own account.
func (c *Core) UpdateProfile(ctx context.Context, in users.ProfileInput) (users.User, error) {
	return c.Users.UpdateProfile(ctx, in)
}

// Dashboard summarises stock for the current day.
func (c *Core) Dashboard(ctx context.Context) (reports.DashboardStats, error) {
	return c.Reports.Dashboard(ctx, c.now())
}

// DailyActivity returns the movements of day.
func (c *Core) DailyActivity(ctx context.Context, day time.Time) (reports.DailyActivityReport, error) {
	return c.Reports.DailyActivity(ctx, day)
}

// InventoryReport returns the stock snapshot.
func (c *Core) InventoryReport(ctx context.Context) (reports.InventoryReport, error) {
	return c.Reports.Inventory(ctx)
}

// Movements returns all movements of one direction.
func (c *Core) Movements(ctx context.Context, direction inventory.Direction) (reports.MovementReport, error) {
	return c.Reports.Movements(ctx, direction)
}

func (c *Core) invalidateReports(ctx context.Context) {
	if err := c.Reports.Invalidate(ctx); err != nil {
		c.logger.WarnContext(ctx, "invalidate reports cache", slog.Any("error", err))
	}
}

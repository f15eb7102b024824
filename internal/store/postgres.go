package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/ridgepoint/commission-cli/internal/db"
	"github.com/ridgepoint/commission-cli/internal/model"
)

// Postgres implements Store using pgxpool.
type Postgres struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

const (
	upsertCustomerSQL = `INSERT INTO customers
		(customer_id, name, account_number, account_type, account_type_source, ship_street, ship_city, ship_state, ship_zip, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (customer_id) DO UPDATE SET
			name = EXCLUDED.name,
			account_number = EXCLUDED.account_number,
			account_type = EXCLUDED.account_type,
			account_type_source = EXCLUDED.account_type_source,
			ship_street = EXCLUDED.ship_street,
			ship_city = EXCLUDED.ship_city,
			ship_state = EXCLUDED.ship_state,
			ship_zip = EXCLUDED.ship_zip,
			updated_at = EXCLUDED.updated_at`

	upsertOrderSQL = `INSERT INTO sales_orders
		(order_id, order_number, customer_id, sales_person_code, posting_date, commission_month, commission_year, revenue, order_value, line_item_count, account_type, alt_channel, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (order_id) DO UPDATE SET
			order_number = EXCLUDED.order_number,
			customer_id = EXCLUDED.customer_id,
			sales_person_code = EXCLUDED.sales_person_code,
			posting_date = EXCLUDED.posting_date,
			commission_month = EXCLUDED.commission_month,
			commission_year = EXCLUDED.commission_year,
			revenue = EXCLUDED.revenue,
			order_value = EXCLUDED.order_value,
			line_item_count = EXCLUDED.line_item_count,
			account_type = EXCLUDED.account_type,
			alt_channel = EXCLUDED.alt_channel,
			updated_at = EXCLUDED.updated_at`

	upsertLineItemSQL = `INSERT INTO line_items
		(line_item_id, order_id, part_number, description, quantity, unit_price, revenue, is_shipping_item, is_cc_processing, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (line_item_id) DO UPDATE SET
			order_id = EXCLUDED.order_id,
			part_number = EXCLUDED.part_number,
			description = EXCLUDED.description,
			quantity = EXCLUDED.quantity,
			unit_price = EXCLUDED.unit_price,
			revenue = EXCLUDED.revenue,
			is_shipping_item = EXCLUDED.is_shipping_item,
			is_cc_processing = EXCLUDED.is_cc_processing,
			updated_at = EXCLUDED.updated_at`

	orderColumns = `order_id, order_number, customer_id, sales_person_code, posting_date, commission_month, commission_year, revenue, order_value, line_item_count, account_type, alt_channel, updated_at`
)

// preparedStatements lists queries to prepare on each new connection for
// the hottest store operations.
var preparedStatements = map[string]string{
	"latest_order_before": `SELECT ` + orderColumns + ` FROM sales_orders
		WHERE customer_id = $1 AND posting_date IS NOT NULL AND posting_date < $2
		ORDER BY posting_date DESC LIMIT 1`,
	"get_customer":      `SELECT customer_id, name, account_number, account_type, account_type_source, account_type_override, copper_id, ship_street, ship_city, ship_state, ship_zip, updated_at FROM customers WHERE customer_id = $1`,
	"upsert_commission": upsertCommissionSQL,
	"save_progress":     saveProgressSQL,
}

const upsertCommissionSQL = `INSERT INTO commission_records
	(sales_person, commission_month, order_id, customer_id, customer_segment, customer_status, rate_pct, order_amount, amount, paid_status, calculated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (sales_person, commission_month, order_id) DO UPDATE SET
		customer_id = EXCLUDED.customer_id,
		customer_segment = EXCLUDED.customer_segment,
		customer_status = EXCLUDED.customer_status,
		rate_pct = EXCLUDED.rate_pct,
		order_amount = EXCLUDED.order_amount,
		amount = EXCLUDED.amount,
		calculated_at = EXCLUDED.calculated_at`

const saveProgressSQL = `INSERT INTO import_progress (import_id, doc, updated_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (import_id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`

// NewPostgres creates a Postgres store with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*Postgres, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &Postgres{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool; used by tests with pgxmock.
func NewPostgresFromPool(pool db.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Pool returns the underlying database pool for subsystems that need
// direct query access.
func (s *Postgres) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS customers (
	customer_id           TEXT PRIMARY KEY,
	name                  TEXT NOT NULL DEFAULT '',
	account_number        TEXT NOT NULL DEFAULT '',
	account_type          TEXT NOT NULL DEFAULT 'Retail',
	account_type_source   TEXT NOT NULL DEFAULT 'fishbowl',
	account_type_override TEXT NOT NULL DEFAULT '',
	copper_id             TEXT NOT NULL DEFAULT '',
	ship_street           TEXT NOT NULL DEFAULT '',
	ship_city             TEXT NOT NULL DEFAULT '',
	ship_state            TEXT NOT NULL DEFAULT '',
	ship_zip              TEXT NOT NULL DEFAULT '',
	updated_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS sales_orders (
	order_id          TEXT PRIMARY KEY,
	order_number      TEXT NOT NULL,
	customer_id       TEXT NOT NULL,
	sales_person_code TEXT NOT NULL DEFAULT '',
	posting_date      TIMESTAMPTZ,
	commission_month  TEXT NOT NULL DEFAULT '',
	commission_year   INT NOT NULL DEFAULT 0,
	revenue           NUMERIC(14,2) NOT NULL DEFAULT 0,
	order_value       NUMERIC(14,2) NOT NULL DEFAULT 0,
	line_item_count   INT NOT NULL DEFAULT 0,
	account_type      TEXT NOT NULL DEFAULT 'Retail',
	alt_channel       BOOLEAN NOT NULL DEFAULT false,
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS line_items (
	line_item_id     TEXT PRIMARY KEY,
	order_id         TEXT NOT NULL,
	part_number      TEXT NOT NULL DEFAULT '',
	description      TEXT NOT NULL DEFAULT '',
	quantity         NUMERIC(14,4) NOT NULL DEFAULT 0,
	unit_price       NUMERIC(14,4) NOT NULL DEFAULT 0,
	revenue          NUMERIC(14,2) NOT NULL DEFAULT 0,
	is_shipping_item BOOLEAN NOT NULL DEFAULT false,
	is_cc_processing BOOLEAN NOT NULL DEFAULT false,
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS reps (
	code   TEXT PRIMARY KEY,
	name   TEXT NOT NULL DEFAULT '',
	title  TEXT NOT NULL DEFAULT '',
	active BOOLEAN NOT NULL DEFAULT true
);

CREATE TABLE IF NOT EXISTS commission_rates (
	id  TEXT PRIMARY KEY,
	doc JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS commission_policy (
	id               INT PRIMARY KEY DEFAULT 1,
	exclude_shipping BOOLEAN NOT NULL DEFAULT true,
	use_order_value  BOOLEAN NOT NULL DEFAULT true
);

CREATE TABLE IF NOT EXISTS copper_companies (
	copper_id        TEXT PRIMARY KEY,
	name             TEXT NOT NULL DEFAULT '',
	account_order_id TEXT NOT NULL DEFAULT '',
	account_type_raw TEXT NOT NULL DEFAULT '',
	active_raw       TEXT NOT NULL DEFAULT '',
	street           TEXT NOT NULL DEFAULT '',
	city             TEXT NOT NULL DEFAULT '',
	state            TEXT NOT NULL DEFAULT '',
	zip              TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS commission_records (
	sales_person     TEXT NOT NULL,
	commission_month TEXT NOT NULL,
	order_id         TEXT NOT NULL,
	customer_id      TEXT NOT NULL DEFAULT '',
	customer_segment TEXT NOT NULL DEFAULT '',
	customer_status  TEXT NOT NULL DEFAULT '',
	rate_pct         NUMERIC(6,3) NOT NULL DEFAULT 0,
	order_amount     NUMERIC(14,2) NOT NULL DEFAULT 0,
	amount           NUMERIC(14,2) NOT NULL DEFAULT 0,
	paid_status      TEXT NOT NULL DEFAULT 'pending',
	calculated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (sales_person, commission_month, order_id)
);

CREATE TABLE IF NOT EXISTS monthly_summaries (
	sales_person     TEXT NOT NULL,
	commission_month TEXT NOT NULL,
	total_orders     INT NOT NULL DEFAULT 0,
	total_revenue    NUMERIC(14,2) NOT NULL DEFAULT 0,
	total_commission NUMERIC(14,2) NOT NULL DEFAULT 0,
	calculated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (sales_person, commission_month)
);

CREATE TABLE IF NOT EXISTS import_progress (
	import_id  TEXT PRIMARY KEY,
	doc        JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS bonus_entries (
	sales_person TEXT NOT NULL,
	quarter      TEXT NOT NULL,
	bucket       TEXT NOT NULL,
	sub_goal     TEXT NOT NULL DEFAULT '',
	goal_value   NUMERIC(14,2) NOT NULL DEFAULT 0,
	actual_value NUMERIC(14,2) NOT NULL DEFAULT 0,
	attainment   NUMERIC(10,4) NOT NULL DEFAULT 0,
	bucket_max   NUMERIC(14,2) NOT NULL DEFAULT 0,
	payout       NUMERIC(14,2) NOT NULL DEFAULT 0,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (sales_person, quarter, bucket, sub_goal)
);

CREATE INDEX IF NOT EXISTS idx_sales_orders_customer_date ON sales_orders(customer_id, posting_date DESC);
CREATE INDEX IF NOT EXISTS idx_sales_orders_month ON sales_orders(commission_month);
CREATE INDEX IF NOT EXISTS idx_line_items_order ON line_items(order_id);
CREATE INDEX IF NOT EXISTS idx_customers_account_number ON customers(account_number);
CREATE INDEX IF NOT EXISTS idx_commission_records_month ON commission_records(commission_month);
CREATE INDEX IF NOT EXISTS idx_copper_companies_aoid ON copper_companies(account_order_id);
`

// Migrate applies the schema.
func (s *Postgres) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "postgres: migrate")
	}
	return nil
}

// Close releases the connection pool.
func (s *Postgres) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// Batch returns a bounded batch writer over the ledger tables.
func (s *Postgres) Batch() WriteBatch {
	return &pgBatch{w: db.NewBatchWriter(s.pool)}
}

// pgBatch adapts db.BatchWriter to the WriteBatch interface.
type pgBatch struct {
	w *db.BatchWriter
}

func (b *pgBatch) UpsertCustomer(ctx context.Context, c *model.Customer) {
	b.w.Queue(ctx, upsertCustomerSQL,
		c.CustomerID, c.Name, c.AccountNumber, string(c.AccountType), string(c.AccountTypeSource),
		c.ShipStreet, c.ShipCity, c.ShipState, c.ShipZip, c.UpdatedAt)
}

func (b *pgBatch) UpsertOrder(ctx context.Context, o *model.SalesOrder) {
	b.w.Queue(ctx, upsertOrderSQL,
		o.OrderID, o.OrderNumber, o.CustomerID, o.SalesPersonCode, o.PostingDate,
		o.CommissionMonth, o.CommissionYear, o.Revenue, o.OrderValue,
		o.LineItemCount, string(o.AccountType), o.AltChannel, o.UpdatedAt)
}

func (b *pgBatch) UpsertLineItem(ctx context.Context, li *model.LineItem) {
	b.w.Queue(ctx, upsertLineItemSQL,
		li.LineItemID, li.OrderID, li.PartNumber, li.Description, li.Quantity,
		li.UnitPrice, li.Revenue, li.IsShippingItem, li.IsCCProcessing, li.UpdatedAt)
}

func (b *pgBatch) Flush(ctx context.Context)       { b.w.Flush(ctx) }
func (b *pgBatch) Close(ctx context.Context) error { return b.w.Close(ctx) }
func (b *pgBatch) Flushed() int                    { return b.w.Flushed() }
func (b *pgBatch) Failed() int                     { return b.w.Failed() }

func (s *Postgres) GetCustomer(ctx context.Context, customerID string) (*model.Customer, error) {
	var c model.Customer
	var accountType, source, override string
	err := s.pool.QueryRow(ctx,
		`SELECT customer_id, name, account_number, account_type, account_type_source, account_type_override, copper_id, ship_street, ship_city, ship_state, ship_zip, updated_at
		 FROM customers WHERE customer_id = $1`, customerID,
	).Scan(&c.CustomerID, &c.Name, &c.AccountNumber, &accountType, &source, &override,
		&c.CopperID, &c.ShipStreet, &c.ShipCity, &c.ShipState, &c.ShipZip, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get customer %s", customerID)
	}
	c.AccountType = model.AccountType(accountType)
	c.AccountTypeSource = model.AccountTypeSource(source)
	c.AccountTypeOverride = model.AccountType(override)
	return &c, nil
}

func (s *Postgres) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT customer_id, name, account_number, account_type, account_type_source, account_type_override, copper_id, ship_street, ship_city, ship_state, ship_zip, updated_at
		 FROM customers ORDER BY customer_id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list customers")
	}
	defer rows.Close()

	var customers []model.Customer
	for rows.Next() {
		var c model.Customer
		var accountType, source, override string
		if err := rows.Scan(&c.CustomerID, &c.Name, &c.AccountNumber, &accountType, &source, &override,
			&c.CopperID, &c.ShipStreet, &c.ShipCity, &c.ShipState, &c.ShipZip, &c.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan customer")
		}
		c.AccountType = model.AccountType(accountType)
		c.AccountTypeSource = model.AccountTypeSource(source)
		c.AccountTypeOverride = model.AccountType(override)
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// ApplyAccountTypes bulk-writes sync reconciler results. Only the
// account_type, account_type_source, and copper_id columns are touched;
// overrides and ingestion-owned fields are left alone.
func (s *Postgres) ApplyAccountTypes(ctx context.Context, updates []model.Customer) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	rows := make([][]any, 0, len(updates))
	for _, c := range updates {
		rows = append(rows, []any{c.CustomerID, string(c.AccountType), string(c.AccountTypeSource), c.CopperID})
	}
	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "customers",
		Columns:      []string{"customer_id", "account_type", "account_type_source", "copper_id"},
		ConflictKeys: []string{"customer_id"},
		UpdateCols:   []string{"account_type", "account_type_source", "copper_id"},
	}, rows)
}

func (s *Postgres) GetOrder(ctx context.Context, orderID string) (*model.SalesOrder, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM sales_orders WHERE order_id = $1`, orderID)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get order %s", orderID)
	}
	return o, nil
}

func (s *Postgres) ListOrdersByMonth(ctx context.Context, monthKey, repCode string) ([]model.SalesOrder, error) {
	sql := `SELECT ` + orderColumns + ` FROM sales_orders WHERE commission_month = $1`
	args := []any{monthKey}
	if repCode != "" {
		sql += ` AND sales_person_code = $2`
		args = append(args, repCode)
	}
	sql += ` ORDER BY order_id`

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list orders for %s", monthKey)
	}
	defer rows.Close()

	var orders []model.SalesOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan order")
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (s *Postgres) LatestOrderBefore(ctx context.Context, customerID string, before time.Time) (*model.SalesOrder, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM sales_orders
		 WHERE customer_id = $1 AND posting_date IS NOT NULL AND posting_date < $2
		 ORDER BY posting_date DESC LIMIT 1`, customerID, before)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: latest order before for %s", customerID)
	}
	return o, nil
}

func scanOrder(row pgx.Row) (*model.SalesOrder, error) {
	var o model.SalesOrder
	var accountType string
	if err := row.Scan(&o.OrderID, &o.OrderNumber, &o.CustomerID, &o.SalesPersonCode,
		&o.PostingDate, &o.CommissionMonth, &o.CommissionYear, &o.Revenue, &o.OrderValue,
		&o.LineItemCount, &accountType, &o.AltChannel, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.AccountType = model.AccountType(accountType)
	return &o, nil
}

func (s *Postgres) ListReps(ctx context.Context) ([]model.Rep, error) {
	rows, err := s.pool.Query(ctx, `SELECT code, name, title, active FROM reps ORDER BY code`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list reps")
	}
	defer rows.Close()

	var reps []model.Rep
	for rows.Next() {
		var r model.Rep
		if err := rows.Scan(&r.Code, &r.Name, &r.Title, &r.Active); err != nil {
			return nil, eris.Wrap(err, "postgres: scan rep")
		}
		reps = append(reps, r)
	}
	return reps, rows.Err()
}

func (s *Postgres) UpsertRep(ctx context.Context, rep *model.Rep) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO reps (code, name, title, active) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, title = EXCLUDED.title, active = EXCLUDED.active`,
		rep.Code, rep.Name, rep.Title, rep.Active)
	return eris.Wrapf(err, "postgres: upsert rep %s", rep.Code)
}

func (s *Postgres) ListRateTables(ctx context.Context) (map[string]*model.CommissionRate, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, doc FROM commission_rates`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list rate tables")
	}
	defer rows.Close()

	tables := make(map[string]*model.CommissionRate)
	for rows.Next() {
		var id string
		var doc []byte
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, eris.Wrap(err, "postgres: scan rate table")
		}
		var rate model.CommissionRate
		if err := json.Unmarshal(doc, &rate); err != nil {
			return nil, eris.Wrapf(err, "postgres: decode rate table %s", id)
		}
		tables[id] = &rate
	}
	return tables, rows.Err()
}

func (s *Postgres) SaveRateTable(ctx context.Context, id string, rate *model.CommissionRate) error {
	doc, err := json.Marshal(rate)
	if err != nil {
		return eris.Wrapf(err, "postgres: encode rate table %s", id)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO commission_rates (id, doc) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`, id, doc)
	return eris.Wrapf(err, "postgres: save rate table %s", id)
}

func (s *Postgres) GetPolicy(ctx context.Context) (*model.CommissionPolicy, error) {
	var p model.CommissionPolicy
	err := s.pool.QueryRow(ctx,
		`SELECT exclude_shipping, use_order_value FROM commission_policy WHERE id = 1`,
	).Scan(&p.ExcludeShipping, &p.UseOrderValue)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: get policy")
	}
	return &p, nil
}

func (s *Postgres) SavePolicy(ctx context.Context, policy *model.CommissionPolicy) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO commission_policy (id, exclude_shipping, use_order_value) VALUES (1, $1, $2)
		 ON CONFLICT (id) DO UPDATE SET exclude_shipping = EXCLUDED.exclude_shipping, use_order_value = EXCLUDED.use_order_value`,
		policy.ExcludeShipping, policy.UseOrderValue)
	return eris.Wrap(err, "postgres: save policy")
}

func (s *Postgres) ListCopperCompanies(ctx context.Context) ([]model.CopperCompany, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT copper_id, name, account_order_id, account_type_raw, active_raw, street, city, state, zip
		 FROM copper_companies`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list copper companies")
	}
	defer rows.Close()

	var companies []model.CopperCompany
	for rows.Next() {
		var c model.CopperCompany
		if err := rows.Scan(&c.CopperID, &c.Name, &c.AccountOrderID, &c.AccountTypeRaw,
			&c.ActiveRaw, &c.Street, &c.City, &c.State, &c.Zip); err != nil {
			return nil, eris.Wrap(err, "postgres: scan copper company")
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (s *Postgres) SaveCopperCompanies(ctx context.Context, companies []model.CopperCompany) (int64, error) {
	if len(companies) == 0 {
		return 0, nil
	}
	rows := make([][]any, 0, len(companies))
	for _, c := range companies {
		rows = append(rows, []any{c.CopperID, c.Name, c.AccountOrderID, c.AccountTypeRaw, c.ActiveRaw, c.Street, c.City, c.State, c.Zip})
	}
	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "copper_companies",
		Columns:      []string{"copper_id", "name", "account_order_id", "account_type_raw", "active_raw", "street", "city", "state", "zip"},
		ConflictKeys: []string{"copper_id"},
	}, rows)
}

func (s *Postgres) UpsertCommission(ctx context.Context, rec *model.CommissionRecord) error {
	_, err := s.pool.Exec(ctx, upsertCommissionSQL,
		rec.SalesPerson, rec.CommissionMonth, rec.OrderID, rec.CustomerID,
		string(rec.CustomerSegment), string(rec.CustomerStatus), rec.RatePct,
		rec.OrderAmount, rec.Amount, rec.PaidStatus, rec.CalculatedAt)
	return eris.Wrapf(err, "postgres: upsert commission for order %s", rec.OrderID)
}

func (s *Postgres) ListCommissionsByMonth(ctx context.Context, monthKey string) ([]model.CommissionRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT sales_person, commission_month, order_id, customer_id, customer_segment, customer_status, rate_pct, order_amount, amount, paid_status, calculated_at
		 FROM commission_records WHERE commission_month = $1 ORDER BY sales_person, order_id`, monthKey)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list commissions for %s", monthKey)
	}
	defer rows.Close()

	var records []model.CommissionRecord
	for rows.Next() {
		var r model.CommissionRecord
		var segment, status string
		if err := rows.Scan(&r.SalesPerson, &r.CommissionMonth, &r.OrderID, &r.CustomerID,
			&segment, &status, &r.RatePct, &r.OrderAmount, &r.Amount, &r.PaidStatus, &r.CalculatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan commission record")
		}
		r.CustomerSegment = model.AccountType(segment)
		r.CustomerStatus = model.CustomerStatus(status)
		records = append(records, r)
	}
	return records, rows.Err()
}

// SaveMonthlySummary writes a full overwrite of one rep's month.
func (s *Postgres) SaveMonthlySummary(ctx context.Context, sum *model.MonthlySummary) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO monthly_summaries (sales_person, commission_month, total_orders, total_revenue, total_commission, calculated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (sales_person, commission_month) DO UPDATE SET
			total_orders = EXCLUDED.total_orders,
			total_revenue = EXCLUDED.total_revenue,
			total_commission = EXCLUDED.total_commission,
			calculated_at = EXCLUDED.calculated_at`,
		sum.SalesPerson, sum.CommissionMonth, sum.TotalOrders, sum.TotalRevenue, sum.TotalCommission, sum.CalculatedAt)
	return eris.Wrapf(err, "postgres: save monthly summary for %s %s", sum.SalesPerson, sum.CommissionMonth)
}

func (s *Postgres) SaveProgress(ctx context.Context, p *model.ImportProgress) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return eris.Wrap(err, "postgres: encode progress")
	}
	_, err = s.pool.Exec(ctx, saveProgressSQL, p.ImportID, doc, p.UpdatedAt)
	return eris.Wrapf(err, "postgres: save progress %s", p.ImportID)
}

func (s *Postgres) GetProgress(ctx context.Context, importID string) (*model.ImportProgress, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM import_progress WHERE import_id = $1`, importID).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get progress %s", importID)
	}
	var p model.ImportProgress
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, eris.Wrapf(err, "postgres: decode progress %s", importID)
	}
	return &p, nil
}

func (s *Postgres) SaveBonusEntry(ctx context.Context, e *model.BonusEntry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO bonus_entries (sales_person, quarter, bucket, sub_goal, goal_value, actual_value, attainment, bucket_max, payout, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (sales_person, quarter, bucket, sub_goal) DO UPDATE SET
			goal_value = EXCLUDED.goal_value,
			actual_value = EXCLUDED.actual_value,
			attainment = EXCLUDED.attainment,
			bucket_max = EXCLUDED.bucket_max,
			payout = EXCLUDED.payout,
			updated_at = EXCLUDED.updated_at`,
		e.SalesPerson, e.Quarter, e.Bucket, e.SubGoal, e.GoalValue, e.ActualValue,
		e.Attainment, e.BucketMax, e.Payout, e.UpdatedAt)
	return eris.Wrapf(err, "postgres: save bonus entry %s/%s/%s", e.SalesPerson, e.Quarter, e.Bucket)
}

func (s *Postgres) ListBonusEntries(ctx context.Context, salesPerson, quarter string) ([]model.BonusEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT sales_person, quarter, bucket, sub_goal, goal_value, actual_value, attainment, bucket_max, payout, updated_at
		 FROM bonus_entries WHERE sales_person = $1 AND quarter = $2 ORDER BY bucket, sub_goal`,
		salesPerson, quarter)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list bonus entries for %s %s", salesPerson, quarter)
	}
	defer rows.Close()

	var entries []model.BonusEntry
	for rows.Next() {
		var e model.BonusEntry
		if err := rows.Scan(&e.SalesPerson, &e.Quarter, &e.Bucket, &e.SubGoal, &e.GoalValue,
			&e.ActualValue, &e.Attainment, &e.BucketMax, &e.Payout, &e.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan bonus entry")
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

var _ Store = (*Postgres)(nil)

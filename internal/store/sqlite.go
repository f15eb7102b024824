package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/ridgepoint/commission-cli/internal/db"
	"github.com/ridgepoint/commission-cli/internal/model"
)

// SQLite implements Store using modernc.org/sqlite, for local and dev use.
// Monetary columns are stored as TEXT to keep decimal exactness.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLite, error) {
	sdb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := sdb.Exec(pragma); err != nil {
			sdb.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLite{db: sdb}, nil
}

const sqliteMigration = `
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
	updated_at            DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS sales_orders (
	order_id          TEXT PRIMARY KEY,
	order_number      TEXT NOT NULL,
	customer_id       TEXT NOT NULL,
	sales_person_code TEXT NOT NULL DEFAULT '',
	posting_date      DATETIME,
	commission_month  TEXT NOT NULL DEFAULT '',
	commission_year   INTEGER NOT NULL DEFAULT 0,
	revenue           TEXT NOT NULL DEFAULT '0',
	order_value       TEXT NOT NULL DEFAULT '0',
	line_item_count   INTEGER NOT NULL DEFAULT 0,
	account_type      TEXT NOT NULL DEFAULT 'Retail',
	alt_channel       INTEGER NOT NULL DEFAULT 0,
	updated_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS line_items (
	line_item_id     TEXT PRIMARY KEY,
	order_id         TEXT NOT NULL,
	part_number      TEXT NOT NULL DEFAULT '',
	description      TEXT NOT NULL DEFAULT '',
	quantity         TEXT NOT NULL DEFAULT '0',
	unit_price       TEXT NOT NULL DEFAULT '0',
	revenue          TEXT NOT NULL DEFAULT '0',
	is_shipping_item INTEGER NOT NULL DEFAULT 0,
	is_cc_processing INTEGER NOT NULL DEFAULT 0,
	updated_at       DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS reps (
	code   TEXT PRIMARY KEY,
	name   TEXT NOT NULL DEFAULT '',
	title  TEXT NOT NULL DEFAULT '',
	active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS commission_rates (
	id  TEXT PRIMARY KEY,
	doc TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS commission_policy (
	id               INTEGER PRIMARY KEY,
	exclude_shipping INTEGER NOT NULL DEFAULT 1,
	use_order_value  INTEGER NOT NULL DEFAULT 1
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
	rate_pct         TEXT NOT NULL DEFAULT '0',
	order_amount     TEXT NOT NULL DEFAULT '0',
	amount           TEXT NOT NULL DEFAULT '0',
	paid_status      TEXT NOT NULL DEFAULT 'pending',
	calculated_at    DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (sales_person, commission_month, order_id)
);

CREATE TABLE IF NOT EXISTS monthly_summaries (
	sales_person     TEXT NOT NULL,
	commission_month TEXT NOT NULL,
	total_orders     INTEGER NOT NULL DEFAULT 0,
	total_revenue    TEXT NOT NULL DEFAULT '0',
	total_commission TEXT NOT NULL DEFAULT '0',
	calculated_at    DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (sales_person, commission_month)
);

CREATE TABLE IF NOT EXISTS import_progress (
	import_id  TEXT PRIMARY KEY,
	doc        TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS bonus_entries (
	sales_person TEXT NOT NULL,
	quarter      TEXT NOT NULL,
	bucket       TEXT NOT NULL,
	sub_goal     TEXT NOT NULL DEFAULT '',
	goal_value   TEXT NOT NULL DEFAULT '0',
	actual_value TEXT NOT NULL DEFAULT '0',
	attainment   TEXT NOT NULL DEFAULT '0',
	bucket_max   TEXT NOT NULL DEFAULT '0',
	payout       TEXT NOT NULL DEFAULT '0',
	updated_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (sales_person, quarter, bucket, sub_goal)
);

CREATE INDEX IF NOT EXISTS idx_sales_orders_customer_date ON sales_orders(customer_id, posting_date);
CREATE INDEX IF NOT EXISTS idx_sales_orders_month ON sales_orders(commission_month);
CREATE INDEX IF NOT EXISTS idx_line_items_order ON line_items(order_id);
CREATE INDEX IF NOT EXISTS idx_customers_account_number ON customers(account_number);
CREATE INDEX IF NOT EXISTS idx_commission_records_month ON commission_records(commission_month);
`

func (s *SQLite) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// sqliteBatch buffers statements and commits them in one transaction per
// bounded batch, mirroring the Postgres writer's best-effort semantics.
type sqliteBatch struct {
	db      *sql.DB
	ops     []sqliteOp
	flushed int
	failed  int
	log     *zap.Logger
}

type sqliteOp struct {
	sql  string
	args []any
}

func (s *SQLite) Batch() WriteBatch {
	return &sqliteBatch{
		db:  s.db,
		log: zap.L().With(zap.String("component", "store.sqlite_batch")),
	}
}

func (b *sqliteBatch) queue(ctx context.Context, sqlText string, args ...any) {
	if len(b.ops) >= db.MaxBatchOps {
		b.Flush(ctx)
	}
	b.ops = append(b.ops, sqliteOp{sql: sqlText, args: args})
}

func (b *sqliteBatch) UpsertCustomer(ctx context.Context, c *model.Customer) {
	b.queue(ctx, `INSERT INTO customers (customer_id, name, account_number, account_type, account_type_source, ship_street, ship_city, ship_state, ship_zip, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (customer_id) DO UPDATE SET
			name = excluded.name, account_number = excluded.account_number,
			account_type = excluded.account_type, account_type_source = excluded.account_type_source,
			ship_street = excluded.ship_street, ship_city = excluded.ship_city,
			ship_state = excluded.ship_state, ship_zip = excluded.ship_zip,
			updated_at = excluded.updated_at`,
		c.CustomerID, c.Name, c.AccountNumber, string(c.AccountType), string(c.AccountTypeSource),
		c.ShipStreet, c.ShipCity, c.ShipState, c.ShipZip, c.UpdatedAt)
}

func (b *sqliteBatch) UpsertOrder(ctx context.Context, o *model.SalesOrder) {
	b.queue(ctx, `INSERT INTO sales_orders (order_id, order_number, customer_id, sales_person_code, posting_date, commission_month, commission_year, revenue, order_value, line_item_count, account_type, alt_channel, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (order_id) DO UPDATE SET
			order_number = excluded.order_number, customer_id = excluded.customer_id,
			sales_person_code = excluded.sales_person_code, posting_date = excluded.posting_date,
			commission_month = excluded.commission_month, commission_year = excluded.commission_year,
			revenue = excluded.revenue, order_value = excluded.order_value,
			line_item_count = excluded.line_item_count, account_type = excluded.account_type,
			alt_channel = excluded.alt_channel, updated_at = excluded.updated_at`,
		o.OrderID, o.OrderNumber, o.CustomerID, o.SalesPersonCode, o.PostingDate,
		o.CommissionMonth, o.CommissionYear, o.Revenue.String(), o.OrderValue.String(),
		o.LineItemCount, string(o.AccountType), o.AltChannel, o.UpdatedAt)
}

func (b *sqliteBatch) UpsertLineItem(ctx context.Context, li *model.LineItem) {
	b.queue(ctx, `INSERT INTO line_items (line_item_id, order_id, part_number, description, quantity, unit_price, revenue, is_shipping_item, is_cc_processing, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (line_item_id) DO UPDATE SET
			order_id = excluded.order_id, part_number = excluded.part_number,
			description = excluded.description, quantity = excluded.quantity,
			unit_price = excluded.unit_price, revenue = excluded.revenue,
			is_shipping_item = excluded.is_shipping_item, is_cc_processing = excluded.is_cc_processing,
			updated_at = excluded.updated_at`,
		li.LineItemID, li.OrderID, li.PartNumber, li.Description, li.Quantity.String(),
		li.UnitPrice.String(), li.Revenue.String(), li.IsShippingItem, li.IsCCProcessing, li.UpdatedAt)
}

func (b *sqliteBatch) Flush(ctx context.Context) {
	if len(b.ops) == 0 {
		return
	}
	ops := b.ops
	b.ops = nil

	err := func() error {
		tx, err := b.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()
		for _, op := range ops {
			if _, err := tx.ExecContext(ctx, op.sql, op.args...); err != nil {
				return err
			}
		}
		return tx.Commit()
	}()
	if err != nil {
		b.failed++
		b.log.Error("batch commit failed, continuing with fresh batch",
			zap.Int("ops", len(ops)),
			zap.Error(err),
		)
		return
	}
	b.flushed++
}

func (b *sqliteBatch) Close(ctx context.Context) error {
	b.Flush(ctx)
	if b.failed > 0 {
		return eris.Errorf("sqlite: %d of %d batches failed to commit", b.failed, b.failed+b.flushed)
	}
	return nil
}

func (b *sqliteBatch) Flushed() int { return b.flushed }
func (b *sqliteBatch) Failed() int  { return b.failed }

func (s *SQLite) GetCustomer(ctx context.Context, customerID string) (*model.Customer, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT customer_id, name, account_number, account_type, account_type_source, account_type_override, copper_id, ship_street, ship_city, ship_state, ship_zip, updated_at
		 FROM customers WHERE customer_id = ?`, customerID)
	c, err := scanSQLiteCustomer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "sqlite: get customer %s", customerID)
	}
	return c, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteCustomer(row rowScanner) (*model.Customer, error) {
	var c model.Customer
	var accountType, source, override string
	if err := row.Scan(&c.CustomerID, &c.Name, &c.AccountNumber, &accountType, &source, &override,
		&c.CopperID, &c.ShipStreet, &c.ShipCity, &c.ShipState, &c.ShipZip, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.AccountType = model.AccountType(accountType)
	c.AccountTypeSource = model.AccountTypeSource(source)
	c.AccountTypeOverride = model.AccountType(override)
	return &c, nil
}

func (s *SQLite) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT customer_id, name, account_number, account_type, account_type_source, account_type_override, copper_id, ship_street, ship_city, ship_state, ship_zip, updated_at
		 FROM customers ORDER BY customer_id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list customers")
	}
	defer rows.Close()

	var customers []model.Customer
	for rows.Next() {
		c, err := scanSQLiteCustomer(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan customer")
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

func (s *SQLite) ApplyAccountTypes(ctx context.Context, updates []model.Customer) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin account-type tx")
	}
	defer tx.Rollback()

	var n int64
	for _, c := range updates {
		res, err := tx.ExecContext(ctx,
			`UPDATE customers SET account_type = ?, account_type_source = ?, copper_id = ? WHERE customer_id = ?`,
			string(c.AccountType), string(c.AccountTypeSource), c.CopperID, c.CustomerID)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: apply account type for %s", c.CustomerID)
		}
		affected, _ := res.RowsAffected()
		n += affected
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit account types")
	}
	return n, nil
}

const sqliteOrderColumns = `order_id, order_number, customer_id, sales_person_code, posting_date, commission_month, commission_year, revenue, order_value, line_item_count, account_type, alt_channel, updated_at`

func scanSQLiteOrder(row rowScanner) (*model.SalesOrder, error) {
	var o model.SalesOrder
	var accountType, revenue, orderValue string
	if err := row.Scan(&o.OrderID, &o.OrderNumber, &o.CustomerID, &o.SalesPersonCode,
		&o.PostingDate, &o.CommissionMonth, &o.CommissionYear, &revenue, &orderValue,
		&o.LineItemCount, &accountType, &o.AltChannel, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.AccountType = model.AccountType(accountType)
	o.Revenue = mustDecimal(revenue)
	o.OrderValue = mustDecimal(orderValue)
	return &o, nil
}

// mustDecimal converts a stored TEXT amount; malformed stored values scan
// as zero rather than failing a whole listing.
func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (s *SQLite) GetOrder(ctx context.Context, orderID string) (*model.SalesOrder, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteOrderColumns+` FROM sales_orders WHERE order_id = ?`, orderID)
	o, err := scanSQLiteOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "sqlite: get order %s", orderID)
	}
	return o, nil
}

func (s *SQLite) ListOrdersByMonth(ctx context.Context, monthKey, repCode string) ([]model.SalesOrder, error) {
	query := `SELECT ` + sqliteOrderColumns + ` FROM sales_orders WHERE commission_month = ?`
	args := []any{monthKey}
	if repCode != "" {
		query += ` AND sales_person_code = ?`
		args = append(args, repCode)
	}
	query += ` ORDER BY order_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list orders for %s", monthKey)
	}
	defer rows.Close()

	var orders []model.SalesOrder
	for rows.Next() {
		o, err := scanSQLiteOrder(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan order")
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (s *SQLite) LatestOrderBefore(ctx context.Context, customerID string, before time.Time) (*model.SalesOrder, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteOrderColumns+` FROM sales_orders
		 WHERE customer_id = ? AND posting_date IS NOT NULL AND posting_date < ?
		 ORDER BY posting_date DESC LIMIT 1`, customerID, before)
	o, err := scanSQLiteOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "sqlite: latest order before for %s", customerID)
	}
	return o, nil
}

func (s *SQLite) ListReps(ctx context.Context) ([]model.Rep, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code, name, title, active FROM reps ORDER BY code`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list reps")
	}
	defer rows.Close()

	var reps []model.Rep
	for rows.Next() {
		var r model.Rep
		if err := rows.Scan(&r.Code, &r.Name, &r.Title, &r.Active); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan rep")
		}
		reps = append(reps, r)
	}
	return reps, rows.Err()
}

func (s *SQLite) UpsertRep(ctx context.Context, rep *model.Rep) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reps (code, name, title, active) VALUES (?, ?, ?, ?)
		 ON CONFLICT (code) DO UPDATE SET name = excluded.name, title = excluded.title, active = excluded.active`,
		rep.Code, rep.Name, rep.Title, rep.Active)
	return eris.Wrapf(err, "sqlite: upsert rep %s", rep.Code)
}

func (s *SQLite) ListRateTables(ctx context.Context) (map[string]*model.CommissionRate, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, doc FROM commission_rates`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list rate tables")
	}
	defer rows.Close()

	tables := make(map[string]*model.CommissionRate)
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan rate table")
		}
		var rate model.CommissionRate
		if err := json.Unmarshal([]byte(doc), &rate); err != nil {
			return nil, eris.Wrapf(err, "sqlite: decode rate table %s", id)
		}
		tables[id] = &rate
	}
	return tables, rows.Err()
}

func (s *SQLite) SaveRateTable(ctx context.Context, id string, rate *model.CommissionRate) error {
	doc, err := json.Marshal(rate)
	if err != nil {
		return eris.Wrapf(err, "sqlite: encode rate table %s", id)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO commission_rates (id, doc) VALUES (?, ?)
		 ON CONFLICT (id) DO UPDATE SET doc = excluded.doc`, id, string(doc))
	return eris.Wrapf(err, "sqlite: save rate table %s", id)
}

func (s *SQLite) GetPolicy(ctx context.Context) (*model.CommissionPolicy, error) {
	var p model.CommissionPolicy
	err := s.db.QueryRowContext(ctx,
		`SELECT exclude_shipping, use_order_value FROM commission_policy WHERE id = 1`,
	).Scan(&p.ExcludeShipping, &p.UseOrderValue)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "sqlite: get policy")
	}
	return &p, nil
}

func (s *SQLite) SavePolicy(ctx context.Context, policy *model.CommissionPolicy) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO commission_policy (id, exclude_shipping, use_order_value) VALUES (1, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET exclude_shipping = excluded.exclude_shipping, use_order_value = excluded.use_order_value`,
		policy.ExcludeShipping, policy.UseOrderValue)
	return eris.Wrap(err, "sqlite: save policy")
}

func (s *SQLite) ListCopperCompanies(ctx context.Context) ([]model.CopperCompany, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT copper_id, name, account_order_id, account_type_raw, active_raw, street, city, state, zip FROM copper_companies`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list copper companies")
	}
	defer rows.Close()

	var companies []model.CopperCompany
	for rows.Next() {
		var c model.CopperCompany
		if err := rows.Scan(&c.CopperID, &c.Name, &c.AccountOrderID, &c.AccountTypeRaw,
			&c.ActiveRaw, &c.Street, &c.City, &c.State, &c.Zip); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan copper company")
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (s *SQLite) SaveCopperCompanies(ctx context.Context, companies []model.CopperCompany) (int64, error) {
	if len(companies) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin copper tx")
	}
	defer tx.Rollback()

	for _, c := range companies {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO copper_companies (copper_id, name, account_order_id, account_type_raw, active_raw, street, city, state, zip)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (copper_id) DO UPDATE SET
				name = excluded.name, account_order_id = excluded.account_order_id,
				account_type_raw = excluded.account_type_raw, active_raw = excluded.active_raw,
				street = excluded.street, city = excluded.city, state = excluded.state, zip = excluded.zip`,
			c.CopperID, c.Name, c.AccountOrderID, c.AccountTypeRaw, c.ActiveRaw,
			c.Street, c.City, c.State, c.Zip); err != nil {
			return 0, eris.Wrapf(err, "sqlite: save copper company %s", c.CopperID)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit copper companies")
	}
	return int64(len(companies)), nil
}

func (s *SQLite) UpsertCommission(ctx context.Context, rec *model.CommissionRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO commission_records (sales_person, commission_month, order_id, customer_id, customer_segment, customer_status, rate_pct, order_amount, amount, paid_status, calculated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (sales_person, commission_month, order_id) DO UPDATE SET
			customer_id = excluded.customer_id, customer_segment = excluded.customer_segment,
			customer_status = excluded.customer_status, rate_pct = excluded.rate_pct,
			order_amount = excluded.order_amount, amount = excluded.amount,
			calculated_at = excluded.calculated_at`,
		rec.SalesPerson, rec.CommissionMonth, rec.OrderID, rec.CustomerID,
		string(rec.CustomerSegment), string(rec.CustomerStatus), rec.RatePct.String(),
		rec.OrderAmount.String(), rec.Amount.String(), rec.PaidStatus, rec.CalculatedAt)
	return eris.Wrapf(err, "sqlite: upsert commission for order %s", rec.OrderID)
}

func (s *SQLite) ListCommissionsByMonth(ctx context.Context, monthKey string) ([]model.CommissionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sales_person, commission_month, order_id, customer_id, customer_segment, customer_status, rate_pct, order_amount, amount, paid_status, calculated_at
		 FROM commission_records WHERE commission_month = ? ORDER BY sales_person, order_id`, monthKey)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list commissions for %s", monthKey)
	}
	defer rows.Close()

	var records []model.CommissionRecord
	for rows.Next() {
		var r model.CommissionRecord
		var segment, status, ratePct, orderAmount, amount string
		if err := rows.Scan(&r.SalesPerson, &r.CommissionMonth, &r.OrderID, &r.CustomerID,
			&segment, &status, &ratePct, &orderAmount, &amount, &r.PaidStatus, &r.CalculatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan commission record")
		}
		r.CustomerSegment = model.AccountType(segment)
		r.CustomerStatus = model.CustomerStatus(status)
		r.RatePct = mustDecimal(ratePct)
		r.OrderAmount = mustDecimal(orderAmount)
		r.Amount = mustDecimal(amount)
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLite) SaveMonthlySummary(ctx context.Context, sum *model.MonthlySummary) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO monthly_summaries (sales_person, commission_month, total_orders, total_revenue, total_commission, calculated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (sales_person, commission_month) DO UPDATE SET
			total_orders = excluded.total_orders, total_revenue = excluded.total_revenue,
			total_commission = excluded.total_commission, calculated_at = excluded.calculated_at`,
		sum.SalesPerson, sum.CommissionMonth, sum.TotalOrders,
		sum.TotalRevenue.String(), sum.TotalCommission.String(), sum.CalculatedAt)
	return eris.Wrapf(err, "sqlite: save monthly summary for %s %s", sum.SalesPerson, sum.CommissionMonth)
}

func (s *SQLite) SaveProgress(ctx context.Context, p *model.ImportProgress) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return eris.Wrap(err, "sqlite: encode progress")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO import_progress (import_id, doc, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (import_id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		p.ImportID, string(doc), p.UpdatedAt)
	return eris.Wrapf(err, "sqlite: save progress %s", p.ImportID)
}

func (s *SQLite) GetProgress(ctx context.Context, importID string) (*model.ImportProgress, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM import_progress WHERE import_id = ?`, importID).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "sqlite: get progress %s", importID)
	}
	var p model.ImportProgress
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, eris.Wrapf(err, "sqlite: decode progress %s", importID)
	}
	return &p, nil
}

func (s *SQLite) SaveBonusEntry(ctx context.Context, e *model.BonusEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bonus_entries (sales_person, quarter, bucket, sub_goal, goal_value, actual_value, attainment, bucket_max, payout, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (sales_person, quarter, bucket, sub_goal) DO UPDATE SET
			goal_value = excluded.goal_value, actual_value = excluded.actual_value,
			attainment = excluded.attainment, bucket_max = excluded.bucket_max,
			payout = excluded.payout, updated_at = excluded.updated_at`,
		e.SalesPerson, e.Quarter, e.Bucket, e.SubGoal, e.GoalValue.String(), e.ActualValue.String(),
		e.Attainment.String(), e.BucketMax.String(), e.Payout.String(), e.UpdatedAt)
	return eris.Wrapf(err, "sqlite: save bonus entry %s/%s/%s", e.SalesPerson, e.Quarter, e.Bucket)
}

func (s *SQLite) ListBonusEntries(ctx context.Context, salesPerson, quarter string) ([]model.BonusEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sales_person, quarter, bucket, sub_goal, goal_value, actual_value, attainment, bucket_max, payout, updated_at
		 FROM bonus_entries WHERE sales_person = ? AND quarter = ? ORDER BY bucket, sub_goal`,
		salesPerson, quarter)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list bonus entries for %s %s", salesPerson, quarter)
	}
	defer rows.Close()

	var entries []model.BonusEntry
	for rows.Next() {
		var e model.BonusEntry
		var goal, actual, attainment, bucketMax, payout string
		if err := rows.Scan(&e.SalesPerson, &e.Quarter, &e.Bucket, &e.SubGoal, &goal,
			&actual, &attainment, &bucketMax, &payout, &e.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan bonus entry")
		}
		e.GoalValue = mustDecimal(goal)
		e.ActualValue = mustDecimal(actual)
		e.Attainment = mustDecimal(attainment)
		e.BucketMax = mustDecimal(bucketMax)
		e.Payout = mustDecimal(payout)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

var _ Store = (*SQLite)(nil)

// Package snapstore persists analysis snapshots to SQLite, MySQL or PostgreSQL.
package snapstore

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/churnlab/churnscope/internal/contract"
	"github.com/churnlab/churnscope/schema"
)

// Table names for snapshot storage.
const (
	summaryTable  = "analysis_summary"
	customerTable = "analyzed_customers"
)

// SnapshotStoreImpl implements the SnapshotStore interface.
type SnapshotStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.SnapshotStore = &SnapshotStoreImpl{} // Compile-time check

// NewSnapshotStore creates a new SnapshotStore with the specified backend.
func NewSnapshotStore(backend schema.DatabaseBackend, connStr string) (contract.SnapshotStore, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetSnapshotDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=... password=... dbname=...", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled persistence
		return &SnapshotStoreImpl{
			db:         nil,
			backend:    backend,
			driverName: "",
		}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database server is running and accessible."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	// Create the table schemas
	if err := createSnapshotTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create snapshot tables: %w", err)
	}

	return &SnapshotStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// newStoreWithDB wraps an existing connection, for tests.
func newStoreWithDB(db *sql.DB, backend schema.DatabaseBackend) *SnapshotStoreImpl {
	return &SnapshotStoreImpl{db: db, backend: backend}
}

// createSnapshotTables creates the snapshot storage tables.
func createSnapshotTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{summaryTable, getCreateSummaryQuery(backend)},
		{customerTable, getCreateCustomersQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreateSummaryQuery returns the CREATE TABLE query for analysis_summary.
func getCreateSummaryQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(summaryTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				owner VARCHAR(100),
				analysis_date DATETIME(6) NOT NULL,
				total_customers INT NOT NULL,
				high_risk_count INT NOT NULL,
				medium_risk_count INT NOT NULL,
				low_risk_count INT NOT NULL,
				avg_churn_probability DOUBLE NOT NULL,
				avg_customer_value DOUBLE NOT NULL,
				avg_purchases DOUBLE NOT NULL,
				revenue_at_risk DOUBLE NOT NULL,
				predicted_future_value DOUBLE NOT NULL,
				retention_rate DOUBLE NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				owner TEXT,
				analysis_date TIMESTAMPTZ NOT NULL,
				total_customers INT NOT NULL,
				high_risk_count INT NOT NULL,
				medium_risk_count INT NOT NULL,
				low_risk_count INT NOT NULL,
				avg_churn_probability DOUBLE PRECISION NOT NULL,
				avg_customer_value DOUBLE PRECISION NOT NULL,
				avg_purchases DOUBLE PRECISION NOT NULL,
				revenue_at_risk DOUBLE PRECISION NOT NULL,
				predicted_future_value DOUBLE PRECISION NOT NULL,
				retention_rate DOUBLE PRECISION NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				owner TEXT,
				analysis_date TEXT NOT NULL,
				total_customers INTEGER NOT NULL,
				high_risk_count INTEGER NOT NULL,
				medium_risk_count INTEGER NOT NULL,
				low_risk_count INTEGER NOT NULL,
				avg_churn_probability REAL NOT NULL,
				avg_customer_value REAL NOT NULL,
				avg_purchases REAL NOT NULL,
				revenue_at_risk REAL NOT NULL,
				predicted_future_value REAL NOT NULL,
				retention_rate REAL NOT NULL
			);
		`, quotedTableName)
	}
}

// getCreateCustomersQuery returns the CREATE TABLE query for analyzed_customers.
func getCreateCustomersQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(customerTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGINT NOT NULL,
				customer_name VARCHAR(255) NOT NULL,
				purchases INT NOT NULL,
				total_value DOUBLE NOT NULL,
				visits INT NOT NULL,
				churn_probability_rf DOUBLE NOT NULL,
				churn_probability_xgb DOUBLE NOT NULL,
				churn_probability_best DOUBLE NOT NULL,
				segment VARCHAR(50) NOT NULL,
				advanced_segment VARCHAR(50) NOT NULL,
				predicted_future_value DOUBLE NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGINT NOT NULL,
				customer_name TEXT NOT NULL,
				purchases INT NOT NULL,
				total_value DOUBLE PRECISION NOT NULL,
				visits INT NOT NULL,
				churn_probability_rf DOUBLE PRECISION NOT NULL,
				churn_probability_xgb DOUBLE PRECISION NOT NULL,
				churn_probability_best DOUBLE PRECISION NOT NULL,
				segment TEXT NOT NULL,
				advanced_segment TEXT NOT NULL,
				predicted_future_value DOUBLE PRECISION NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id INTEGER NOT NULL,
				customer_name TEXT NOT NULL,
				purchases INTEGER NOT NULL,
				total_value REAL NOT NULL,
				visits INTEGER NOT NULL,
				churn_probability_rf REAL NOT NULL,
				churn_probability_xgb REAL NOT NULL,
				churn_probability_best REAL NOT NULL,
				segment TEXT NOT NULL,
				advanced_segment TEXT NOT NULL,
				predicted_future_value REAL NOT NULL
			);
		`, quotedTableName)
	}
}

// Save persists one snapshot with its customer detail rows in a single
// transaction and returns the assigned snapshot ID.
func (ss *SnapshotStoreImpl) Save(snap schema.AnalysisSnapshot) (int64, error) {
	// Skip for NoneBackend
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return 0, nil
	}

	tx, err := ss.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	id, err := ss.insertSummary(tx, snap)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}

	if err := ss.insertCustomers(tx, id, snap.Customers); err != nil {
		_ = tx.Rollback()
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return id, nil
}

func (ss *SnapshotStoreImpl) insertSummary(tx *sql.Tx, snap schema.AnalysisSnapshot) (int64, error) {
	quotedTableName := quoteTableName(summaryTable, ss.backend)
	columns := `owner, analysis_date, total_customers, high_risk_count, medium_risk_count,
		low_risk_count, avg_churn_probability, avg_customer_value, avg_purchases,
		revenue_at_risk, predicted_future_value, retention_rate`
	args := []any{
		snap.Owner, formatTime(snap.CreatedAt, ss.backend), snap.TotalCustomers,
		snap.HighRiskCount, snap.MediumRiskCount, snap.LowRiskCount,
		snap.AvgChurnProbability, snap.AvgCustomerValue, snap.AvgPurchases,
		snap.RevenueAtRisk, snap.PredictedFutureValue, snap.RetentionRate,
	}

	var id int64
	switch ss.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`, quotedTableName, columns)
		if err := tx.QueryRow(query, args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to insert snapshot summary: %w", err)
		}
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, quotedTableName, columns)
		result, err := tx.Exec(query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert snapshot summary: %w", err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to get snapshot ID: %w", err)
		}
	}

	return id, nil
}

func (ss *SnapshotStoreImpl) insertCustomers(tx *sql.Tx, id int64, customers []schema.CustomerRecord) error {
	quotedTableName := quoteTableName(customerTable, ss.backend)
	columns := `analysis_id, customer_name, purchases, total_value, visits,
		churn_probability_rf, churn_probability_xgb, churn_probability_best,
		segment, advanced_segment, predicted_future_value`

	var query string
	switch ss.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`, quotedTableName, columns)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, quotedTableName, columns)
	}

	for _, c := range customers {
		_, err := tx.Exec(query,
			id, c.Name, c.Purchases, c.TotalValue, c.Visits,
			c.ChurnProbabilityRF, c.ChurnProbabilityXGB, c.ChurnProbabilityBest,
			string(c.Segment), string(c.AdvancedSegment), c.PredictedFutureValue,
		)
		if err != nil {
			return fmt.Errorf("failed to insert customer row for %q: %w", c.Name, err)
		}
	}

	return nil
}

// List returns recent snapshot summaries without customer details, newest
// first. A non-empty owner restricts the listing to that owner's snapshots.
func (ss *SnapshotStoreImpl) List(owner string, limit int) ([]schema.AnalysisSnapshot, error) {
	// Skip for NoneBackend
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(summaryTable, ss.backend)
	var query string
	var args []any
	switch {
	case ss.backend == schema.PostgreSQLBackend && owner != "":
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE owner = $1 ORDER BY analysis_date DESC, id DESC LIMIT $2`, summaryColumns, quotedTableName)
		args = []any{owner, limit}
	case ss.backend == schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT %s FROM %s ORDER BY analysis_date DESC, id DESC LIMIT $1`, summaryColumns, quotedTableName)
		args = []any{limit}
	case owner != "": // SQLite and MySQL
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE owner = ? ORDER BY analysis_date DESC, id DESC LIMIT ?`, summaryColumns, quotedTableName)
		args = []any{owner, limit}
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT %s FROM %s ORDER BY analysis_date DESC, id DESC LIMIT ?`, summaryColumns, quotedTableName)
		args = []any{limit}
	}

	rows, err := ss.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AnalysisSnapshot
	for rows.Next() {
		snap, err := ss.scanSummary(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return results, nil
}

// summaryColumns is the fixed column order for summary queries and scans.
const summaryColumns = `id, owner, analysis_date, total_customers, high_risk_count,
	medium_risk_count, low_risk_count, avg_churn_probability, avg_customer_value,
	avg_purchases, revenue_at_risk, predicted_future_value, retention_rate`

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (ss *SnapshotStoreImpl) scanSummary(row rowScanner) (schema.AnalysisSnapshot, error) {
	var snap schema.AnalysisSnapshot
	var owner sql.NullString

	switch ss.backend {
	case schema.SQLiteBackend:
		var dateStr string
		if err := row.Scan(&snap.ID, &owner, &dateStr, &snap.TotalCustomers,
			&snap.HighRiskCount, &snap.MediumRiskCount, &snap.LowRiskCount,
			&snap.AvgChurnProbability, &snap.AvgCustomerValue, &snap.AvgPurchases,
			&snap.RevenueAtRisk, &snap.PredictedFutureValue, &snap.RetentionRate); err != nil {
			return snap, fmt.Errorf("failed to scan snapshot summary: %w", err)
		}
		date, err := time.Parse(time.RFC3339Nano, dateStr)
		if err != nil {
			return snap, fmt.Errorf("failed to parse analysis_date: %w", err)
		}
		snap.CreatedAt = date
	default: // MySQL and PostgreSQL store as native datetime
		if err := row.Scan(&snap.ID, &owner, &snap.CreatedAt, &snap.TotalCustomers,
			&snap.HighRiskCount, &snap.MediumRiskCount, &snap.LowRiskCount,
			&snap.AvgChurnProbability, &snap.AvgCustomerValue, &snap.AvgPurchases,
			&snap.RevenueAtRisk, &snap.PredictedFutureValue, &snap.RetentionRate); err != nil {
			return snap, fmt.Errorf("failed to scan snapshot summary: %w", err)
		}
	}

	snap.Owner = owner.String
	return snap, nil
}

// Get returns one snapshot with its customer detail rows, ordered by best
// churn probability descending.
func (ss *SnapshotStoreImpl) Get(id int64) (schema.AnalysisSnapshot, error) {
	// Skip for NoneBackend
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return schema.AnalysisSnapshot{}, fmt.Errorf("snapshot storage is disabled")
	}

	quotedTableName := quoteTableName(summaryTable, ss.backend)
	var query string
	switch ss.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, summaryColumns, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, summaryColumns, quotedTableName)
	}

	snap, err := ss.scanSummary(ss.db.QueryRow(query, id))
	if err != nil {
		return schema.AnalysisSnapshot{}, fmt.Errorf("failed to get snapshot %d: %w", id, err)
	}

	customers, err := ss.getCustomers(id)
	if err != nil {
		return schema.AnalysisSnapshot{}, err
	}
	snap.Customers = customers

	return snap, nil
}

func (ss *SnapshotStoreImpl) getCustomers(id int64) ([]schema.CustomerRecord, error) {
	quotedTableName := quoteTableName(customerTable, ss.backend)
	columns := `customer_name, purchases, total_value, visits, churn_probability_rf,
		churn_probability_xgb, churn_probability_best, segment, advanced_segment,
		predicted_future_value`

	var query string
	switch ss.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE analysis_id = $1 ORDER BY churn_probability_best DESC`, columns, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT %s FROM %s WHERE analysis_id = ? ORDER BY churn_probability_best DESC`, columns, quotedTableName)
	}

	rows, err := ss.db.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers for snapshot %d: %w", id, err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.CustomerRecord
	for rows.Next() {
		var c schema.CustomerRecord
		var segment, advanced string
		if err := rows.Scan(&c.Name, &c.Purchases, &c.TotalValue, &c.Visits,
			&c.ChurnProbabilityRF, &c.ChurnProbabilityXGB, &c.ChurnProbabilityBest,
			&segment, &advanced, &c.PredictedFutureValue); err != nil {
			return nil, fmt.Errorf("failed to scan customer row: %w", err)
		}
		c.Segment = schema.Segment(segment)
		c.AdvancedSegment = schema.AdvancedSegment(advanced)
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer rows: %w", err)
	}

	return results, nil
}

// Prune deletes all but the keep most recent snapshots, including their
// customer detail rows, in one transaction. Returns the number removed.
// A non-empty owner prunes only that owner's snapshots, so one owner's
// cleanup never touches another owner's history.
func (ss *SnapshotStoreImpl) Prune(owner string, keep int) (int64, error) {
	// Skip for NoneBackend
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return 0, nil
	}
	if keep < 1 {
		return 0, fmt.Errorf("keep must be at least 1 (received %d)", keep)
	}

	quotedTableName := quoteTableName(summaryTable, ss.backend)
	var query string
	var args []any
	switch {
	case ss.backend == schema.PostgreSQLBackend && owner != "":
		query = fmt.Sprintf(`SELECT id FROM %s WHERE owner = $1 ORDER BY analysis_date DESC, id DESC OFFSET $2`, quotedTableName)
		args = []any{owner, keep}
	case ss.backend == schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT id FROM %s ORDER BY analysis_date DESC, id DESC OFFSET $1`, quotedTableName)
		args = []any{keep}
	case ss.backend == schema.MySQLBackend && owner != "":
		// MySQL requires a LIMIT before OFFSET; use the documented large-limit idiom.
		query = fmt.Sprintf(`SELECT id FROM %s WHERE owner = ? ORDER BY analysis_date DESC, id DESC LIMIT 18446744073709551615 OFFSET ?`, quotedTableName)
		args = []any{owner, keep}
	case ss.backend == schema.MySQLBackend:
		query = fmt.Sprintf(`SELECT id FROM %s ORDER BY analysis_date DESC, id DESC LIMIT 18446744073709551615 OFFSET ?`, quotedTableName)
		args = []any{keep}
	case owner != "": // SQLite
		query = fmt.Sprintf(`SELECT id FROM %s WHERE owner = ? ORDER BY analysis_date DESC, id DESC LIMIT -1 OFFSET ?`, quotedTableName)
		args = []any{owner, keep}
	default: // SQLite
		query = fmt.Sprintf(`SELECT id FROM %s ORDER BY analysis_date DESC, id DESC LIMIT -1 OFFSET ?`, quotedTableName)
		args = []any{keep}
	}

	rows, err := ss.db.Query(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to find prunable snapshots: %w", err)
	}

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return 0, fmt.Errorf("failed to scan snapshot ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return 0, fmt.Errorf("error iterating snapshot IDs: %w", err)
	}
	_ = rows.Close()

	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := ss.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, id := range ids {
		if err := ss.deleteSnapshot(tx, id); err != nil {
			_ = tx.Rollback()
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit prune: %w", err)
	}

	return int64(len(ids)), nil
}

func (ss *SnapshotStoreImpl) deleteSnapshot(tx *sql.Tx, id int64) error {
	var customerQuery, summaryQuery string
	switch ss.backend {
	case schema.PostgreSQLBackend:
		customerQuery = fmt.Sprintf(`DELETE FROM %s WHERE analysis_id = $1`, quoteTableName(customerTable, ss.backend))
		summaryQuery = fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, quoteTableName(summaryTable, ss.backend))
	default: // SQLite and MySQL
		customerQuery = fmt.Sprintf(`DELETE FROM %s WHERE analysis_id = ?`, quoteTableName(customerTable, ss.backend))
		summaryQuery = fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, quoteTableName(summaryTable, ss.backend))
	}

	// Detail rows first so a failure never leaves orphans pointing at a
	// missing summary.
	if _, err := tx.Exec(customerQuery, id); err != nil {
		return fmt.Errorf("failed to delete customer rows for snapshot %d: %w", id, err)
	}
	if _, err := tx.Exec(summaryQuery, id); err != nil {
		return fmt.Errorf("failed to delete snapshot %d: %w", id, err)
	}
	return nil
}

// Clear deletes every snapshot and detail row.
func (ss *SnapshotStoreImpl) Clear() error {
	// Skip for NoneBackend
	if ss.backend == schema.NoneBackend || ss.db == nil {
		return nil
	}

	for _, table := range []string{customerTable, summaryTable} {
		query := fmt.Sprintf(`DELETE FROM %s`, quoteTableName(table, ss.backend))
		if _, err := ss.db.Exec(query); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}

// GetStatus returns status information about the snapshot store.
func (ss *SnapshotStoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(ss.backend),
		Connected:  ss.db != nil,
		TableSizes: make(map[string]int64),
	}

	if ss.backend == schema.NoneBackend || ss.db == nil {
		return status, nil
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(summaryTable, ss.backend))
	if err := ss.db.QueryRow(countQuery).Scan(&status.TotalSnapshots); err != nil {
		return status, fmt.Errorf("failed to get total snapshots: %w", err)
	}

	if status.TotalSnapshots > 0 {
		lastQuery := fmt.Sprintf("SELECT id, analysis_date FROM %s ORDER BY id DESC LIMIT 1", quoteTableName(summaryTable, ss.backend))
		id, ts, err := ss.scanIDAndTime(ss.db.QueryRow(lastQuery))
		if err != nil {
			return status, fmt.Errorf("failed to get last snapshot info: %w", err)
		}
		status.LastSnapshotID = id
		status.LastSnapshotTime = ts

		oldestQuery := fmt.Sprintf("SELECT id, analysis_date FROM %s ORDER BY id ASC LIMIT 1", quoteTableName(summaryTable, ss.backend))
		_, ts, err = ss.scanIDAndTime(ss.db.QueryRow(oldestQuery))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest snapshot info: %w", err)
		}
		status.OldestSnapshotTime = ts
	}

	// Get table sizes
	for _, table := range []string{summaryTable, customerTable} {
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, ss.backend))
		var count int64
		if err := ss.db.QueryRow(query).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

func (ss *SnapshotStoreImpl) scanIDAndTime(row *sql.Row) (int64, time.Time, error) {
	var id int64
	switch ss.backend {
	case schema.SQLiteBackend:
		var tsStr string
		if err := row.Scan(&id, &tsStr); err != nil {
			return 0, time.Time{}, err
		}
		ts, err := time.Parse(time.RFC3339Nano, tsStr)
		if err != nil {
			return 0, time.Time{}, fmt.Errorf("failed to parse analysis_date: %w", err)
		}
		return id, ts, nil
	default: // MySQL and PostgreSQL store as native datetime
		var ts time.Time
		if err := row.Scan(&id, &ts); err != nil {
			return 0, time.Time{}, err
		}
		return id, ts, nil
	}
}

// Close closes the underlying connection.
func (ss *SnapshotStoreImpl) Close() error {
	if ss.db != nil {
		return ss.db.Close()
	}
	return nil
}

// quoteTableName quotes an identifier for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("%q", name)
	}
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}

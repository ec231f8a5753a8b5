package engine

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"time"
	"unicode/utf8"

	"news-etl/internal/dialect"
	"news-etl/internal/schema"
)

// DB is the part of *sql.DB the engine uses.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Method selects a load strategy.
type Method string

const (
	MethodInsert    Method = "insert"
	MethodUpsert    Method = "upsert"
	MethodOverwrite Method = "overwrite"
)

// ParseMethod accepts insert, upsert or overwrite in any case.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case MethodInsert, MethodUpsert, MethodOverwrite:
		return m, nil
	}
	return "", fmt.Errorf("unknown load method %q (want insert, upsert or overwrite)", s)
}

// Result describes one completed load call.
type Result struct {
	Table     string
	Method    Method
	Attempted int // records passed in
	Written   int // rows written after in-batch key collapse
	Duration  time.Duration
}

// Report converts the result into a summary line for the CLI.
func (r *Result) Report() schema.LoadResult {
	return schema.LoadResult{
		TableName: r.Table,
		Method:    string(r.Method),
		Target:    r.Written,
		Actual:    r.Written,
		Status:    "OK",
	}
}

// Engine applies load strategies to tables on one connection pool.
// It is not safe for concurrent use.
type Engine struct {
	db DB
	d  dialect.Dialect

	// OnProgress is called once per row written, after commit.
	OnProgress func()
	// Verbose logs every statement the engine issues.
	Verbose bool

	defs        map[string]*schema.Table // validated definitions by table name
	provisioned map[string]bool
}

func New(db DB, d dialect.Dialect) *Engine {
	return &Engine{
		db:          db,
		d:           d,
		defs:        make(map[string]*schema.Table),
		provisioned: make(map[string]bool),
	}
}

// Dialect returns the dialect the engine generates SQL for.
func (e *Engine) Dialect() dialect.Dialect { return e.d }

func (e *Engine) logf(format string, args ...any) {
	if e.Verbose {
		log.Printf("[SQL] "+format, args...)
	}
}

func (e *Engine) progress(n int) {
	if e.OnProgress == nil {
		return
	}
	for i := 0; i < n; i++ {
		e.OnProgress()
	}
}

// register validates a definition once per engine.
func (e *Engine) register(op string, def *schema.Table, rows int) error {
	if def == nil {
		return newError(op, "", rows, ErrSchema, schema.Validate(nil))
	}
	if known, ok := e.defs[def.Name]; ok && known == def {
		return nil
	}
	if err := schema.Validate(def); err != nil {
		return newError(op, def.Name, rows, ErrSchema, err)
	}
	e.defs[def.Name] = def
	return nil
}

// Define validates def and remembers it, so SelectAll on its table returns
// declared columns in key order. No statement is issued.
func (e *Engine) Define(def *schema.Table) error {
	return e.register("define", def, 0)
}

func (e *Engine) tableExists(ctx context.Context, table string) (bool, error) {
	var n int
	q := e.d.TableExistsQuery()
	e.logf("%s [%s]", q, table)
	if err := e.db.QueryRowContext(ctx, q, table).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateTableIfAbsent creates the physical table for def unless one with the
// same name already exists. Calling it again is a no-op.
func (e *Engine) CreateTableIfAbsent(ctx context.Context, def *schema.Table) error {
	if err := e.register("create", def, 0); err != nil {
		return err
	}
	if e.provisioned[def.Name] {
		return nil
	}

	exists, err := e.tableExists(ctx, def.Name)
	if err != nil {
		return newError("create", def.Name, 0, e.classify(err, ErrSchema), fmt.Errorf("failed to check table: %w", err))
	}
	if !exists {
		cols := make([]dialect.ColumnDef, len(def.Columns))
		for i, c := range def.Columns {
			cols[i] = dialect.ColumnDef{Name: c.Name, Type: e.d.ColumnType(string(c.Kind))}
		}
		q := e.d.CreateTableQuery(def.Name, cols, def.PrimaryKey())
		e.logf("%s", q)
		if _, err := e.db.ExecContext(ctx, q); err != nil {
			return newError("create", def.Name, 0, e.classify(err, ErrSchema), err)
		}
		log.Printf("Created table %s", def.Name)
	}
	e.provisioned[def.Name] = true
	return nil
}

func (e *Engine) validateBatch(op string, def *schema.Table, batch schema.Batch, requireKey bool) error {
	limit := 0
	if kl, ok := e.d.(dialect.KeyLimiter); ok {
		limit = kl.MaxKeyLength()
	}
	for i, rec := range batch {
		if err := schema.ValidateRecord(def, rec, requireKey); err != nil {
			return newError(op, def.Name, len(batch), ErrValidation, fmt.Errorf("record %d: %w", i, err))
		}
		if limit > 0 {
			if err := checkKeyLength(def, rec, limit); err != nil {
				return newError(op, def.Name, len(batch), ErrValidation, fmt.Errorf("record %d: %w", i, err))
			}
		}
	}
	return nil
}

// checkKeyLength rejects string key values the key column cannot hold.
func checkKeyLength(def *schema.Table, rec schema.Record, limit int) error {
	for _, c := range def.Columns {
		if !c.IsPK || c.Kind != schema.KindString {
			continue
		}
		v, _ := schema.Lookup(rec, c.Name)
		if s, ok := v.(string); ok {
			if n := utf8.RuneCountInString(s); n > limit {
				return fmt.Errorf("%w: key %s is %d characters, the column holds %d", schema.ErrInvalidRecord, c.Name, n, limit)
			}
		}
	}
	return nil
}

// Insert appends every record in batch order. The call is all or nothing:
// a key collision rolls back every row of the batch.
func (e *Engine) Insert(ctx context.Context, batch schema.Batch, def *schema.Table) (int, error) {
	const op = "insert"
	if err := e.register(op, def, len(batch)); err != nil {
		return 0, err
	}
	if err := e.validateBatch(op, def, batch, false); err != nil {
		return 0, err
	}
	if len(batch) == 0 {
		return 0, nil
	}
	if err := e.CreateTableIfAbsent(ctx, def); err != nil {
		return 0, err
	}

	cols := def.ColumnNames()
	return e.inTx(ctx, op, def, len(batch), len(batch), func(tx *sql.Tx) error {
		return e.execEach(ctx, tx, e.d.InsertQuery(def.Name, cols), cols, batch)
	})
}

// Upsert inserts each record, updating the non-key columns of rows whose
// primary key already exists. Records sharing a key within the batch
// collapse to the last one.
func (e *Engine) Upsert(ctx context.Context, batch schema.Batch, def *schema.Table) (int, error) {
	const op = "upsert"
	if err := e.register(op, def, len(batch)); err != nil {
		return 0, err
	}
	keys := def.PrimaryKey()
	if len(keys) == 0 {
		return 0, newError(op, def.Name, len(batch), ErrValidation,
			fmt.Errorf("table %s declares no primary key", def.Name))
	}
	if err := e.validateBatch(op, def, batch, true); err != nil {
		return 0, err
	}
	if len(batch) == 0 {
		return 0, nil
	}
	if err := e.CreateTableIfAbsent(ctx, def); err != nil {
		return 0, err
	}

	rows := schema.Dedupe(batch, keys)
	if len(rows) < len(batch) {
		log.Printf("%s: collapsed %d duplicate keys in batch", def.Name, len(batch)-len(rows))
	}
	cols := def.ColumnNames()
	return e.inTx(ctx, op, def, len(batch), len(rows), func(tx *sql.Tx) error {
		return e.execEach(ctx, tx, e.d.UpsertQuery(def.Name, cols, keys), cols, rows)
	})
}

// Overwrite replaces the table contents with batch. The delete and the
// inserts share one transaction, so a failure leaves the old rows in place.
func (e *Engine) Overwrite(ctx context.Context, batch schema.Batch, def *schema.Table) (int, error) {
	const op = "overwrite"
	if err := e.register(op, def, len(batch)); err != nil {
		return 0, err
	}
	if err := e.validateBatch(op, def, batch, false); err != nil {
		return 0, err
	}
	if err := e.CreateTableIfAbsent(ctx, def); err != nil {
		return 0, err
	}

	cols := def.ColumnNames()
	return e.inTx(ctx, op, def, len(batch), len(batch), func(tx *sql.Tx) error {
		del := e.d.DeleteAllQuery(def.Name)
		e.logf("%s", del)
		if _, err := tx.ExecContext(ctx, del); err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		return e.execEach(ctx, tx, e.d.InsertQuery(def.Name, cols), cols, batch)
	})
}

// Load dispatches to Insert, Upsert or Overwrite. An unknown method fails
// before any statement is issued.
func (e *Engine) Load(ctx context.Context, batch schema.Batch, def *schema.Table, method string) (*Result, error) {
	m, err := ParseMethod(method)
	if err != nil {
		name := ""
		if def != nil {
			name = def.Name
		}
		return nil, newError("load", name, len(batch), ErrValidation, err)
	}

	start := time.Now()
	var written int
	switch m {
	case MethodInsert:
		written, err = e.Insert(ctx, batch, def)
	case MethodUpsert:
		written, err = e.Upsert(ctx, batch, def)
	case MethodOverwrite:
		written, err = e.Overwrite(ctx, batch, def)
	}
	if err != nil {
		return nil, err
	}
	return &Result{
		Table:     def.Name,
		Method:    m,
		Attempted: len(batch),
		Written:   written,
		Duration:  time.Since(start),
	}, nil
}

// inTx runs fn in a transaction and commits it. Any error rolls back.
// rows is the number of records attempted, written the number fn writes.
func (e *Engine) inTx(ctx context.Context, op string, def *schema.Table, rows, written int, fn func(tx *sql.Tx) error) (int, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, newError(op, def.Name, rows, e.classify(err, ErrConnection), fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return 0, newError(op, def.Name, rows, e.classify(err, ErrSchema), err)
	}
	if err := tx.Commit(); err != nil {
		return 0, newError(op, def.Name, rows, e.classify(err, ErrSchema), fmt.Errorf("failed to commit: %w", err))
	}

	e.progress(written)
	return written, nil
}

func (e *Engine) execEach(ctx context.Context, tx *sql.Tx, query string, cols []string, batch schema.Batch) error {
	e.logf("%s (x%d)", query, len(batch))
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare: %w", err)
	}
	defer stmt.Close()

	for i, rec := range batch {
		if _, err := stmt.ExecContext(ctx, schema.Values(rec, cols)...); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

// classify maps a driver error onto an error kind. fallback is used when
// the error is neither a key collision nor a lost connection.
func (e *Engine) classify(err error, fallback error) error {
	if e.d.IsUniqueViolation(err) {
		return ErrConstraintViolation
	}
	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.As(err, &netErr) {
		return ErrConnection
	}
	return fallback
}

// SelectAll returns every row of table. Rows are ordered by primary key when
// the engine has seen the table's definition.
func (e *Engine) SelectAll(ctx context.Context, table string) (schema.Batch, error) {
	const op = "select"
	if !schema.IsIdentifier(table) {
		return nil, newError(op, table, 0, ErrValidation, fmt.Errorf("bad table name %q", table))
	}

	var cols, orderBy []string
	if def, ok := e.defs[table]; ok {
		cols = def.ColumnNames()
		orderBy = def.PrimaryKey()
	}
	q := e.d.SelectAllQuery(table, cols, orderBy)
	e.logf("%s", q)

	rows, err := e.db.QueryContext(ctx, q)
	if err != nil {
		return nil, newError(op, table, 0, e.classify(err, ErrSchema), err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, newError(op, table, 0, ErrSchema, err)
	}
	for i := range names {
		names[i] = strings.ToLower(names[i])
	}

	var out schema.Batch
	for rows.Next() {
		values := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, newError(op, table, len(out), ErrSchema, fmt.Errorf("failed to scan row: %w", err))
		}
		rec := make(schema.Record, len(names))
		for i, n := range names {
			if b, ok := values[i].([]byte); ok {
				rec[n] = string(b)
			} else {
				rec[n] = values[i]
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, newError(op, table, len(out), e.classify(err, ErrSchema), err)
	}
	return out, nil
}

// DropTable removes table and its data. Dropping a missing table is a no-op.
func (e *Engine) DropTable(ctx context.Context, table string) error {
	const op = "drop"
	if !schema.IsIdentifier(table) {
		return newError(op, table, 0, ErrValidation, fmt.Errorf("bad table name %q", table))
	}
	exists, err := e.tableExists(ctx, table)
	if err != nil {
		return newError(op, table, 0, e.classify(err, ErrSchema), fmt.Errorf("failed to check table: %w", err))
	}
	if exists {
		q := e.d.DropTableQuery(table)
		e.logf("%s", q)
		if _, err := e.db.ExecContext(ctx, q); err != nil {
			return newError(op, table, 0, e.classify(err, ErrSchema), err)
		}
		log.Printf("Dropped table %s", table)
	}
	delete(e.provisioned, table)
	return nil
}

// Count returns the number of rows in table.
func (e *Engine) Count(ctx context.Context, table string) (int, error) {
	const op = "count"
	if !schema.IsIdentifier(table) {
		return 0, newError(op, table, 0, ErrValidation, fmt.Errorf("bad table name %q", table))
	}
	var n int
	q := e.d.CountQuery(table)
	e.logf("%s", q)
	if err := e.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, newError(op, table, 0, e.classify(err, ErrSchema), err)
	}
	return n, nil
}

// Verify re-counts each loaded table and flags tables whose contents do not
// account for the rows written.
func (e *Engine) Verify(ctx context.Context, results []schema.LoadResult) []schema.LoadResult {
	var verified []schema.LoadResult
	for _, res := range results {
		current, err := e.Count(ctx, res.TableName)

		status := "VERIFIED_OK"
		switch {
		case err != nil:
			status = fmt.Sprintf("VERIFY_FAIL: %v", err)
		case res.Method == string(MethodOverwrite) && current != res.Target:
			status = fmt.Sprintf("MISMATCH: %d/%d", current, res.Target)
		case current < res.Target:
			status = fmt.Sprintf("PARTIAL: %d/%d", current, res.Target)
		}

		verified = append(verified, schema.LoadResult{
			TableName: res.TableName,
			Method:    res.Method,
			Target:    res.Target,
			Actual:    current,
			Status:    status,
			ErrorMsg:  res.ErrorMsg,
		})
	}
	return verified
}

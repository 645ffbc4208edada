package stdlib

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"rossa/internal/extern"
	"rossa/internal/intern"
	"rossa/internal/rnumber"
	"rossa/internal/token"
	"rossa/internal/trace"
	"rossa/internal/value"
)

// connPool keeps open *sql.DB handles by a script-chosen id, the same
// connection-by-id shape as the teacher's database.DBManager, adapted to
// Rossa's value system instead of a VM-specific Array/Map pair.
type connPool struct {
	mu    sync.RWMutex
	conns map[string]*sql.DB
}

var pool = &connPool{conns: make(map[string]*sql.DB)}

func driverFor(kind string) (string, error) {
	switch kind {
	case "sqlite", "sqlite3":
		return "sqlite", nil
	case "postgres", "postgresql":
		return "postgres", nil
	case "mysql":
		return "mysql", nil
	case "sqlserver", "mssql":
		return "sqlserver", nil
	default:
		return "", fmt.Errorf("db_connect: unsupported database type %q", kind)
	}
}

// RegisterDatabase binds the `db` library: db_connect, db_query, db_exec,
// db_close, backed by database/sql plus the five blank-imported drivers
// above (spec.md DOMAIN STACK table).
func RegisterDatabase(reg *extern.Registry) {
	reg.Register("db", "connect", dbConnect)
	reg.Register("db", "query", dbQuery)
	reg.Register("db", "exec", dbExec)
	reg.Register("db", "close", dbClose)
}

func dbConnect(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	id, err := argString(args, 0, "db_connect")
	if err != nil {
		return value.Nil, err
	}
	kind, err := argString(args, 1, "db_connect")
	if err != nil {
		return value.Nil, err
	}
	dsn, err := argString(args, 2, "db_connect")
	if err != nil {
		return value.Nil, err
	}
	driver, err := driverFor(kind)
	if err != nil {
		return value.Nil, err
	}

	pool.mu.Lock()
	defer pool.mu.Unlock()
	if _, exists := pool.conns[id]; exists {
		return value.Nil, fmt.Errorf("db_connect: connection %q already open", id)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return value.Nil, fmt.Errorf("db_connect: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.Ping(); err != nil {
		db.Close()
		return value.Nil, fmt.Errorf("db_connect: ping failed: %w", err)
	}
	pool.conns[id] = db
	return value.Bool(true), nil
}

func getConn(id string) (*sql.DB, error) {
	pool.mu.RLock()
	defer pool.mu.RUnlock()
	db, ok := pool.conns[id]
	if !ok {
		return nil, fmt.Errorf("no open connection %q", id)
	}
	return db, nil
}

// dbQuery runs a row-returning query, packing each row into a Dictionary
// keyed by column name and the rows into an Array (spec.md §3.2's
// Array/Dictionary are the only aggregate shapes a script sees).
func dbQuery(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	id, err := argString(args, 0, "db_query")
	if err != nil {
		return value.Nil, err
	}
	query, err := argString(args, 1, "db_query")
	if err != nil {
		return value.Nil, err
	}
	db, err := getConn(id)
	if err != nil {
		return value.Nil, fmt.Errorf("db_query: %w", err)
	}
	qargs := make([]interface{}, 0, len(args)-2)
	for _, a := range args[2:] {
		qargs = append(qargs, rossaToDriver(a))
	}
	rows, err := db.Query(query, qargs...)
	if err != nil {
		return value.Nil, fmt.Errorf("db_query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return value.Nil, err
	}
	var results []value.Value
	scan := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range scan {
		ptrs[i] = &scan[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return value.Nil, fmt.Errorf("db_query: %w", err)
		}
		entries := make(map[string]value.Value, len(cols))
		for i, col := range cols {
			entries[col] = driverToRossa(scan[i])
		}
		results = append(results, value.NewDict(entries))
	}
	return value.NewArray(results), rows.Err()
}

// dbExec runs a non-row-returning statement, returning the affected row
// count as a Number.
func dbExec(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	id, err := argString(args, 0, "db_exec")
	if err != nil {
		return value.Nil, err
	}
	query, err := argString(args, 1, "db_exec")
	if err != nil {
		return value.Nil, err
	}
	db, err := getConn(id)
	if err != nil {
		return value.Nil, fmt.Errorf("db_exec: %w", err)
	}
	qargs := make([]interface{}, 0, len(args)-2)
	for _, a := range args[2:] {
		qargs = append(qargs, rossaToDriver(a))
	}
	res, err := db.Exec(query, qargs...)
	if err != nil {
		return value.Nil, fmt.Errorf("db_exec: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return value.Nil, err
	}
	return value.Num(rnumber.Int(affected)), nil
}

func dbClose(args []value.Value, at token.Token, in *intern.Table, tr *trace.Stack) (value.Value, error) {
	id, err := argString(args, 0, "db_close")
	if err != nil {
		return value.Nil, err
	}
	pool.mu.Lock()
	defer pool.mu.Unlock()
	db, ok := pool.conns[id]
	if !ok {
		return value.Bool(false), nil
	}
	delete(pool.conns, id)
	return value.Bool(true), db.Close()
}

func rossaToDriver(v value.Value) interface{} {
	switch v.Kind {
	case value.KindString:
		return v.Str()
	case value.KindNumber:
		n := v.Number()
		if n.IsInt() {
			return n.Int64()
		}
		return n.Float64()
	case value.KindBoolean:
		return v.Bool()
	case value.KindNil:
		return nil
	default:
		return v.ToString(nil)
	}
}

func driverToRossa(v interface{}) value.Value {
	switch x := v.(type) {
	case nil:
		return value.Nil
	case []byte:
		return value.Str(string(x))
	case string:
		return value.Str(x)
	case int64:
		return value.Num(rnumber.Int(x))
	case float64:
		return value.Num(rnumber.Float(x))
	case bool:
		return value.Bool(x)
	case time.Time:
		return value.Str(x.Format(time.RFC3339))
	default:
		return value.Str(fmt.Sprintf("%v", x))
	}
}

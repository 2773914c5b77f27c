package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/haguru/wakenbake/config"
	"github.com/haguru/wakenbake/internal/interfaces"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver for database/sql
)

const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database.
	DefaultMaxOpenConns = 10
	// DefaultMaxIdleConns is the default maximum number of idle connections to the database.
	DefaultMaxIdleConns = 5
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused.
	DefaultConnMaxLifetime = 30 * time.Second
)

// PostgresDatabaseClient implements the DBClient interface for PostgreSQL databases.
type PostgresDatabaseClient struct {
	db              *sql.DB
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	validTables     map[string]bool // A map to validate table names
	validFields     map[string]bool // A map to validate field names
}

// NewPostgresDatabaseClient builds a client from config. Connection limits
// fall back to defaults when unset.
func NewPostgresDatabaseClient(dbConfig *config.PostgresConfig) interfaces.DBClient {
	maxOpen := dbConfig.Options.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = DefaultMaxOpenConns
	}
	maxIdle := dbConfig.Options.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = DefaultMaxIdleConns
	}
	lifetime := dbConfig.Options.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = DefaultConnMaxLifetime
	}

	return &PostgresDatabaseClient{
		MaxOpenConns:    maxOpen,
		MaxIdleConns:    maxIdle,
		ConnMaxLifetime: lifetime,
		validTables:     config.ListToMap(dbConfig.ValidTables),
		validFields:     config.ListToMap(dbConfig.ValidFields),
	}
}

// Connect establishes a connection to a PostgreSQL database.
func (p *PostgresDatabaseClient) Connect(ctx context.Context, dsn string) error {
	var err error
	p.db, err = sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to open PostgreSQL database: %w", err)
	}

	p.db.SetMaxOpenConns(p.MaxOpenConns)
	p.db.SetMaxIdleConns(p.MaxIdleConns)
	p.db.SetConnMaxLifetime(p.ConnMaxLifetime)

	return p.Ping(ctx)
}

// Disconnect closes the PostgreSQL database connection.
func (p *PostgresDatabaseClient) Disconnect(ctx context.Context) error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// InsertOne inserts a single document into a PostgreSQL table.
// 'document' is expected to be a map[string]interface{}.
// It dynamically builds the INSERT query.
func (p *PostgresDatabaseClient) InsertOne(ctx context.Context, tableName string, document interfaces.Document) (interface{}, error) {
	if !p.validTables[tableName] {
		return nil, fmt.Errorf("invalid table name: %s", tableName)
	}

	docMap, ok := document.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("PostgreSQL InsertOne expects document to be map[string]interface{}")
	}

	// Generate UUID for 'id' if not present in the document
	if _, exists := docMap["id"]; !exists {
		docMap["id"] = uuid.New().String()
	}

	columns := make([]string, 0, len(docMap))
	placeholders := make([]string, 0, len(docMap))
	values := make([]interface{}, 0, len(docMap))

	i := 1
	for col, val := range docMap {
		if col != "id" && !p.validFields[col] {
			return nil, fmt.Errorf("invalid field name: %s", col)
		}
		columns = append(columns, col)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i))
		values = append(values, val)
		i++
	}

	// Safe use of fmt.Sprintf for SQL construction: table and column names are
	// validated against the configured allow-lists above, not user input.
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		tableName,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	) // #nosec G201

	var insertedID interface{} // Can be string (UUID), int, etc.
	err := p.db.QueryRowContext(ctx, query, values...).Scan(&insertedID)
	if err != nil {
		return nil, err
	}
	return insertedID, nil
}

// FindOne retrieves a single document from a PostgreSQL table.
// 'filter' is expected to be a map[string]interface{} for the WHERE clause.
// 'result' is a pointer to a struct that the data will be scanned into;
// column names come from the struct's `db` tags.
func (p *PostgresDatabaseClient) FindOne(ctx context.Context, tableName string, filter interfaces.Document, result interfaces.Document) error {
	if !p.validTables[tableName] {
		return fmt.Errorf("invalid table name: %s", tableName)
	}

	filterMap, ok := filter.(map[string]interface{})
	if !ok {
		return fmt.Errorf("PostgreSQL FindOne expects filter to be map[string]interface{}")
	}
	if len(filterMap) == 0 {
		return fmt.Errorf("PostgreSQL FindOne requires a non-empty filter")
	}

	whereString, whereValues, err := p.buildWhere(filterMap, 1)
	if err != nil {
		return err
	}

	// Use reflection to get columns from the 'result' struct for SELECT and Scan
	resultValue := reflect.ValueOf(result)
	if resultValue.Kind() != reflect.Ptr || resultValue.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("result must be a pointer to a struct")
	}
	elem := resultValue.Elem()
	numFields := elem.NumField()

	columns := make([]string, 0, numFields)
	fieldPointers := make([]interface{}, 0, numFields) // Pointers to fields in the struct for Scan()

	for i := 0; i < numFields; i++ {
		field := elem.Type().Field(i)
		col := field.Tag.Get("db")
		if col == "" || col == "-" {
			continue
		}
		columns = append(columns, col)
		fieldPointers = append(fieldPointers, elem.Field(i).Addr().Interface())
	}

	// Safe use of fmt.Sprintf for SQL construction: table name is validated
	// and columns come from struct tags, not user input.
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s LIMIT 1",
		strings.Join(columns, ", "),
		tableName,
		whereString,
	) // #nosec G201

	row := p.db.QueryRowContext(ctx, query, whereValues...)
	err = row.Scan(fieldPointers...)
	if err == sql.ErrNoRows {
		// Reset the struct if no rows found, so it doesn't contain partial data
		elem.Set(reflect.New(elem.Type()).Elem())
		return nil // Return nil error as per DBClient interface if no document is found
	}
	return err
}

// FindMany retrieves multiple documents from a PostgreSQL table as
// map[string]interface{} rows. FindOptions adds ORDER BY and LIMIT; the sort
// field is checked against the configured field allow-list.
func (p *PostgresDatabaseClient) FindMany(ctx context.Context, tableName string, filter interfaces.Document, opts *interfaces.FindOptions) ([]interfaces.Document, error) {
	if !p.validTables[tableName] {
		return nil, fmt.Errorf("invalid table name: %s", tableName)
	}

	filterMap, ok := filter.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("PostgreSQL FindMany expects filter to be map[string]interface{}")
	}

	whereString := ""
	var whereValues []interface{}
	if len(filterMap) > 0 {
		clause, values, err := p.buildWhere(filterMap, 1)
		if err != nil {
			return nil, err
		}
		whereString = " WHERE " + clause
		whereValues = values
	}

	orderString := ""
	if opts != nil && opts.SortField != "" {
		if !p.validFields[opts.SortField] {
			return nil, fmt.Errorf("invalid sort field: %s", opts.SortField)
		}
		direction := "ASC"
		if opts.SortDesc {
			direction = "DESC"
		}
		orderString = fmt.Sprintf(" ORDER BY %s %s", opts.SortField, direction)
	}
	limitString := ""
	if opts != nil && opts.Limit > 0 {
		limitString = fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	// Safe use of fmt.Sprintf for SQL construction: table, sort field and
	// filter columns are validated against the configured allow-lists.
	query := fmt.Sprintf("SELECT * FROM %s%s%s%s", tableName, whereString, orderString, limitString) // #nosec G201

	rows, err := p.db.QueryContext(ctx, query, whereValues...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("failed to close rows: %v", cerr)
		}
	}()

	var results []interfaces.Document
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	for rows.Next() {
		columnPointers := make([]interface{}, len(columns))
		columnValues := make([]interface{}, len(columns))
		for i := range columns {
			columnPointers[i] = &columnValues[i]
		}

		if err := rows.Scan(columnPointers...); err != nil {
			return nil, err
		}

		rowMap := make(map[string]interface{})
		for i, colName := range columns {
			val := columnValues[i]
			if b, ok := val.([]byte); ok { // Handle byte slices for string-like types
				rowMap[colName] = string(b)
			} else {
				rowMap[colName] = val
			}
		}
		results = append(results, rowMap)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Ping checks the health of the PostgreSQL connection.
func (p *PostgresDatabaseClient) Ping(ctx context.Context) error {
	if p.db == nil {
		return fmt.Errorf("PostgresDatabaseClient is not connected to a database")
	}
	return p.db.PingContext(ctx)
}

// EnsureSchema executes an idempotent DDL statement (CREATE TABLE IF NOT
// EXISTS plus indices) for the given table. The schema argument must be the
// statement string; repositories own their DDL.
func (p *PostgresDatabaseClient) EnsureSchema(ctx context.Context, tableName string, schema interfaces.Document) error {
	if p.db == nil {
		return fmt.Errorf("PostgresDatabaseClient is not connected to a database")
	}
	if !p.validTables[tableName] {
		return fmt.Errorf("invalid table name: %s", tableName)
	}

	if schema == nil {
		return fmt.Errorf("EnsureSchema expects schema to be a DDL statement string")
	}
	createStmt, ok := schema.(string)
	if !ok {
		return fmt.Errorf("EnsureSchema expects schema to be a DDL statement string")
	}
	_, err := p.db.ExecContext(ctx, createStmt)
	return err
}

// buildWhere turns a filter map into a parameterized WHERE clause starting
// at the given placeholder index, validating every column name.
func (p *PostgresDatabaseClient) buildWhere(filterMap map[string]interface{}, firstParam int) (string, []interface{}, error) {
	whereClauses := make([]string, 0, len(filterMap))
	whereValues := make([]interface{}, 0, len(filterMap))
	paramCount := firstParam
	for col, val := range filterMap {
		if col != "id" && !p.validFields[col] {
			return "", nil, fmt.Errorf("invalid field name: %s", col)
		}
		whereClauses = append(whereClauses, fmt.Sprintf("%s = $%d", col, paramCount))
		whereValues = append(whereValues, val)
		paramCount++
	}
	return strings.Join(whereClauses, " AND "), whereValues, nil
}

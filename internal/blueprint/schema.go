package blueprint

// PostgresSchema is the DDL for the blueprint table on PostgreSQL.
const PostgresSchema = `CREATE TABLE IF NOT EXISTS blueprint (
    author TEXT NOT NULL,
    name   TEXT NOT NULL,
    points JSONB NOT NULL,
    PRIMARY KEY (author, name)
);`

// SQLiteSchema is the DDL for the blueprint table on SQLite.
const SQLiteSchema = `CREATE TABLE IF NOT EXISTS blueprint (
    author TEXT NOT NULL,
    name   TEXT NOT NULL,
    points JSON NOT NULL,
    PRIMARY KEY (author, name)
);`

// allColumns is the ordered list of columns scanned from the blueprint table.
const allColumns = `author, name, points`

package db

import (
	"bytes"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"text/template"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

//go:embed schema/*.sql
var embedFiles embed.FS

// MigrateData is exposed to the schema templates.
type MigrateData struct {
	Driver string
}

// Migrate runs the embedded schema migrations for driver.
func Migrate(db *sql.DB, driver string) error {
	d, err := iofs.New(&templateFS{
		data: MigrateData{Driver: driver},
		FS:   embedFiles,
	}, "schema")
	if err != nil {
		return err
	}

	target, err := withInstance(db, driver)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", d, driver, target)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

func withInstance(db *sql.DB, driver string) (database.Driver, error) {
	switch driver {
	case DriverMySQL:
		return mysql.WithInstance(db, &mysql.Config{})
	case DriverPostgres:
		return postgres.WithInstance(db, &postgres.Config{})
	case DriverSQLite:
		return sqlite.WithInstance(db, &sqlite.Config{})
	}

	return nil, fmt.Errorf("unsupported db driver %q", driver)
}

type templateFile struct {
	io.ReadCloser
	info *fileInfoWithSize
}

func (t *templateFile) Stat() (fs.FileInfo, error) {
	return t.info, nil
}

// templateFS renders every schema file as a text/template before migrate
// reads it, so one file can carry dialect branches.
type templateFS struct {
	data any
	embed.FS
}

func (t *templateFS) Open(name string) (fs.File, error) {
	file, err := t.FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return t.FS.Open(name)
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, t.data); err != nil {
		return nil, err
	}

	return &templateFile{
		ReadCloser: io.NopCloser(bytes.NewReader(buf.Bytes())),
		info:       &fileInfoWithSize{info, int64(buf.Len())},
	}, nil
}

type fileInfoWithSize struct {
	fs.FileInfo
	size int64
}

func (f *fileInfoWithSize) Size() int64 {
	return f.size
}

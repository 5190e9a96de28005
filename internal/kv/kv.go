// Package kv is the embedded ordered key-value layer that backs every entity store.
package kv

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("kv: key not found")

// Store is a single named, durable, ordered keyspace.
// Get/Put/Delete are atomic per key; there are no multi-key transactions.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Iterate visits every entry in ascending key order. value is only valid
	// for the duration of the callback.
	Iterate(ctx context.Context, fn func(key string, value []byte) error) error
	Close() error
}

const (
	DriverLevelDB  = "leveldb"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Options struct {
	Driver string
	// DataDir holds one leveldb directory per store.
	DataDir string
	// DSN is the sqlite file or postgres url for the sql drivers.
	DSN string
}

// Opener hands out named stores for one driver. The sql drivers share a
// single connection pool which is released by Close.
type Opener struct {
	opts Options
	db   *gorm.DB
}

func NewOpener(ctx context.Context, opts Options) (*Opener, error) {
	o := &Opener{opts: opts}
	switch opts.Driver {
	case "", DriverLevelDB:
		if opts.DataDir == "" {
			return nil, errors.New("kv: empty data dir")
		}
	case DriverSQLite, DriverPostgres:
		db, err := OpenGorm(ctx, opts.Driver, opts.DSN)
		if err != nil {
			return nil, err
		}
		o.db = db
	default:
		return nil, fmt.Errorf("kv: unknown driver %q", opts.Driver)
	}
	return o, nil
}

// Open opens the store called name.
func (o *Opener) Open(name string) (Store, error) {
	if o.db != nil {
		return NewGormStore(o.db, name, false)
	}
	return OpenLevelDB(filepath.Join(o.opts.DataDir, name))
}

func (o *Opener) Close() error {
	if o.db == nil {
		return nil
	}
	sqlDB, err := o.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

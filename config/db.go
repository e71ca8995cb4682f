package config

import (
	"fmt"

	dbm "github.com/tendermint/tm-db"

	tmos "github.com/iotaledger/iota-trust/libs/os"
)

// DBContext names a database and the KV server configuration it is opened
// with.
type DBContext struct {
	ID     string
	Config *KVServerConfig
}

// DBProvider opens the database described by a DBContext.
type DBProvider func(*DBContext) (dbm.DB, error)

// DefaultDBProvider opens the database with the backend and in the directory
// of the KV server config. The memdb backend touches no directory.
func DefaultDBProvider(ctx *DBContext) (dbm.DB, error) {
	backend := dbm.BackendType(ctx.Config.DBBackend)
	if backend == dbm.MemDBBackend {
		return dbm.NewMemDB(), nil
	}

	dir := ctx.Config.DBDir()
	if err := tmos.EnsureDir(dir, defaultDirPerm); err != nil {
		return nil, err
	}
	db, err := dbm.NewDB(ctx.ID, backend, dir)
	if err != nil {
		return nil, fmt.Errorf("opening %s database %q in %s: %w", backend, ctx.ID, dir, err)
	}
	return db, nil
}

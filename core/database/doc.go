// Package database handles connections for the optional run journal.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly
// configure either a local SQLite file or a MySQL server based on the
// application's configuration. SQLite is the default since a single data file
// next to the profile store is the common deployment; MySQL serves setups
// that already run one for other tooling.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("journal database unavailable", zap.Error(err))
//	}
//
// The journal is strictly optional: a failed connection degrades to
// journaling being disabled, never to a startup failure.
package database

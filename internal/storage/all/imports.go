// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) runs the init functions of each backend, which register their
// factories and DDL bootstrappers with the storage package. The kinds made
// available are "postgres", "mssql", "mysql", and "sqlite".
//
// If a binary should support only a subset of backends, import those
// packages directly instead.
package all

import (
	_ "efwetl/internal/storage/mssql"
	_ "efwetl/internal/storage/mysql"
	_ "efwetl/internal/storage/postgres"
	_ "efwetl/internal/storage/sqlite"
)

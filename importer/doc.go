// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package importer loads voter rosters from CSV files exported by the
// registrar. The importer only ever adds voters; re-running it with an
// overlapping file skips the duplicates and reports them.
package importer

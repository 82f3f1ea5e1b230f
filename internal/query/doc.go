// Package query holds the tag predicate tree used to filter wallet searches
// and compiles it into SQL for the storage backends.
//
// A predicate is built either directly from the operator types ([Eq], [And],
// [Not], ...) or parsed from a WQL JSON document with [Parse]. Storage
// backends consume the compiled form through the [Translator] interface.
package query

package query

//go:generate mockgen -source=interfaces.go -destination=../mock/query_translator_mock.go -package=mock

// Translator compiles a predicate tree into backend query text and bound
// arguments. Results are always restricted to walletID; a nil typ matches
// items of every type.
type Translator interface {
	// Translate builds the record query. Selected columns, in order:
	// id, name, value, key, type.
	Translate(walletID string, typ []byte, op Operator) (string, []any, error)

	// TranslateCount builds a query returning a single COUNT(*) row for the
	// same predicate.
	TranslateCount(walletID string, typ []byte, op Operator) (string, []any, error)
}

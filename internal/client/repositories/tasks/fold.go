package tasks

import (
	"database/sql/driver"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"modernc.org/sqlite"
)

// foldFunc is the SQL name of foldText. It is registered for every SQLite
// connection opened by this process.
const foldFunc = "sp_fold"

func init() {
	if err := sqlite.RegisterDeterministicScalarFunction(foldFunc, 1, foldSQL); err != nil {
		panic(err)
	}
}

// foldText lowercases s with Unicode case folding and strips diacritics,
// so "ÉCONOMIE" and "economie" compare equal.
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), cases.Fold(), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func foldSQL(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return foldText(v), nil
	case []byte:
		return foldText(string(v)), nil
	default:
		return v, nil
	}
}

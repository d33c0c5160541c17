package supplier

import (
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

// pool of fresh transformer chains; a chain is not safe for concurrent use
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			runes.Remove(runes.In(unicode.Cf)), // BOM, zero-width joiners
			width.Fold,                         // fullwidth digits and signs to ASCII
		)
	},
}

// normalizeToken folds fullwidth forms to ASCII and strips format characters,
// so fullwidth "12" and a BOM-prefixed "12" both read as "12". Other
// lookalikes (superscripts, circled digits) are left alone and fail to parse.
// ok is false when tok is not valid UTF-8
func normalizeToken(tok string) (out string, ok bool) {
	if isASCII(tok) {
		return tok, true
	}
	if !utf8.ValidString(tok) {
		return tok, false
	}
	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, tok)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		return tok, false
	}
	return out, true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// Package consty generates conversions between Go enumerations and the
// constants associated with their variants.
//
// Annotate an integer type and its constants:
//
//	// @consty(into, tryFrom, display)
//	// @constType(rune)
//	type Punctuation int
//
//	const (
//		Plus  Punctuation = iota // @constVal('+')
//		Minus                    // @constVal('-')
//	)
//
// Running consty in the package writes consty_gen.go with
// Punctuation.Const, PunctuationFromConst and Punctuation.String.
// Use @repr(T) instead of @constType to map each variant to its own
// value converted to T.
package consty

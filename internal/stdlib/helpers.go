package stdlib

import (
	"fmt"

	"rossa/internal/value"
)

// argString requires args[i] to be a String, the shape every extern
// callback in this package expects its string parameters in (the
// registry hands callbacks the raw packed argument array, unchecked —
// spec.md §6.2: "the extension is responsible for argument validation").
func argString(args []value.Value, i int, fn string) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("%s: expected at least %d argument(s), got %d", fn, i+1, len(args))
	}
	if args[i].Kind != value.KindString {
		return "", fmt.Errorf("%s: argument %d must be a String", fn, i+1)
	}
	return args[i].Str(), nil
}

func argNumber(args []value.Value, i int, fn string) (float64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("%s: expected at least %d argument(s), got %d", fn, i+1, len(args))
	}
	if args[i].Kind != value.KindNumber {
		return 0, fmt.Errorf("%s: argument %d must be a Number", fn, i+1)
	}
	return args[i].Number().Float64(), nil
}

// argDict returns args[i]'s entries, defaulting to an empty map when the
// argument is absent (dictionary arguments in this package are always
// optional trailing ones: headers, options).
func argDict(args []value.Value, i int) map[string]value.Value {
	if i >= len(args) || args[i].Kind != value.KindDictionary {
		return nil
	}
	return args[i].Entries()
}

func dictToStringMap(d map[string]value.Value) map[string]string {
	out := make(map[string]string, len(d))
	for k, v := range d {
		if v.Kind == value.KindString {
			out[k] = v.Str()
		} else {
			out[k] = v.ToString(nil)
		}
	}
	return out
}

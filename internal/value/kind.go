package value

// Kind tags a Value's runtime variant (spec.md §3.2). Builtin kinds use
// small negative codes; a positive Kind is an interned class-name hash
// (the "augmented type" of an Object, per the GLOSSARY).
type Kind int

const (
	KindNil Kind = -(iota + 1)
	KindNumber
	KindBoolean
	KindString
	KindArray
	KindDictionary
	KindFunction
	KindObject
	KindType
	KindPointer
	KindAny
)

var kindNames = map[Kind]string{
	KindNil:        "Nil",
	KindNumber:     "Number",
	KindBoolean:    "Boolean",
	KindString:     "String",
	KindArray:      "Array",
	KindDictionary: "Dictionary",
	KindFunction:   "Function",
	KindObject:     "Object",
	KindType:       "Type",
	KindPointer:    "Pointer",
	KindAny:        "Any",
}

// String renders a builtin kind's keyword name. Positive (class) kinds
// are rendered by Value.TypeName, which has access to the intern table.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "<class>"
}

// IsBuiltin reports whether k is one of the eleven fixed kinds rather
// than a positive interned class hash.
func (k Kind) IsBuiltin() bool { return k <= KindNil }

var kindByName map[string]Kind

func init() {
	kindByName = make(map[string]Kind, len(kindNames))
	for k, n := range kindNames {
		kindByName[n] = k
	}
}

// KindByName looks up one of the eleven builtin kinds by its keyword
// spelling ("Number", "String", ...), the inverse of String. Used by the
// `String -> Type` coercion (spec.md §4.6) to resolve a type name held
// in a string rather than always returning the source string's own
// Type.
func KindByName(name string) (Kind, bool) {
	k, ok := kindByName[name]
	return k, ok
}

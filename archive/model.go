// Package archive recognises the NSKeyedArchiver convention layered on top
// of a decoded plist value tree and materialises the class/instance graph
// it encodes (spec.md §4.6).
package archive

// ValueKind discriminates the variants of an UnarchivedValue (spec.md
// §3.3). It mirrors bplist.Kind's primitive variants, plus KindInstance
// for a resolved reference to another instance in the same archive.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindDouble
	KindDate
	KindData
	KindString
	KindUnicode
	KindArray
	KindDict
	KindInstance
)

// UnarchivedClass is a class descriptor: a classname and its class chain as
// listed in $classes, the class itself first and then its superclasses
// outward (spec.md §3.3).
type UnarchivedClass struct {
	ClassName string
	Supers    []string
}

// DictEntry is one ordered (key, value) pair inside an UnarchivedValue of
// kind KindDict.
type DictEntry struct {
	Key   *UnarchivedValue
	Value *UnarchivedValue
}

// UnarchivedValue is a member's expanded value: either a primitive payload
// or, for KindInstance, a non-owning pointer into the model's instance
// table (spec.md §3.3, §5 — members hold non-owning handles to instances
// owned by the model).
type UnarchivedValue struct {
	Kind ValueKind

	Bool    bool
	Int     int64
	Double  float64 // also holds Date's seconds-since-epoch
	Data    []byte
	Str     string
	Unicode []rune

	Array []*UnarchivedValue
	Dict  []DictEntry

	Instance *UnarchivedInstance
}

// MemberEntry is one named member of an UnarchivedInstance, in the
// instance dict's original insertion order (spec.md §4.6 invariants).
type MemberEntry struct {
	Name  string
	Value *UnarchivedValue
}

// UnarchivedInstance owns a reference to its class descriptor plus its
// ordered members (spec.md §3.3).
type UnarchivedInstance struct {
	Class   *UnarchivedClass
	Members []MemberEntry
}

// Member looks up a member by name, returning its value and whether it was
// present. Members are few enough per instance that a linear scan (over
// the same ordered slice Members exposes) is preferable to maintaining a
// second, order-losing map alongside it.
func (i *UnarchivedInstance) Member(name string) (*UnarchivedValue, bool) {
	for _, m := range i.Members {
		if m.Name == name {
			return m.Value, true
		}
	}
	return nil, false
}

// UnarchivedModel is the result of analysing a plist's keyed-archiver
// object graph (spec.md §3.3, §6.3). Callers must check Valid before
// dereferencing Root.
type UnarchivedModel struct {
	Valid bool

	// Root is the instance resolved from $top["root"].
	Root *UnarchivedInstance

	// Instances maps each instance's original $objects index to its
	// expanded form, the table the analyzer's memoisation is built on
	// (spec.md §4.6, §6.3 "objects-by-index").
	Instances map[int]*UnarchivedInstance
}

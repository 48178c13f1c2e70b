package archive

import (
	"fmt"

	"github.com/dgrfl/bplistarchive/bplist"
)

// archiverName is the intended $archiver value. The original source this
// format convention was ported from compares against a misspelt literal
// ("NSKeyedArchhiver", with a doubled 'h'), which as a side effect of C++
// string::compare's truthiness only sets the found-archiver flag when the
// stored value does NOT equal the real name. spec.md §9 open question 1
// directs implementers to match the intended behaviour — an exact match
// against the correctly spelled name — rather than carry the bug forward.
const archiverName = "NSKeyedArchiver"

// archiverVersion is the only $version value this analyzer recognises.
const archiverVersion = 100000

// analyzer holds the working state of one Analyze call: the flattened
// $objects table and the memoisation table that gives termination and
// identity to cyclic object graphs (spec.md §4.6).
type analyzer struct {
	objects   []*bplist.Value
	instances map[int]*UnarchivedInstance
}

// Analyze recognises the keyed-archiver convention on top of root and
// materialises its class/instance graph. root is borrowed: Analyze does
// not retain or mutate it (spec.md §6.3). On any recognition failure the
// returned model has Valid set to false and Root left nil; callers must
// check Valid before use (spec.md §7).
func Analyze(root *bplist.Value) *UnarchivedModel {
	objects, topIndex, ok := recognize(root)
	if !ok {
		return &UnarchivedModel{Valid: false, Instances: map[int]*UnarchivedInstance{}}
	}

	a := &analyzer{
		objects:   objects,
		instances: make(map[int]*UnarchivedInstance),
	}

	rootInstance, err := a.expandInstanceAt(topIndex)
	if err != nil {
		return &UnarchivedModel{Valid: false, Instances: map[int]*UnarchivedInstance{}}
	}

	return &UnarchivedModel{
		Valid:     true,
		Root:      rootInstance,
		Instances: a.instances,
	}
}

// recognize extracts $objects and the $top["root"] index from root,
// validating $archiver and $version along the way (spec.md §4.6). ok is
// false if root is not a Dict or any of the four required keys is
// missing or mistyped.
func recognize(root *bplist.Value) (objects []*bplist.Value, topIndex int, ok bool) {
	if root == nil || root.Kind != bplist.KindDict {
		return nil, 0, false
	}

	archiverVal, hasArchiver := bplist.ValueForStringKey(root, "$archiver")
	versionVal, hasVersion := bplist.ValueForStringKey(root, "$version")
	objectsVal, hasObjects := bplist.ValueForStringKey(root, "$objects")
	topVal, hasTop := bplist.ValueForStringKey(root, "$top")

	if !hasArchiver || archiverVal.Kind != bplist.KindAsciiString || archiverVal.Ascii != archiverName {
		return nil, 0, false
	}
	if !hasVersion || versionVal.Kind != bplist.KindInt || versionVal.Int != archiverVersion {
		return nil, 0, false
	}
	if !hasObjects || objectsVal.Kind != bplist.KindArray {
		return nil, 0, false
	}
	if !hasTop || topVal.Kind != bplist.KindDict {
		return nil, 0, false
	}

	rootRef, hasRoot := bplist.ValueForStringKey(topVal, "root")
	if !hasRoot || rootRef.Kind != bplist.KindUid {
		return nil, 0, false
	}

	return objectsVal.Array, int(rootRef.Uid), true
}

// expandInstanceAt resolves objects[idx] as an instance, memoising the
// result so that a UID visited twice (directly or through a cycle) returns
// the same instance handle instead of recursing forever (spec.md §4.6
// invariants, testable property 7).
func (a *analyzer) expandInstanceAt(idx int) (*UnarchivedInstance, error) {
	if inst, ok := a.instances[idx]; ok {
		return inst, nil
	}
	if idx < 0 || idx >= len(a.objects) {
		return nil, fmt.Errorf("archive: object index %d out of range [0, %d)", idx, len(a.objects))
	}
	dict := a.objects[idx]
	if dict.Kind != bplist.KindDict {
		return nil, fmt.Errorf("archive: object %d is not an instance dict", idx)
	}
	classRef, ok := bplist.ValueForStringKey(dict, "$class")
	if !ok || classRef.Kind != bplist.KindUid {
		return nil, fmt.Errorf("archive: object %d has no resolvable $class", idx)
	}
	class, err := a.expandClass(int(classRef.Uid))
	if err != nil {
		return nil, err
	}

	// Register the instance before expanding its members, so a member
	// whose value cycles back to this same index resolves to this
	// instance rather than recursing (spec.md §9 cyclic references).
	inst := &UnarchivedInstance{Class: class}
	a.instances[idx] = inst

	for _, entry := range dict.Dict {
		if entry.Key == nil || entry.Key.Kind != bplist.KindAsciiString {
			continue
		}
		name := entry.Key.Ascii
		if name == "$class" {
			continue
		}
		val, err := a.expandValue(entry.Value)
		if err != nil {
			return nil, err
		}
		inst.Members = append(inst.Members, MemberEntry{Name: name, Value: val})
	}

	return inst, nil
}

// expandClass resolves objects[idx] as a class descriptor (spec.md §4.6:
// $classname is the class's own name, $classes is the superclass chain
// including self — NOT the doubled "classname" lookup the original source
// used for both fields, per spec.md §9 open question 2).
func (a *analyzer) expandClass(idx int) (*UnarchivedClass, error) {
	if idx < 0 || idx >= len(a.objects) {
		return nil, fmt.Errorf("archive: class index %d out of range [0, %d)", idx, len(a.objects))
	}
	dict := a.objects[idx]
	if dict.Kind != bplist.KindDict {
		return nil, fmt.Errorf("archive: class descriptor %d is not a dict", idx)
	}
	nameVal, ok := bplist.ValueForStringKey(dict, "$classname")
	if !ok || nameVal.Kind != bplist.KindAsciiString {
		return nil, fmt.Errorf("archive: class descriptor %d missing $classname", idx)
	}
	chainVal, ok := bplist.ValueForStringKey(dict, "$classes")
	if !ok || chainVal.Kind != bplist.KindArray {
		return nil, fmt.Errorf("archive: class descriptor %d missing $classes", idx)
	}
	supers := make([]string, 0, len(chainVal.Array))
	for _, v := range chainVal.Array {
		if v.Kind == bplist.KindAsciiString {
			supers = append(supers, v.Ascii)
		}
	}
	return &UnarchivedClass{ClassName: nameVal.Ascii, Supers: supers}, nil
}

// expandValue expands a single plist Value into its UnarchivedValue
// counterpart. A Uid either resolves to an instance (if the referenced
// object is an instance dict) or is transparently flattened to whatever
// primitive/container value it points at — the archive format only uses
// UID indirection to give instances identity, not for plain data.
func (a *analyzer) expandValue(v *bplist.Value) (*UnarchivedValue, error) {
	if v == nil {
		return &UnarchivedValue{Kind: KindNull}, nil
	}
	switch v.Kind {
	case bplist.KindNull:
		return &UnarchivedValue{Kind: KindNull}, nil
	case bplist.KindBool:
		return &UnarchivedValue{Kind: KindBool, Bool: v.Bool}, nil
	case bplist.KindInt:
		return &UnarchivedValue{Kind: KindInt, Int: v.Int}, nil
	case bplist.KindDouble:
		return &UnarchivedValue{Kind: KindDouble, Double: v.Double}, nil
	case bplist.KindDate:
		return &UnarchivedValue{Kind: KindDate, Double: v.Double}, nil
	case bplist.KindData:
		return &UnarchivedValue{Kind: KindData, Data: v.Data}, nil
	case bplist.KindAsciiString:
		return &UnarchivedValue{Kind: KindString, Str: v.Ascii}, nil
	case bplist.KindUnicodeString:
		return &UnarchivedValue{Kind: KindUnicode, Unicode: v.Unicode}, nil
	case bplist.KindUid:
		return a.expandUid(int(v.Uid))
	case bplist.KindArray, bplist.KindSet:
		children := make([]*UnarchivedValue, len(v.Array))
		for i, c := range v.Array {
			cv, err := a.expandValue(c)
			if err != nil {
				return nil, err
			}
			children[i] = cv
		}
		return &UnarchivedValue{Kind: KindArray, Array: children}, nil
	case bplist.KindDict:
		if isInstanceDict(v) {
			return nil, fmt.Errorf("archive: instance dict reached without UID indirection")
		}
		entries := make([]DictEntry, len(v.Dict))
		for i, e := range v.Dict {
			k, err := a.expandValue(e.Key)
			if err != nil {
				return nil, err
			}
			val, err := a.expandValue(e.Value)
			if err != nil {
				return nil, err
			}
			entries[i] = DictEntry{Key: k, Value: val}
		}
		return &UnarchivedValue{Kind: KindDict, Dict: entries}, nil
	}
	return nil, fmt.Errorf("archive: unrecognised value kind %v", v.Kind)
}

// expandUid resolves a UID appearing inside a member value. If it targets
// an instance, the result is a KindInstance reference (memoised, so
// cycles terminate); otherwise the referenced object is expanded in place,
// the way a reference to the literal "$null" placeholder or a bare shared
// array resolves to its own value rather than a synthetic instance.
func (a *analyzer) expandUid(idx int) (*UnarchivedValue, error) {
	if idx < 0 || idx >= len(a.objects) {
		return nil, fmt.Errorf("archive: uid %d out of range [0, %d)", idx, len(a.objects))
	}
	target := a.objects[idx]
	if isInstanceDict(target) {
		inst, err := a.expandInstanceAt(idx)
		if err != nil {
			return nil, err
		}
		return &UnarchivedValue{Kind: KindInstance, Instance: inst}, nil
	}
	return a.expandValue(target)
}

func isInstanceDict(v *bplist.Value) bool {
	if v.Kind != bplist.KindDict {
		return false
	}
	_, ok := bplist.ValueForStringKey(v, "$class")
	return ok
}

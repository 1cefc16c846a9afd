// Package instcache persists the set of type and function descriptions a
// domain has resolved, so a later run can warm its caches up front.
// Instances themselves are never stored; only their descriptions.
package instcache

import (
	"fmt"

	"fortio.org/safecast"

	"qs/internal/ids"
	"qs/internal/types"
)

// Current schema version - increment when the record format changes.
const SchemaVersion uint16 = 1

// Manifest is the on-disk form.
type Manifest struct {
	Schema    uint16
	TypeCount uint32
	FuncCount uint32
	Types     []TypeNode
	Funcs     []FuncRecord
}

// TypeNode is the serialized form of a types.TypeValue.
type TypeNode struct {
	Kind   uint8
	ID     string     `msgpack:",omitempty"` // Normal
	Index  int        `msgpack:",omitempty"` // Var
	Name   string     `msgpack:",omitempty"` // Member
	Parent *TypeNode  `msgpack:",omitempty"` // Member
	Args   []TypeNode `msgpack:",omitempty"`
}

// FuncRecord is the serialized form of a types.FuncValue.
type FuncRecord struct {
	ID    string
	Outer []TypeNode `msgpack:",omitempty"`
	Local []TypeNode `msgpack:",omitempty"`
}

// Resolved is the part of the domain a manifest is built from.
type Resolved interface {
	ResolvedTypes() []types.Normal
	ResolvedFuncs() []types.FuncValue
}

// FromDomain snapshots every description d has resolved.
func FromDomain(d Resolved) (*Manifest, error) {
	m := &Manifest{Schema: SchemaVersion}
	for _, t := range d.ResolvedTypes() {
		m.Types = append(m.Types, encodeType(t))
	}
	for _, f := range d.ResolvedFuncs() {
		m.Funcs = append(m.Funcs, encodeFunc(f))
	}
	if err := m.count(); err != nil {
		return nil, err
	}
	return m, nil
}

// Merge adds the records of other that m does not hold yet.
func (m *Manifest) Merge(other *Manifest) error {
	seenTypes := make(map[string]bool, len(m.Types))
	for _, n := range m.Types {
		seenTypes[nodeKey(n)] = true
	}
	for _, n := range other.Types {
		if k := nodeKey(n); !seenTypes[k] {
			seenTypes[k] = true
			m.Types = append(m.Types, n)
		}
	}
	seenFuncs := make(map[string]bool, len(m.Funcs))
	for _, f := range m.Funcs {
		seenFuncs[funcKey(f)] = true
	}
	for _, f := range other.Funcs {
		if k := funcKey(f); !seenFuncs[k] {
			seenFuncs[k] = true
			m.Funcs = append(m.Funcs, f)
		}
	}
	return m.count()
}

func (m *Manifest) count() error {
	tc, err := safecast.Conv[uint32](len(m.Types))
	if err != nil {
		return fmt.Errorf("manifest type count: %w", err)
	}
	fc, err := safecast.Conv[uint32](len(m.Funcs))
	if err != nil {
		return fmt.Errorf("manifest func count: %w", err)
	}
	m.TypeCount, m.FuncCount = tc, fc
	return nil
}

// Decode rebuilds the descriptions.
func (m *Manifest) Decode() ([]types.TypeValue, []types.FuncValue, error) {
	if m.Schema != SchemaVersion {
		return nil, nil, fmt.Errorf("manifest schema %d, want %d", m.Schema, SchemaVersion)
	}
	if n, err := safecast.Conv[int](m.TypeCount); err != nil || n != len(m.Types) {
		return nil, nil, fmt.Errorf("manifest declares %d types, holds %d", m.TypeCount, len(m.Types))
	}
	if n, err := safecast.Conv[int](m.FuncCount); err != nil || n != len(m.Funcs) {
		return nil, nil, fmt.Errorf("manifest declares %d funcs, holds %d", m.FuncCount, len(m.Funcs))
	}
	tvs := make([]types.TypeValue, 0, len(m.Types))
	for i, n := range m.Types {
		tv, err := decodeType(n)
		if err != nil {
			return nil, nil, fmt.Errorf("type record %d: %w", i, err)
		}
		tvs = append(tvs, tv)
	}
	fvs := make([]types.FuncValue, 0, len(m.Funcs))
	for i, r := range m.Funcs {
		fv, err := decodeFunc(r)
		if err != nil {
			return nil, nil, fmt.Errorf("func record %d: %w", i, err)
		}
		fvs = append(fvs, fv)
	}
	return tvs, fvs, nil
}

func encodeType(t types.TypeValue) TypeNode {
	switch tt := t.(type) {
	case types.Normal:
		return TypeNode{Kind: uint8(types.KindNormal), ID: tt.ID.String(), Args: encodeList(tt.Args)}
	case types.Var:
		return TypeNode{Kind: uint8(types.KindVar), Index: tt.Index}
	case types.Member:
		parent := encodeType(tt.Parent)
		return TypeNode{Kind: uint8(types.KindMember), Name: tt.Name, Parent: &parent, Args: encodeList(tt.Args)}
	default:
		return TypeNode{}
	}
}

func encodeList(list []types.TypeValue) []TypeNode {
	if len(list) == 0 {
		return nil
	}
	out := make([]TypeNode, len(list))
	for i, t := range list {
		out[i] = encodeType(t)
	}
	return out
}

func encodeFunc(f types.FuncValue) FuncRecord {
	return FuncRecord{ID: f.ID.String(), Outer: encodeList(f.Args.Outer), Local: encodeList(f.Args.Local)}
}

func decodeType(n TypeNode) (types.TypeValue, error) {
	switch types.Kind(n.Kind) {
	case types.KindNormal:
		id, err := ids.Parse(n.ID)
		if err != nil {
			return nil, err
		}
		args, err := decodeList(n.Args)
		if err != nil {
			return nil, err
		}
		return types.Normal{ID: id, Args: args}, nil
	case types.KindVar:
		if n.Index < 0 {
			return nil, fmt.Errorf("negative type variable index %d", n.Index)
		}
		return types.Var{Index: n.Index}, nil
	case types.KindMember:
		if n.Parent == nil {
			return nil, fmt.Errorf("member %q without parent", n.Name)
		}
		parent, err := decodeType(*n.Parent)
		if err != nil {
			return nil, err
		}
		args, err := decodeList(n.Args)
		if err != nil {
			return nil, err
		}
		return types.Member{Parent: parent, Name: n.Name, Args: args}, nil
	default:
		return nil, fmt.Errorf("unknown type record kind %d", n.Kind)
	}
}

func decodeList(nodes []TypeNode) ([]types.TypeValue, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	out := make([]types.TypeValue, len(nodes))
	for i, n := range nodes {
		tv, err := decodeType(n)
		if err != nil {
			return nil, err
		}
		out[i] = tv
	}
	return out, nil
}

func decodeFunc(r FuncRecord) (types.FuncValue, error) {
	id, err := ids.Parse(r.ID)
	if err != nil {
		return types.FuncValue{}, err
	}
	outer, err := decodeList(r.Outer)
	if err != nil {
		return types.FuncValue{}, err
	}
	local, err := decodeList(r.Local)
	if err != nil {
		return types.FuncValue{}, err
	}
	return types.MakeFunc(id, outer, local), nil
}

// nodeKey and funcKey key records by the structural key of what they
// describe; undecodable records key by their raw id.
func nodeKey(n TypeNode) string {
	tv, err := decodeType(n)
	if err != nil {
		return "!" + n.ID
	}
	return types.Key(tv)
}

func funcKey(r FuncRecord) string {
	fv, err := decodeFunc(r)
	if err != nil {
		return "!" + r.ID
	}
	return types.FuncKey(fv)
}

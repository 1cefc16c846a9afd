package native

import "qs/internal/ids"

// IDs are the well-known item ids of one native module instance. They are
// built from the module's namespace at construction, so independent domains
// can each load their own runtime module.
type IDs struct {
	Int    ids.ItemID
	Bool   ids.ItemID
	String ids.ItemID
	Void   ids.ItemID
	List   ids.ItemID

	ListAdd   ids.ItemID
	ListCount ids.ItemID
	ListGet   ids.ItemID
	ListClear ids.ItemID
}

// NewIDs builds the id set rooted at namespace.
func NewIDs(namespace string) (IDs, error) {
	var out IDs
	for _, item := range []struct {
		dst  *ids.ItemID
		name string
		n    int
	}{
		{&out.Int, "int", 0},
		{&out.Bool, "bool", 0},
		{&out.String, "string", 0},
		{&out.Void, "void", 0},
		{&out.List, "List", 1},
	} {
		id, err := ids.Make(namespace, ids.Segment{Name: item.name, Arity: item.n})
		if err != nil {
			return IDs{}, err
		}
		*item.dst = id
	}
	out.ListAdd = out.List.Child("Add", 0)
	out.ListCount = out.List.Child("Count", 0)
	out.ListGet = out.List.Child("Get", 0)
	out.ListClear = out.List.Child("Clear", 0)
	return out, nil
}

// Types lists the declared type ids in declaration order.
func (x IDs) Types() []ids.ItemID {
	return []ids.ItemID{x.Int, x.Bool, x.String, x.Void, x.List}
}

// Funcs lists the declared function ids in declaration order.
func (x IDs) Funcs() []ids.ItemID {
	return []ids.ItemID{x.ListAdd, x.ListCount, x.ListGet, x.ListClear}
}

package cdx

// ReferenceManager binds document ids to objects. An id may be bound
// more than once; later bindings shadow earlier ones but stay
// reachable for lookups that ask for a different kind.
type ReferenceManager struct {
	single map[uint32]*Object

	// Only populated once an id is bound a second time. Newest first.
	chains map[uint32][]*Object
}

func NewReferenceManager() *ReferenceManager {
	return &ReferenceManager{
		single: make(map[uint32]*Object),
		chains: make(map[uint32][]*Object),
	}
}

func (self *ReferenceManager) Register(id uint32, obj *Object) {
	if id == 0 || obj == nil {
		return
	}

	chain, pres := self.chains[id]
	if pres {
		self.chains[id] = append([]*Object{obj}, chain...)
		return
	}

	first, pres := self.single[id]
	if !pres {
		self.single[id] = obj
		return
	}

	delete(self.single, id)
	self.chains[id] = []*Object{obj, first}
}

// Bindings returns every object bound to id, newest first.
func (self *ReferenceManager) Bindings(id uint32) []*Object {
	chain, pres := self.chains[id]
	if pres {
		return chain
	}
	first, pres := self.single[id]
	if pres {
		return []*Object{first}
	}
	return nil
}

// Resolve returns the newest binding of id assignable to one of kinds
// (any kind when none are given). Id 0 resolves to nil without error.
func (self *ReferenceManager) Resolve(id uint32, kinds ...string) (*Object, error) {
	if id == 0 {
		return nil, nil
	}

	bindings := self.Bindings(id)
	if len(bindings) == 0 {
		return nil, &ParseError{
			Kind:   KindUnresolvedReference,
			Detail: "id " + formatID(id) + " is not bound",
			Cause:  NotFoundError,
		}
	}

	if len(kinds) == 0 {
		return bindings[0], nil
	}

	for _, obj := range bindings {
		for _, kind := range kinds {
			if obj.Kind.Is(kind) {
				return obj, nil
			}
		}
	}

	return nil, &ParseError{
		Kind: KindUnresolvedReference,
		Detail: "id " + formatID(id) + " is bound to " +
			bindings[0].Kind.Name + ", wanted one of " + joinKinds(kinds),
		Cause: NotFoundError,
	}
}

func (self *ReferenceManager) Len() int {
	return len(self.single) + len(self.chains)
}

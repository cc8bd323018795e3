package cdx

import "www.velocidex.com/golang/vfilter"

// MakeScope returns a scope that knows how to traverse document
// objects.
func MakeScope() vfilter.Scope {
	result := vfilter.NewScope()
	result.AddProtocolImpl(
		&ObjectAssociative{}, &ChildrenAssociative{}, &ObjectIterator{},
	)

	return result
}

package cdx

import (
	"encoding/json"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"www.velocidex.com/golang/vfilter"
)

func Debug(arg interface{}) {
	spew.Dump(arg)
}

// DebugString is Debug without the side effect. Object graphs point
// back to their parents so the depth is bounded.
func DebugString(arg interface{}) string {
	config := spew.ConfigState{
		Indent:                  " ",
		MaxDepth:                6,
		DisablePointerAddresses: true,
		SortKeys:                true,
	}
	return config.Sdump(arg)
}

func JsonDump(v interface{}) {
	fmt.Println(StringIndent(v))
}

func StringIndent(v interface{}) string {
	result, err := json.MarshalIndent(v, "", " ")
	if err != nil {
		panic(err)
	}
	return string(result)
}

// ScopeDebug logs only when DEBUG_CDX is set in the scope.
func ScopeDebug(scope vfilter.Scope, fmt string, args ...interface{}) {
	if scope == nil {
		return
	}

	value, pres := scope.Resolve("DEBUG_CDX")
	if pres && scope.Bool(value) {
		scope.Log(fmt, args...)
	}
}

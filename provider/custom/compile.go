package custom

import (
	"bytes"
	"sync"

	"github.com/streamdex/streamdex/filesystem"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

var bytecodeCache sync.Map

// compileAndRun executes the script at path in L. Compiled prototypes are
// cached per path for the lifetime of the process.
func compileAndRun(L *lua.LState, path string) error {
	if cached, ok := bytecodeCache.Load(path); ok {
		L.Push(L.NewFunctionFromProto(cached.(*lua.FunctionProto)))
		return L.PCall(0, lua.MultRet, nil)
	}

	script, err := filesystem.API().ReadFile(path)
	if err != nil {
		return err
	}

	chunk, err := parse.Parse(bytes.NewReader(script), path)
	if err != nil {
		return err
	}

	proto, err := lua.Compile(chunk, path)
	if err != nil {
		return err
	}

	bytecodeCache.Store(path, proto)

	L.Push(L.NewFunctionFromProto(proto))
	return L.PCall(0, lua.MultRet, nil)
}

// forget drops the cached prototype of path.
func forget(path string) {
	bytecodeCache.Delete(path)
}

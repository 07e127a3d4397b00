package tracking

import (
	"path/filepath"
	"runtime"
	"strings"
)

// CallerSite labels the calling source location as "file_function".
// skip counts frames above the caller of CallerSite, as in runtime.Caller.
// It returns UnknownCallSite when the frame cannot be resolved.
func CallerSite(skip int) string {
	pc, file, _, ok := runtime.Caller(skip + 1)
	if !ok {
		return UnknownCallSite
	}
	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return name
	}
	full := fn.Name()
	if i := strings.LastIndex(full, "/"); i >= 0 {
		full = full[i+1:]
	}
	if i := strings.Index(full, "."); i >= 0 {
		full = full[i+1:]
	}
	return name + "_" + full
}

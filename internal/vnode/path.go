package vnode

import (
	"fmt"
	"strconv"
	"strings"
)

// segmentGap is the reserved multiplier between sibling path segments.
// The gap leaves room for future slot insertion without renumbering
// existing siblings.
const segmentGap = 0x10000000

// ChildPath returns the hex path for the child at index under parent.
func ChildPath(parent string, index int) string {
	seg := fmt.Sprintf("%08x", uint64(index+1)*segmentGap)
	if parent == "" {
		return seg
	}
	return parent + "." + seg
}

// IndexPath converts a hex path into its 0-based index sequence. It
// returns ok=false if any segment is not a positive multiple of the
// reserved gap (i.e. the path does not correspond to a plain child
// chain, such as one that has been hand-edited or from a future
// format revision).
func IndexPath(path string) (indices []int, ok bool) {
	if path == "" {
		return nil, true
	}
	segs := strings.Split(path, ".")
	indices = make([]int, 0, len(segs))
	for _, s := range segs {
		v, err := strconv.ParseUint(s, 16, 64)
		if err != nil || v == 0 || v%segmentGap != 0 {
			return nil, false
		}
		indices = append(indices, int(v/segmentGap)-1)
	}
	return indices, true
}

// ParentPath strips the final segment from path, returning the empty
// string if path is already the root.
func ParentPath(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	return path[:i]
}

// Depth returns the number of segments in path (0 for the root).
func Depth(path string) int {
	if path == "" {
		return 0
	}
	return strings.Count(path, ".") + 1
}

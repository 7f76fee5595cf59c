package quadvk

import (
	"strings"
	"unsafe"
)

func safeString(s string) string {
	if len(s) == 0 {
		return "\x00"
	}
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

func safeStrings(list []string) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = safeString(list[i])
	}
	return out
}

// trimNull reverses safeString.
func trimNull(s string) string {
	return strings.TrimRight(s, "\x00")
}

// sliceUint32 reinterprets SPIR-V bytes as words. len(data) must be a
// multiple of 4.
func sliceUint32(data []byte) []uint32 {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), len(data)/4)
}

// checkExisting returns the required names found in actual, null terminated,
// and the names that are missing.
func checkExisting(actual, required []string) (existing []string, missing []string) {
	have := make(map[string]struct{}, len(actual))
	for _, name := range actual {
		have[trimNull(name)] = struct{}{}
	}
	for _, name := range required {
		if _, ok := have[trimNull(name)]; ok {
			existing = append(existing, safeString(name))
		} else {
			missing = append(missing, trimNull(name))
		}
	}
	return existing, missing
}

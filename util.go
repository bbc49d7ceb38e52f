package vulkanctx

import "encoding/binary"

// safeString ensures a NUL-terminated string as expected by the C side of
// the Vulkan bindings.
func safeString(s string) string {
	if len(s) == 0 {
		return "\x00"
	}
	if s[len(s)-1] != '\x00' {
		return s + "\x00"
	}
	return s
}

func safeStrings(list []string) []string {
	for i := range list {
		list[i] = safeString(list[i])
	}
	return list
}

// checkExisting filters the required names down to those actually present,
// returning the usable set and how many were missing.
func checkExisting(actual, required []string) (existing []string, missing int) {
	for _, want := range required {
		found := false
		for _, have := range actual {
			if have == want {
				found = true
				break
			}
		}
		if found {
			existing = append(existing, want)
		} else {
			missing++
		}
	}
	return existing, missing
}

// sliceUint32 repacks SPIR-V bytes into the uint32 words Vulkan expects.
func sliceUint32(data []byte) []uint32 {
	out := make([]uint32, len(data)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return out
}

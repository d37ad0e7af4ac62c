package intake

// DeepMerge applies patch onto target. Nested objects are merged key by
// key, creating or replacing the target node when it is not an object.
// Every other value, including lists and explicit nulls, overwrites.
// Keys absent from the patch are left alone.
func DeepMerge(target, patch map[string]any) {
	for key, value := range patch {
		src, isObject := value.(map[string]any)
		if !isObject {
			target[key] = value
			continue
		}
		dst, ok := target[key].(map[string]any)
		if !ok {
			dst = map[string]any{}
			target[key] = dst
		}
		DeepMerge(dst, src)
	}
}

package measurement

// SelectLabels returns the subset of labels named by keys. Keys missing
// from labels are omitted. The result is nil when keys is empty.
func SelectLabels(labels map[string]string, keys []string) map[string]string {
	if len(keys) == 0 {
		return nil
	}

	result := make(map[string]string, len(keys))
	for _, key := range keys {
		if value, ok := labels[key]; ok {
			result[key] = value
		}
	}

	return result
}

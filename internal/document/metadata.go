package document

// MergeMetadata combines partial metadata values. Later arguments win
// on scalar fields. FormatSpecific bags deep-merge per field within
// each format key, so two partials both touching the same format's bag
// keep each other's sibling fields.
func MergeMetadata(parts ...Metadata) Metadata {
	var merged Metadata

	for _, p := range parts {
		if p.Title != "" {
			merged.Title = p.Title
		}
		if p.Language != "" {
			merged.Language = p.Language
		}
		if p.Author != "" {
			merged.Author = p.Author
		}
		if p.Description != "" {
			merged.Description = p.Description
		}

		for format, bag := range p.FormatSpecific {
			if merged.FormatSpecific == nil {
				merged.FormatSpecific = map[string]map[string]any{}
			}
			dst := merged.FormatSpecific[format]
			if dst == nil {
				dst = make(map[string]any, len(bag))
				merged.FormatSpecific[format] = dst
			}
			for k, v := range bag {
				dst[k] = cloneValue(v)
			}
		}
	}

	return merged
}

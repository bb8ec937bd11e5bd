package document

// Clone returns a deep copy. No cue, style, or metadata aliasing
// survives: the editor relies on this for history snapshots and for
// isolating caller-visible copies from internal state.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}

	out := &Document{
		Version:      d.Version,
		SourceFormat: d.SourceFormat,
		Metadata:     d.Metadata.Clone(),
		Styles:       make([]Style, len(d.Styles)),
		Cues:         make([]Cue, len(d.Cues)),
	}

	for i := range d.Styles {
		out.Styles[i] = d.Styles[i].Clone()
	}
	for i := range d.Cues {
		out.Cues[i] = d.Cues[i].Clone()
	}

	return out
}

func (m Metadata) Clone() Metadata {
	out := m
	if m.FormatSpecific != nil {
		out.FormatSpecific = make(
			map[string]map[string]any,
			len(m.FormatSpecific),
		)
		for format, bag := range m.FormatSpecific {
			copied := make(map[string]any, len(bag))
			for k, v := range bag {
				copied[k] = cloneValue(v)
			}
			out.FormatSpecific[format] = copied
		}
	}
	return out
}

func (s Style) Clone() Style {
	out := s
	if s.FormatSpecific != nil {
		out.FormatSpecific = make(map[string]any, len(s.FormatSpecific))
		for k, v := range s.FormatSpecific {
			out.FormatSpecific[k] = cloneValue(v)
		}
	}
	return out
}

func (c Cue) Clone() Cue {
	out := c
	if c.Layout != nil {
		layout := *c.Layout
		out.Layout = &layout
	}
	if c.Formatting != nil {
		out.Formatting = append([]Span(nil), c.Formatting...)
	}
	out.FormatSpecific = c.FormatSpecific.clone()
	return out
}

// cloneValue deep-copies the JSON-shaped values that end up inside
// metadata bags (maps, slices, scalars).
func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	default:
		return v
	}
}

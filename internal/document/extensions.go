package document

import (
	"encoding/json"
)

// per-cue fields only the ASS dialect models
type ASSCueData struct {
	Layer   int    `json:"layer"`
	Actor   string `json:"actor,omitempty"`
	MarginL int    `json:"marginL,omitempty"`
	MarginR int    `json:"marginR,omitempty"`
	MarginV int    `json:"marginV,omitempty"`
	Effect  string `json:"effect,omitempty"`
}

// per-cue WebVTT cue settings
type VTTCueData struct {
	Region   string `json:"region,omitempty"`
	Vertical string `json:"vertical,omitempty"`
	Line     string `json:"line,omitempty"`
	Position string `json:"position,omitempty"`
	Size     string `json:"size,omitempty"`
	Align    string `json:"align,omitempty"`
}

// per-cue fields from the CSV transcription export
type CSVCueData struct {
	Character  string  `json:"character,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	AbsStart   int64   `json:"absStart,omitempty"`
	AbsEnd     int64   `json:"absEnd,omitempty"`
}

// CueExtensions is a tagged union keyed by format name: typed payloads
// for the known formats plus a raw passthrough for unrecognized keys so
// unknown-but-present data survives a round trip.
type CueExtensions struct {
	ASS   *ASSCueData
	VTT   *VTTCueData
	CSV   *CSVCueData
	Extra map[string]json.RawMessage
}

func (e *CueExtensions) MarshalJSON() ([]byte, error) {
	out := map[string]json.RawMessage{}
	for k, v := range e.Extra {
		out[k] = v
	}
	if e.ASS != nil {
		raw, err := json.Marshal(e.ASS)
		if err != nil {
			return nil, err
		}
		out["ass"] = raw
	}
	if e.VTT != nil {
		raw, err := json.Marshal(e.VTT)
		if err != nil {
			return nil, err
		}
		out["vtt"] = raw
	}
	if e.CSV != nil {
		raw, err := json.Marshal(e.CSV)
		if err != nil {
			return nil, err
		}
		out["csv"] = raw
	}
	return json.Marshal(out)
}

func (e *CueExtensions) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = CueExtensions{}
	for key, value := range raw {
		switch key {
		case "ass":
			e.ASS = &ASSCueData{}
			if err := json.Unmarshal(value, e.ASS); err != nil {
				return err
			}
		case "vtt":
			e.VTT = &VTTCueData{}
			if err := json.Unmarshal(value, e.VTT); err != nil {
				return err
			}
		case "csv":
			e.CSV = &CSVCueData{}
			if err := json.Unmarshal(value, e.CSV); err != nil {
				return err
			}
		default:
			if e.Extra == nil {
				e.Extra = map[string]json.RawMessage{}
			}
			e.Extra[key] = append(json.RawMessage(nil), value...)
		}
	}
	return nil
}

// IsEmpty reports whether no extension data is present.
func (e *CueExtensions) IsEmpty() bool {
	return e == nil ||
		(e.ASS == nil && e.VTT == nil && e.CSV == nil && len(e.Extra) == 0)
}

func (e *CueExtensions) clone() *CueExtensions {
	if e == nil {
		return nil
	}
	out := &CueExtensions{}
	if e.ASS != nil {
		ass := *e.ASS
		out.ASS = &ass
	}
	if e.VTT != nil {
		vtt := *e.VTT
		out.VTT = &vtt
	}
	if e.CSV != nil {
		csv := *e.CSV
		out.CSV = &csv
	}
	if e.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(e.Extra))
		for k, v := range e.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

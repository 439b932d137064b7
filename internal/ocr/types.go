package ocr

// BBox is the page-relative bounding box of an OCR block. Coordinates
// come straight from the vision collaborator and are never recomputed here.
type BBox struct {
	XMin float64 `json:"x_min"`
	XMax float64 `json:"x_max"`
	YMin float64 `json:"y_min"`
	YMax float64 `json:"y_max"`
}

// Block is a single OCR-emitted text fragment. Blocks are immutable for
// the duration of one request; downstream components copy what they keep.
type Block struct {
	Text       string  `json:"text"`
	Page       int     `json:"page"`
	BBox       BBox    `json:"bbox"`
	Confidence float64 `json:"confidence"`
}

// Union returns the smallest box covering both b and other.
func (b BBox) Union(other BBox) BBox {
	out := b
	if other.XMin < out.XMin {
		out.XMin = other.XMin
	}
	if other.XMax > out.XMax {
		out.XMax = other.XMax
	}
	if other.YMin < out.YMin {
		out.YMin = other.YMin
	}
	if other.YMax > out.YMax {
		out.YMax = other.YMax
	}
	return out
}

// Request is the envelope handed over by the service layer. Either Text or
// Blocks (or both) must be present.
type Request struct {
	Text                 string   `json:"text"`
	Blocks               []Block  `json:"blocks"`
	ContractDate         string   `json:"contract_date,omitempty"`
	RequestedModes       []string `json:"requested_modes"`
	PerStrategyTimeoutMs int      `json:"per_strategy_timeout_ms,omitempty"`
}

package models

// RequestIdentifier is a parsed mockup request: <templateIdentifier>-<designNumber>.<ext>
type RequestIdentifier struct {
	TemplateID   string `json:"templateId"`
	DesignNumber string `json:"designNumber"`
	Extension    string `json:"extension"`
}

// CompositeResult is the outcome of a generate call. It always carries a valid image.
type CompositeResult struct {
	Data        []byte
	ContentType string
	CacheHit    bool
	Fallback    bool
	Reason      string
}

// BustScope selects which composites a cache bust removes
type BustScope string

const (
	BustSingleTemplate BustScope = "single-template"
	BustAllTemplates   BustScope = "all-templates"
)

// BustResult reports the outcome of a cache bust
type BustResult struct {
	DesignNumber string    `json:"designNumber"`
	Scope        BustScope `json:"scope"`
	Removed      int       `json:"removed"`
	Failed       int       `json:"failed"`
	Errors       []string  `json:"errors,omitempty"`
}

// WarmResult reports the outcome of pre-generating a design on every template
type WarmResult struct {
	DesignNumber string   `json:"designNumber"`
	Total        int      `json:"total"`
	Generated    int      `json:"generated"`
	Skipped      int      `json:"skipped"`
	Errors       []string `json:"errors,omitempty"`
}

package models

import "image"

// DesignAsset is a raw design image as delivered by the design source
type DesignAsset struct {
	Number string
	Data   []byte
	Width  int
	Height int
}

// ExtractedDesign is the trimmed visible content of a design asset, upright
type ExtractedDesign struct {
	Image  *image.NRGBA
	Width  int
	Height int
}

package models

import "errors"

var (
	ErrClassificationAmbiguous = errors.New("template identifier did not match any product type")
	ErrAssetFetchFailed        = errors.New("design asset fetch failed")
	ErrExtractionFailed        = errors.New("design extraction failed")
	ErrCompositionFailed       = errors.New("composition failed")
	ErrGenerationTimeout       = errors.New("generation timed out")
	ErrMalformedRequest        = errors.New("malformed request identifier")
	ErrArtifactNotFound        = errors.New("artifact not found")
	ErrInvalidPlacement        = errors.New("invalid placement spec")
)

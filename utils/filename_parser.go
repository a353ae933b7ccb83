package utils

import (
	"fmt"
	"strings"

	"armario-mascota-mockups/models"
)

const identifierSeparator = "-"

// ParseRequestIdentifier parses a mockup request following the pattern:
// TEMPLATEIDENTIFIER-DESIGNNUMBER.EXT
// Example: hoodie-black-4001.png
//
// The template identifier may itself contain one hyphen (garment-colorway), so the
// stem is split at the second hyphen. A stem with a single hyphen is split at it.
// A stem without hyphens is rejected, and so is a design number that is not all digits.
// Template identifiers are case-insensitive and returned lower-cased.
func ParseRequestIdentifier(request string) (*models.RequestIdentifier, error) {
	request = strings.TrimSpace(request)

	dot := strings.LastIndex(request, ".")
	if dot <= 0 || dot == len(request)-1 {
		return nil, fmt.Errorf("%w: expected TEMPLATE-DESIGN.EXT, got %q", models.ErrMalformedRequest, request)
	}
	stem := request[:dot]
	ext := strings.ToLower(request[dot+1:])

	if _, ok := MapExtensionToFormat(ext); !ok {
		return nil, fmt.Errorf("%w: unsupported extension %q", models.ErrMalformedRequest, ext)
	}

	split := splitIndex(stem)
	if split < 0 {
		return nil, fmt.Errorf("%w: no %q separator in %q", models.ErrMalformedRequest, identifierSeparator, stem)
	}

	templateID := strings.ToLower(stem[:split])
	designNumber := stem[split+len(identifierSeparator):]

	if templateID == "" {
		return nil, fmt.Errorf("%w: empty template identifier in %q", models.ErrMalformedRequest, request)
	}
	if err := ValidateDesignNumber(designNumber); err != nil {
		return nil, err
	}

	return &models.RequestIdentifier{
		TemplateID:   templateID,
		DesignNumber: designNumber,
		Extension:    ext,
	}, nil
}

// ValidateDesignNumber checks that designNumber is a non-empty run of ASCII digits
func ValidateDesignNumber(designNumber string) error {
	if !isDigits(designNumber) {
		return fmt.Errorf("%w: design number %q is not numeric", models.ErrMalformedRequest, designNumber)
	}
	return nil
}

// FormatRequestIdentifier is the inverse of ParseRequestIdentifier
func FormatRequestIdentifier(id models.RequestIdentifier) string {
	return id.TemplateID + identifierSeparator + id.DesignNumber + "." + id.Extension
}

// splitIndex returns the index of the second separator, or of the only one
func splitIndex(stem string) int {
	first := strings.Index(stem, identifierSeparator)
	if first < 0 {
		return -1
	}
	rest := stem[first+len(identifierSeparator):]
	second := strings.Index(rest, identifierSeparator)
	if second < 0 {
		return first
	}
	return first + len(identifierSeparator) + second
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

package sync

import (
	"regexp"
	"strings"
)

// LineItemSize is Printavo's fixed size enumeration for quote line items.
type LineItemSize string

const (
	SizeOSFA  LineItemSize = "OSFA"
	SizeXXXXS LineItemSize = "XXXXS"
	SizeXXXS  LineItemSize = "XXXS"
	SizeXXS   LineItemSize = "XXS"
	SizeXS    LineItemSize = "XS"
	SizeS     LineItemSize = "S"
	SizeM     LineItemSize = "M"
	SizeL     LineItemSize = "L"
	SizeXL    LineItemSize = "XL"
	SizeXXL   LineItemSize = "XXL"
	SizeXXXL  LineItemSize = "XXXL"
	SizeXXXXL LineItemSize = "XXXXL"
	Size5XL   LineItemSize = "XXXXXL"
	Size2T    LineItemSize = "_2T"
	Size3T    LineItemSize = "_3T"
	Size4T    LineItemSize = "_4T"
	Size5T    LineItemSize = "_5T"
	Size6     LineItemSize = "_6"
	Size8     LineItemSize = "_8"
	Size10    LineItemSize = "_10"
	Size12    LineItemSize = "_12"
	Size14    LineItemSize = "_14"
	Size16    LineItemSize = "_16"
	Size18    LineItemSize = "_18"
	SizeYthS  LineItemSize = "YOUTH_S"
	SizeYthM  LineItemSize = "YOUTH_M"
	SizeYthL  LineItemSize = "YOUTH_L"
	SizeYthXL LineItemSize = "YOUTH_XL"
)

// directSizes maps case-folded, alnum-only tokens straight to the enum.
var directSizes = map[string]LineItemSize{
	"OSFA":    SizeOSFA,
	"ONESIZE": SizeOSFA,
	"OS":      SizeOSFA,
	"XXXXS":   SizeXXXXS,
	"XXXS":    SizeXXXS,
	"XXS":     SizeXXS,
	"XS":      SizeXS,
	"S":       SizeS,
	"SMALL":   SizeS,
	"M":       SizeM,
	"MEDIUM":  SizeM,
	"L":       SizeL,
	"LARGE":   SizeL,
	"XL":      SizeXL,
	"XXL":     SizeXXL,
	"2XL":     SizeXXL,
	"XXXL":    SizeXXXL,
	"3XL":     SizeXXXL,
	"XXXXL":   SizeXXXXL,
	"4XL":     SizeXXXXL,
	"XXXXXL":  Size5XL,
	"5XL":     Size5XL,
}

var toddlerSizes = map[string]LineItemSize{
	"2T": Size2T,
	"3T": Size3T,
	"4T": Size4T,
	"5T": Size5T,
}

var numericSizes = map[string]LineItemSize{
	"6":  Size6,
	"8":  Size8,
	"10": Size10,
	"12": Size12,
	"14": Size14,
	"16": Size16,
	"18": Size18,
}

var nonAlnum = regexp.MustCompile(`[^A-Z0-9]`)

// NormalizeSize maps a raw size token to the Printavo enum. The second
// return value reports whether the token actually matched; unmatched
// tokens deliberately fall back to medium instead of failing, and callers
// surface that as a low-confidence mapping rather than an error.
func NormalizeSize(raw string) (LineItemSize, bool) {
	normalized := nonAlnum.ReplaceAllString(strings.ToUpper(strings.TrimSpace(raw)), "")

	if size, ok := directSizes[normalized]; ok {
		return size, true
	}

	if strings.Contains(normalized, "YOUTH") {
		switch {
		case strings.Contains(normalized, "S"):
			return SizeYthS, true
		case strings.Contains(normalized, "M"):
			return SizeYthM, true
		case strings.Contains(normalized, "L") && !strings.Contains(normalized, "XL"):
			return SizeYthL, true
		case strings.Contains(normalized, "XL"):
			return SizeYthXL, true
		}
	}

	if size, ok := toddlerSizes[normalized]; ok {
		return size, true
	}
	if size, ok := numericSizes[normalized]; ok {
		return size, true
	}

	return SizeM, false
}

// Size pattern heuristics for variant title segments. Variant titles look
// like "Large / Red" or "Red / Youth M"; the segment matching one of these
// is taken as the size.
var (
	alphaSizePattern   = regexp.MustCompile(`(?i)^(XXX?X?S|XX?X?X?L|[SMLX]+|SMALL|MEDIUM|LARGE)$`)
	numericSizePattern = regexp.MustCompile(`^\d+T?$`)
)

// ExtractSize derives the raw size token for a line item: first from the
// variant title split on "/", then from a property whose name contains
// "size". When nothing matches it returns "M", which NormalizeSize will
// report as an inexact mapping.
func ExtractSize(item *LineItem) string {
	if item.VariantTitle != "" {
		parts := strings.Split(item.VariantTitle, "/")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		for _, part := range parts {
			upper := strings.ToUpper(part)
			if alphaSizePattern.MatchString(upper) ||
				numericSizePattern.MatchString(upper) ||
				strings.Contains(upper, "YOUTH") ||
				strings.Contains(upper, "ONE SIZE") ||
				upper == "OS" || upper == "OSFA" {
				return part
			}
		}

		// No segment looks like a size; by convention the size option
		// comes first on apparel products.
		if len(parts) > 0 && parts[0] != "" {
			return parts[0]
		}
	}

	for _, prop := range item.Properties {
		if strings.Contains(strings.ToLower(prop.Name), "size") && prop.Value != "" {
			return prop.Value
		}
	}

	return "M"
}

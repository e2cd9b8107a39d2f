package document

import (
	"fmt"
	"math"
	"strings"
)

// NormalizeType coerces a raw type value into a known DocumentType.
func NormalizeType(raw DocumentType) (DocumentType, error) {
	normalized := DocumentType(strings.ToLower(strings.TrimSpace(string(raw))))
	switch normalized {
	case TypePriceList, TypeInvoice, TypeContract:
		return normalized, nil
	case "price_list", "price-list":
		return TypePriceList, nil
	case "":
		return "", NewError(KindUnsupportedType, "document type is required", nil)
	default:
		return "", NewError(KindUnsupportedType, fmt.Sprintf("unsupported document type: %s", raw), nil)
	}
}

// ValidateRequest checks the request and returns a copy with the type
// normalized.
func ValidateRequest(req DocumentRequest) (DocumentRequest, error) {
	docType, err := NormalizeType(req.Type)
	if err != nil {
		return DocumentRequest{}, err
	}
	req.Type = docType

	for idx, item := range req.Items {
		if invalidAmount(item.Price) {
			return DocumentRequest{}, NewError(KindInvalidRequest, fmt.Sprintf("item %d: price must be a non-negative number", idx+1), nil)
		}
		if item.Quantity != nil && invalidAmount(*item.Quantity) {
			return DocumentRequest{}, NewError(KindInvalidRequest, fmt.Sprintf("item %d: quantity must be a non-negative number", idx+1), nil)
		}
	}
	return req, nil
}

func invalidAmount(value float64) bool {
	return value < 0 || math.IsNaN(value) || math.IsInf(value, 0)
}

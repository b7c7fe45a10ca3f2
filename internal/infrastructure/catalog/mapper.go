package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gowaffles/assistant/internal/domain"
)

// menuDocument is the envelope of the Justo menu document
type menuDocument struct {
	Data *struct {
		Products json.RawMessage `json:"products"`
	} `json:"data"`
}

// rawProduct is one value of the data.products mapping
type rawProduct struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	AvailabilityAt *struct {
		FinalPrice json.RawMessage `json:"finalPrice"`
		BasePrice  json.RawMessage `json:"basePrice"`
	} `json:"availabilityAt"`
}

// DecodeMenu extracts the products of a menu document in document order
func DecodeMenu(body []byte) ([]domain.CatalogEntry, error) {
	var doc menuDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	if doc.Data == nil {
		return nil, errors.New("missing data")
	}
	raw := bytes.TrimSpace(doc.Data.Products)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, errors.New("missing data.products")
	}

	// products is an object keyed by id; a token decoder keeps key order
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("data.products must be an object, got %v", tok)
	}

	var entries []domain.CatalogEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		id, _ := keyTok.(string)

		var p rawProduct
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("product %q: %w", id, err)
		}
		entries = append(entries, mapToCatalogEntry(id, &p))
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return entries, nil
}

// mapToCatalogEntry converts one raw product into a domain entry
func mapToCatalogEntry(id string, p *rawProduct) domain.CatalogEntry {
	var candidates []json.RawMessage
	if p.AvailabilityAt != nil {
		candidates = append(candidates, p.AvailabilityAt.FinalPrice, p.AvailabilityAt.BasePrice)
	}

	return domain.CatalogEntry{
		ID:          id,
		Name:        p.Name,
		Description: p.Description,
		Price:       ResolvePrice(candidates...),
	}
}

// ResolvePrice picks the first candidate holding a non-zero number or a
// numeric string, truncated to an integer. When none is numeric the price
// stays unresolved with the first non-empty string, or the default marker.
func ResolvePrice(candidates ...json.RawMessage) domain.Price {
	marker := ""
	for _, raw := range candidates {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			continue
		}

		switch raw[0] {
		case '"':
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				continue
			}
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			if amount, ok := parseAmount(s); ok {
				return domain.ResolvedPrice(amount)
			}
			if marker == "" {
				marker = s
			}
		default:
			var f float64
			if err := json.Unmarshal(raw, &f); err != nil {
				continue
			}
			if amount, ok := truncateAmount(f); ok {
				return domain.ResolvedPrice(amount)
			}
		}
	}

	if marker == "" {
		marker = domain.UnresolvedPriceMarker
	}
	return domain.UnresolvedPrice(marker)
}

func parseAmount(s string) (int, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return truncateAmount(f)
}

// truncateAmount rejects zero, NaN and out-of-range values
func truncateAmount(f float64) (int, bool) {
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

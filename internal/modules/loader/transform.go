package loader

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/georgemunganga/po-storefront/internal/modules/catalog"
)

// Recognized config keys.
const (
	KeyCloseDate    = "closeDate"
	KeyDeliveryText = "deliveryText"
	KeyAdminContact = "waAdmin"
)

var closeDateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseLeadingInt reads an optionally signed run of leading digits after
// whitespace, ignoring whatever follows ("12 pcs" -> 12). ok is false when no
// digit was found.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// TransformProducts converts provider rows into products. Non-numeric price
// or stock does not reject the row; it marks the product malformed. Rows
// without a numeric id cannot be addressed by a cart and are dropped.
func TransformProducts(rows []MenuRow, logger *zap.Logger) []catalog.Product {
	if logger == nil {
		logger = zap.NewNop()
	}
	products := make([]catalog.Product, 0, len(rows))
	for i, row := range rows {
		id, ok := parseLeadingInt(row.ID.String())
		if !ok {
			logger.Warn("Dropping menu row without numeric id", zap.Int("row", i), zap.String("id", row.ID.String()))
			continue
		}
		price, priceOK := parseLeadingInt(row.Price.String())
		stock, stockOK := parseLeadingInt(row.Stok.String())
		if !priceOK || !stockOK {
			logger.Warn("Menu row has non-numeric fields",
				zap.Int("id", id),
				zap.String("price", row.Price.String()),
				zap.String("stok", row.Stok.String()))
		}
		products = append(products, catalog.Product{
			ID:          id,
			Name:        row.Name.String(),
			Price:       price,
			Image:       row.Img.String(),
			Description: row.Desc.String(),
			Stock:       stock,
			Category:    row.Category.String(),
			Malformed:   !priceOK || !stockOK,
		})
	}
	return products
}

// NormalizeCloseDate turns "2025-12-30 23:59:00" into "2025-12-30T23:59:00".
func NormalizeCloseDate(v string) string {
	return strings.Replace(strings.TrimSpace(v), " ", "T", 1)
}

// ParseCloseDate parses a normalized close date in loc. Values carrying
// their own offset (RFC 3339) keep it.
func ParseCloseDate(v string, loc *time.Location) (time.Time, error) {
	v = NormalizeCloseDate(v)
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	for _, layout := range closeDateLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized close date %q", v)
}

// TransformConfig folds key/value rows into a patch. A close date that cannot
// be parsed is left out of the patch and reported through err; the other
// fields are still returned.
func TransformConfig(rows []ConfigRow, loc *time.Location) (catalog.ConfigPatch, error) {
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[strings.TrimSpace(row.Key.String())] = strings.TrimSpace(row.Value.String())
	}

	patch := catalog.ConfigPatch{
		DeliveryNotice: values[KeyDeliveryText],
		AdminContact:   values[KeyAdminContact],
	}
	var err error
	if raw := values[KeyCloseDate]; raw != "" {
		patch.CloseDate, err = ParseCloseDate(raw, loc)
	}
	return patch, err
}

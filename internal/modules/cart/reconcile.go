package cart

import (
	"fmt"

	"github.com/georgemunganga/po-storefront/internal/modules/catalog"
)

// Policy decides what happens to lines whose product vanished or changed
// price after a catalog reload.
type Policy string

const (
	// PolicyNone keeps lines exactly as added.
	PolicyNone Policy = "none"
	// PolicyFlag keeps lines but marks orphaned and repriced ones on read.
	PolicyFlag Policy = "flag"
	// PolicyPrune drops orphaned lines and refreshes name and price snapshots.
	PolicyPrune Policy = "prune"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyNone:
		return PolicyNone, nil
	case PolicyFlag, PolicyPrune:
		return Policy(s), nil
	}
	return "", fmt.Errorf("unknown reconcile policy %q", s)
}

// ProductLookup resolves products in the current catalog generation.
type ProductLookup interface {
	Product(id int) (catalog.Product, bool)
}

func views(lines []Line, products ProductLookup, policy Policy) []LineView {
	out := make([]LineView, 0, len(lines))
	for _, l := range lines {
		v := LineView{Line: l, LineTotal: l.Total()}
		if policy == PolicyFlag {
			p, ok := products.Product(l.ProductID)
			switch {
			case !ok:
				v.Orphaned = true
			case p.Price != l.UnitPrice:
				v.PriceChanged = true
				v.CurrentPrice = p.Price
			}
		}
		out = append(out, v)
	}
	return out
}

// prune returns the lines rewritten against the current catalog and whether
// anything changed.
func prune(lines []Line, products ProductLookup) ([]Line, bool) {
	changed := false
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		p, ok := products.Product(l.ProductID)
		if !ok {
			changed = true
			continue
		}
		if p.Price != l.UnitPrice || p.Name != l.Name {
			l.UnitPrice = p.Price
			l.Name = p.Name
			changed = true
		}
		out = append(out, l)
	}
	return out, changed
}

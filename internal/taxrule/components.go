package taxrule

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"crossquote/internal/domain"
)

// UnsupportedNoticeName is the component name disclosed for destinations without tax configuration.
const UnsupportedNoticeName = "International duties and taxes may apply"

func unsupportedNotice() domain.TaxComponent {
	return domain.TaxComponent{
		Name:        UnsupportedNoticeName,
		Type:        domain.TaxTypeNotice,
		Rate:        decimal.Zero,
		Amount:      decimal.Zero,
		Description: "No tax rules are configured for this destination; duties and taxes are collected on delivery",
	}
}

type rateGroup struct {
	rate   decimal.Decimal
	amount decimal.Decimal
	base   decimal.Decimal
}

// groupByRate sums amounts per distinct rate, ordered by ascending rate.
func groupByRate(lines []domain.TaxBreakdown, rate, amount func(*domain.TaxBreakdown) decimal.Decimal) []rateGroup {
	idx := map[string]int{}
	var groups []rateGroup
	for i := range lines {
		l := &lines[i]
		r := rate(l)
		key := r.StringFixed(6)
		pos, ok := idx[key]
		if !ok {
			pos = len(groups)
			idx[key] = pos
			groups = append(groups, rateGroup{rate: r, amount: decimal.Zero, base: decimal.Zero})
		}
		groups[pos].amount = groups[pos].amount.Add(amount(l))
		groups[pos].base = groups[pos].base.Add(l.TaxableBase)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].rate.LessThan(groups[j].rate) })
	return groups
}

// buildComponents renders the order as named components: duty groups first,
// then consumption tax groups, each grouped by rate.
func buildComponents(j *domain.Jurisdiction, lines []domain.TaxBreakdown, order *domain.TaxBreakdown, g *Gate) []domain.TaxComponent {
	out := []domain.TaxComponent{}

	if g.DutyWaived {
		out = append(out, domain.TaxComponent{
			Name:           "Import Duty",
			Type:           domain.TaxTypeDuty,
			Rate:           decimal.Zero,
			Amount:         decimal.Zero,
			Description:    fmt.Sprintf("Duty waived (%s) for order value %s %s", g.Exemptions[0], order.TaxableBase.StringFixed(2), order.Currency),
			LowValueScheme: g.LowValueScheme,
		})
	} else {
		for _, grp := range groupByRate(lines,
			func(l *domain.TaxBreakdown) decimal.Decimal { return l.DutyRate },
			func(l *domain.TaxBreakdown) decimal.Decimal { return l.Duty },
		) {
			out = append(out, domain.TaxComponent{
				Name:        "Import Duty",
				Type:        domain.TaxTypeDuty,
				Rate:        grp.rate,
				Amount:      grp.amount,
				Description: fmt.Sprintf("Import duty at %s on %s %s", percent(grp.rate), grp.base.StringFixed(2), order.Currency),
			})
		}
	}

	if g.VATWaived {
		return append(out, domain.TaxComponent{
			Name:        j.TaxName,
			Type:        domain.TaxTypeVAT,
			Rate:        decimal.Zero,
			Amount:      decimal.Zero,
			Description: fmt.Sprintf("%s waived below the %s import threshold", j.TaxName, j.Name),
		})
	}

	for _, grp := range groupByRate(lines,
		func(l *domain.TaxBreakdown) decimal.Decimal { return l.VATRate },
		func(l *domain.TaxBreakdown) decimal.Decimal { return l.VAT },
	) {
		if grp.rate.IsZero() && grp.amount.IsZero() {
			continue
		}
		c := domain.TaxComponent{
			Name:           j.TaxName,
			Type:           domain.TaxTypeVAT,
			Rate:           grp.rate,
			Amount:         grp.amount,
			LowValueScheme: g.LowValueScheme,
			Included:       g.LowValueScheme,
		}
		switch {
		case g.LowValueScheme:
			c.Description = fmt.Sprintf("%s at %s collected at checkout under %s; not charged again on import",
				j.TaxName, percent(grp.rate), j.LowValueScheme.Name)
		case j.VATOnDutyInclusive:
			c.Description = fmt.Sprintf("%s at %s on duty-inclusive value", j.TaxName, percent(grp.rate))
		default:
			c.Description = fmt.Sprintf("%s at %s on goods value", j.TaxName, percent(grp.rate))
		}
		out = append(out, c)
	}
	return out
}

func percent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

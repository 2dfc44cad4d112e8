package domain

// Commission is the monetary breakdown computed when a record enters a
// financially-closing state.
type Commission struct {
	// FinalPrice is the resolved effective price; it is written back to the
	// record since the caller may supply it at closing time.
	FinalPrice   float64
	Amount       float64
	AgentShare   float64
	CompanyShare float64
}

// CommissionFor resolves the effective final price and rates and computes
// the commission split. The resolution order is: request override, then the
// record's stored value, then (for rates) the descriptor default; for the
// price the record fallback chain is final, offer, asking.
//
// Returns ok=false when no strictly positive price resolves. That is not an
// error: a record may close with an unknown price and be corrected later.
func CommissionFor(desc ResourceDescriptor, req UpdateRequest, record Record) (Commission, bool) {
	price := resolve(req.FinalPrice, record.FinalPrice, record.OfferPrice, record.AskingPrice)
	if price == nil || *price <= 0 {
		return Commission{}, false
	}

	rate := desc.DefaultCommissionRate
	if r := resolve(req.CommissionRate, record.CommissionRate); r != nil {
		rate = *r
	}
	agentRate := desc.DefaultAgentShareRate
	if r := resolve(req.AgentShareRate, record.AgentShareRate); r != nil {
		agentRate = *r
	}

	amount := *price * (rate / 100)
	agentShare := amount * (agentRate / 100)

	return Commission{
		FinalPrice: *price,
		Amount:     amount,
		AgentShare: agentShare,
		// Always the remainder, never independently computed, so the split
		// sums to the commission exactly.
		CompanyShare: amount - agentShare,
	}, true
}

// resolve returns the first non-nil candidate.
func resolve(candidates ...*float64) *float64 {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}

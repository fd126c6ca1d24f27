package models

// CustomerProfile is a customer's stored interests, past purchases and
// recommendation history. Name is the store key.
type CustomerProfile struct {
	Name            string   `json:"name"`
	PastPurchases   []string `json:"past_purchases"`
	Interests       []string `json:"interests"`
	Recommendations []string `json:"recommendations"`
}

// Clone returns a deep copy so callers never share slices with the store.
func (p CustomerProfile) Clone() CustomerProfile {
	return CustomerProfile{
		Name:            p.Name,
		PastPurchases:   cloneStrings(p.PastPurchases),
		Interests:       cloneStrings(p.Interests),
		Recommendations: cloneStrings(p.Recommendations),
	}
}

// HasInterest reports whether interest is present (exact, case-sensitive).
func (p CustomerProfile) HasInterest(interest string) bool {
	for _, existing := range p.Interests {
		if existing == interest {
			return true
		}
	}
	return false
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

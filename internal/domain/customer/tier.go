package customer

// Tier is the engagement classification of a customer.
type Tier string

const (
	TierLead   Tier = "Lead"
	TierActive Tier = "Active"
	TierVIP    Tier = "VIP"
)

const (
	vipThreshold    = 10
	activeThreshold = 5
	orderWeight     = 2
)

// Points is the lead score: every order counts twice, every message once.
func Points(orders, messages int64) int64 {
	return orderWeight*orders + messages
}

// TierFor classifies a customer from its order and message counts.
func TierFor(orders, messages int64) Tier {
	switch p := Points(orders, messages); {
	case p >= vipThreshold:
		return TierVIP
	case p >= activeThreshold:
		return TierActive
	default:
		return TierLead
	}
}

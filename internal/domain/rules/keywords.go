package rules

// defaultScamKeywords returns the built-in weighted scam keyword table.
// Order is significant: signals and reasons follow catalog order.
func defaultScamKeywords() []WeightedKeyword {
	return []WeightedKeyword{
		// Urgency & authority
		{"urgent", 2},
		{"immediate", 2},
		{"action required", 3},
		{"account suspended", 4},
		{"verify your account", 3},
		{"kyc", 3},
		{"otp", 6},
		{"one time password", 6},
		{"account locked", 4},
		{"suspended", 3},
		{"blocked", 3},
		{"expired", 2},
		{"deadline", 2},
		{"last chance", 3},
		{"final notice", 3},
		{"security alert", 3},
		{"unusual activity", 3},
		{"account compromised", 4},
		{"suspicious login", 3},

		// Financial & prizes
		{"lottery", 3},
		{"won", 2},
		{"prize", 3},
		{"free gift", 2},
		{"cash prize", 3},
		{"refund", 2},
		{"delivery fee", 4},
		{"shipping fee", 4},
		{"customs fee", 4},
		{"release parcel", 4},
		{"crypto", 2},
		{"airdrop", 2},
		{"investment", 2},
		{"guaranteed return", 3},
		{"congratulations", 2},
		{"winner", 2},
		{"claim now", 3},
		{"limited time", 2},
		{"exclusive offer", 2},
		{"claim your reward", 3},
		{"cash bonus", 3},
		{"inheritance", 3},
		{"tax refund", 3},

		// Job scams
		{"job offer", 2},
		{"work from home", 1},
		{"guaranteed income", 3},
		{"easy money", 3},
		{"part time", 1},
		{"data entry", 1},
		{"online work", 1},
		{"earn money", 2},
		{"hiring now", 1},
		{"no experience required", 2},
		{"quick cash", 3},

		// Suspicious actions
		{"click this link", 3},
		{"download this app", 3},
		{"update your details", 4},
		{"confirm your identity", 4},
		{"share your", 4},
		{"send your", 4},
		{"provide your", 4},
		{"enter your", 4},
		{"verify now", 5},
		{"activate now", 4},
		{"unlock now", 4},
		{"account details", 5},
		{"secure your account", 4},
		{"update your payment", 4},
		{"personal details", 5},
		{"bank details", 6},
		{"card details", 6},
		{"password", 4},
		{"login details", 5},

		// Banking & financial
		{"bank account", 2},
		{"credit card", 2},
		{"debit card", 2},
		{"atm", 2},
		{"pin", 3},
		{"cvv", 4},
		{"card number", 4},
		{"account number", 3},
		{"routing number", 3},
		{"ifsc", 2},
		{"aadhaar", 3},
		{"passport", 2},

		// Social engineering
		{"trust me", 1},
		{"don't tell anyone", 2},
		{"keep this secret", 2},
		{"confidential", 1},
		{"private", 1},
		{"exclusive", 1},
		{"special", 1},
		{"limited", 1},
		{"today only", 2},
		{"act fast", 2},
		{"hurry", 2},

		// Tech support scams
		{"virus detected", 4},
		{"malware alert", 4},
		{"tech support", 3},
		{"remote access", 4},
		{"computer infected", 4},
		{"your pc is at risk", 4},

		// Impersonation lures
		{"account verification", 3},
		{"security verification", 3},
		{"login verification", 3},
		{"identity verification", 4},
		{"suspicious activity", 3},
		{"unusual login", 3},
		{"account restricted", 3},
		{"security breach", 4},
		{"data breach", 4},
		{"account hacked", 4},
		{"password compromised", 4},
	}
}

// defaultSafeKeywords returns keywords that indicate legitimate context and
// reduce the risk score. Weights are negative.
func defaultSafeKeywords() []WeightedKeyword {
	return []WeightedKeyword{
		// E-commerce & delivery
		{"myntra", -7},
		{"flipkart", -7},
		{"amazon", -7},
		{"zomato", -7},
		{"swiggy", -7},
		{"your order", -4},
		{"order number", -5},
		{"tracking id", -5},
		{"delivery executive", -5},

		// Banking (official communication)
		{"hdfc bank", -7},
		{"icici bank", -7},
		{"sbi", -7},
		{"state bank of india", -7},
		{"transaction alert", -3},
		{"do not share", -2}, // often included with legitimate OTPs

		// University & academic context
		{"university", -3},
		{"exam", -2},
		{"semester", -2},
		{"timetable", -2},
		{"assignment", -2},
		{"fee payment", -2},
		{"office", -1},
		{"email", -1},
		{"call", -1},
	}
}

// defaultSemanticFamilies returns the phrase families counted during
// semantic analysis. Each family emits at most one signal, weighted by
// the number of distinct phrases found.
func defaultSemanticFamilies() []SemanticFamily {
	return []SemanticFamily{
		{
			Name:    "Urgency pressure",
			Phrases: []string{"act now", "immediate action", "time sensitive", "deadline", "expires soon"},
			Weight:  2,
		},
		{
			Name:    "Authority imitation",
			Phrases: []string{"official notice", "security alert", "account services", "verification required"},
			Weight:  3,
		},
		{
			Name:    "Personal information request",
			Phrases: []string{"send your", "provide your", "share your", "enter your", "confirm your"},
			Weight:  4,
		},
	}
}

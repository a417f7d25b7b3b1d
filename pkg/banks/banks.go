package banks

import "strings"

// Type classifies a payout destination.
type Type string

const (
	TypeBank         Type = "bank"
	TypeDigital      Type = "digital"
	TypeWallet       Type = "wallet"
	TypeMicrofinance Type = "microfinance"
)

// Bank is a Nigerian bank or mobile wallet that can receive a Naira payout.
type Bank struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type Type   `json:"type"`
	// Code is the CBN/NIP institution code.
	Code string `json:"code"`
}

// directory is the static list of supported payout destinations.
var directory = []Bank{
	// Traditional banks
	{ID: "access", Name: "Access Bank", Type: TypeBank, Code: "044"},
	{ID: "gtb", Name: "Guaranty Trust Bank (GTB)", Type: TypeBank, Code: "058"},
	{ID: "zenith", Name: "Zenith Bank", Type: TypeBank, Code: "057"},
	{ID: "uba", Name: "United Bank of Africa (UBA)", Type: TypeBank, Code: "033"},
	{ID: "firstbank", Name: "First Bank of Nigeria", Type: TypeBank, Code: "011"},
	{ID: "fidelity", Name: "Fidelity Bank", Type: TypeBank, Code: "070"},
	{ID: "sterling", Name: "Sterling Bank", Type: TypeBank, Code: "232"},
	{ID: "union", Name: "Union Bank of Nigeria", Type: TypeBank, Code: "032"},
	{ID: "fcmb", Name: "First City Monument Bank (FCMB)", Type: TypeBank, Code: "214"},
	{ID: "ecobank", Name: "Ecobank Nigeria", Type: TypeBank, Code: "050"},
	{ID: "stanbic", Name: "Stanbic IBTC Bank", Type: TypeBank, Code: "221"},
	{ID: "standard", Name: "Standard Chartered Bank", Type: TypeBank, Code: "068"},
	{ID: "citibank", Name: "Citibank Nigeria", Type: TypeBank, Code: "023"},
	{ID: "heritage", Name: "Heritage Bank", Type: TypeBank, Code: "030"},
	{ID: "keystone", Name: "Keystone Bank", Type: TypeBank, Code: "082"},
	{ID: "polaris", Name: "Polaris Bank", Type: TypeBank, Code: "076"},
	{ID: "wema", Name: "Wema Bank", Type: TypeBank, Code: "035"},
	{ID: "unity", Name: "Unity Bank", Type: TypeBank, Code: "215"},
	{ID: "suntrust", Name: "SunTrust Bank", Type: TypeBank, Code: "100"},

	// Digital / new generation banks
	{ID: "kuda", Name: "Kuda Bank", Type: TypeDigital, Code: "50211"},
	{ID: "vfd", Name: "VFD Microfinance Bank", Type: TypeDigital, Code: "566"},
	{ID: "carbon", Name: "Carbon (Formerly One Finance)", Type: TypeDigital, Code: "565"},
	{ID: "rubies", Name: "Rubies Bank", Type: TypeDigital, Code: "125"},
	{ID: "sparkle", Name: "Sparkle Microfinance Bank", Type: TypeDigital, Code: "51310"},
	{ID: "mint", Name: "Mint MFB", Type: TypeDigital, Code: "50304"},
	{ID: "parallex", Name: "Parallex Bank", Type: TypeDigital, Code: "104"},
	{ID: "titan", Name: "Titan Trust Bank", Type: TypeDigital, Code: "102"},
	{ID: "providus", Name: "Providus Bank", Type: TypeDigital, Code: "101"},
	{ID: "globus", Name: "Globus Bank", Type: TypeDigital, Code: "103"},
	{ID: "premium", Name: "PremiumTrust Bank", Type: TypeDigital, Code: "105"},
	{ID: "lotus", Name: "Lotus Bank", Type: TypeDigital, Code: "304"},
	{ID: "taj", Name: "TAJ Bank", Type: TypeDigital, Code: "302"},
	{ID: "jaiz", Name: "Jaiz Bank", Type: TypeDigital, Code: "301"},

	// Mobile wallets and fintech
	{ID: "opay", Name: "OPay", Type: TypeWallet, Code: "999992"},
	{ID: "palmpay", Name: "PalmPay", Type: TypeWallet, Code: "999991"},
	{ID: "kuda_wallet", Name: "Kuda Wallet", Type: TypeWallet, Code: "50211"},
	{ID: "piggyvest", Name: "PiggyVest", Type: TypeWallet, Code: "50305"},
	{ID: "cowrywise", Name: "Cowrywise", Type: TypeWallet, Code: "50207"},
	{ID: "carbon_wallet", Name: "Carbon Wallet", Type: TypeWallet, Code: "565"},
	{ID: "fairmoney", Name: "FairMoney", Type: TypeWallet, Code: "51318"},
	{ID: "renmoney", Name: "Renmoney", Type: TypeWallet, Code: "50203"},
	{ID: "mtn_momo", Name: "MTN Mobile Money", Type: TypeWallet, Code: "120001"},
	{ID: "airtel_money", Name: "Airtel Money", Type: TypeWallet, Code: "120002"},
	{ID: "paga", Name: "Paga", Type: TypeWallet, Code: "327"},
	{ID: "quickteller", Name: "Quickteller Wallet", Type: TypeWallet, Code: "51211"},
	{ID: "eyowo", Name: "Eyowo", Type: TypeWallet, Code: "50126"},
	{ID: "gomoney", Name: "GoMoney", Type: TypeWallet, Code: "100022"},
	{ID: "alat", Name: "ALAT by Wema", Type: TypeWallet, Code: "035A"},
	{ID: "v_bank", Name: "V Bank", Type: TypeWallet, Code: "51229"},
	{ID: "moniepoint", Name: "Moniepoint", Type: TypeWallet, Code: "50515"},
	{ID: "flutterwave", Name: "Flutterwave Barter", Type: TypeWallet, Code: "FLW"},
	{ID: "paystack", Name: "Paystack", Type: TypeWallet, Code: "PSK"},

	// Microfinance banks
	{ID: "lapo", Name: "LAPO Microfinance Bank", Type: TypeMicrofinance, Code: "50563"},
	{ID: "accion", Name: "Accion Microfinance Bank", Type: TypeMicrofinance, Code: "602"},
	{ID: "ab_microfinance", Name: "AB Microfinance Bank", Type: TypeMicrofinance, Code: "51204"},
	{ID: "aella", Name: "Aella Credit", Type: TypeMicrofinance, Code: "51311"},
	{ID: "bowen", Name: "Bowen Microfinance Bank", Type: TypeMicrofinance, Code: "50931"},
	{ID: "hasal", Name: "Hasal Microfinance Bank", Type: TypeMicrofinance, Code: "50383"},
	{ID: "ibile", Name: "Ibile Microfinance Bank", Type: TypeMicrofinance, Code: "51244"},
	{ID: "infinity", Name: "Infinity Microfinance Bank", Type: TypeMicrofinance, Code: "50457"},
	{ID: "npf", Name: "NPF Microfinance Bank", Type: TypeMicrofinance, Code: "50629"},
	{ID: "peace", Name: "Peace Microfinance Bank", Type: TypeMicrofinance, Code: "50743"},
	{ID: "safe_haven", Name: "Safe Haven MFB", Type: TypeMicrofinance, Code: "51113"},
	{ID: "stanford", Name: "Stanford Microfinance Bank", Type: TypeMicrofinance, Code: "50801"},
	{ID: "trust", Name: "Trust Microfinance Bank", Type: TypeMicrofinance, Code: "51269"},
}

// All returns the full directory. The returned slice is a copy.
func All() []Bank {
	out := make([]Bank, len(directory))
	copy(out, directory)
	return out
}

// Lookup returns the bank with the given id.
func Lookup(id string) (Bank, bool) {
	for _, b := range directory {
		if b.ID == id {
			return b, true
		}
	}
	return Bank{}, false
}

// Search returns banks whose name or type contains the term,
// case-insensitive. An empty term returns the full directory.
func Search(term string) []Bank {
	if term == "" {
		return All()
	}

	term = strings.ToLower(term)
	var out []Bank
	for _, b := range directory {
		if strings.Contains(strings.ToLower(b.Name), term) ||
			strings.Contains(string(b.Type), term) {
			out = append(out, b)
		}
	}
	return out
}

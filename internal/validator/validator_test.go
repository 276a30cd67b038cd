package validator

import "testing"

func TestIsValidISIN(t *testing.T) {
	valid := []string{
		"US0378331005", // Apple
		"DE0008469008", // DAX
		"GB0002634946", // BAE Systems
		"EU0009652759", // EUR/USD
		"US38259P5089", // mixed alphanumeric body
	}
	for _, isin := range valid {
		if !IsValidISIN(isin) {
			t.Errorf("expected %s to be valid", isin)
		}
	}

	invalid := []string{
		"",
		"US037833100",   // too short
		"US03783310055", // too long
		"us0378331005",  // lowercase
		"US0378331006",  // wrong check digit
		"123378331005",  // country code must be letters
		"US03783?1005",  // illegal character
	}
	for _, isin := range invalid {
		if IsValidISIN(isin) {
			t.Errorf("expected %s to be invalid", isin)
		}
	}
}

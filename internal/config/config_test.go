package config

import (
	"testing"
)

func TestParseChainConfig(t *testing.T) {
	tests := []struct {
		input    string
		expected Network
		hasError bool
	}{
		{"mainnet", Network_Ethereum, false},
		{"sepolia", Network_Sepolia, false},
		{"local", Network_Local, false},
		{"", Network_Local, true},
		{"unknown", Network_Local, true},
	}

	for _, test := range tests {
		result, err := ParseChainConfig(test.input)
		if (err != nil) != test.hasError {
			t.Errorf("ParseChainConfig(%s) error = %v, wantErr %v", test.input, err, test.hasError)
		}
		if err == nil && result.Network != test.expected {
			t.Errorf("ParseChainConfig(%s) = %v, want %v", test.input, result.Network, test.expected)
		}
	}
}

func TestGetNetworkAsString(t *testing.T) {
	tests := []struct {
		input    Network
		expected string
		hasError bool
	}{
		{Network_Ethereum, "mainnet", false},
		{Network_Sepolia, "sepolia", false},
		{Network_Local, "local", false},
		{Network(999), "", true},
	}

	for _, test := range tests {
		result, err := GetNetworkAsString(test.input)
		if (err != nil) != test.hasError {
			t.Errorf("GetNetworkAsString(%v) error = %v, wantErr %v", test.input, err, test.hasError)
		}
		if result != test.expected {
			t.Errorf("GetNetworkAsString(%v) = %v, want %v", test.input, result, test.expected)
		}
	}
}

func TestKebabToSnakeCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"debug", "debug"},
		{"action-index", "action_index"},
		{"prometheus.enabled", "prometheus.enabled"},
		{"a-b-c", "a_b_c"},
	}

	for _, test := range tests {
		if got := KebabToSnakeCase(test.input); got != test.expected {
			t.Errorf("KebabToSnakeCase(%s) = %s, want %s", test.input, got, test.expected)
		}
	}
}

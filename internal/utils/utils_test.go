package utils_test

import (
	"testing"

	"github.com/temirov/kree/internal/utils"
)

// TestDeduplicatePatterns verifies order-preserving removal of duplicates.
func TestDeduplicatePatterns(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		input    []string
		expected []string
	}{
		{testName: "no duplicates", input: []string{"a", "b", "c"}, expected: []string{"a", "b", "c"}},
		{testName: "adjacent duplicates", input: []string{"a", "a", "b"}, expected: []string{"a", "b"}},
		{testName: "scattered duplicates", input: []string{"a", "b", "a", "c", "b"}, expected: []string{"a", "b", "c"}},
		{testName: "empty input", input: nil, expected: []string{}},
		{testName: "case sensitive", input: []string{"Vendor", "vendor"}, expected: []string{"Vendor", "vendor"}},
	}

	for _, testCase := range testCases {
		testingInstance.Run(testCase.testName, func(subtestInstance *testing.T) {
			actual := utils.DeduplicatePatterns(testCase.input)
			if len(actual) != len(testCase.expected) {
				subtestInstance.Fatalf("expected %v, got %v", testCase.expected, actual)
			}
			for position, expectedPattern := range testCase.expected {
				if actual[position] != expectedPattern {
					subtestInstance.Errorf("position %d: expected %s, got %s", position, expectedPattern, actual[position])
				}
			}
		})
	}
}

// TestContainsString verifies membership checks.
func TestContainsString(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		slice    []string
		target   string
		expected bool
	}{
		{testName: "present", slice: []string{"a", "b"}, target: "b", expected: true},
		{testName: "absent", slice: []string{"a", "b"}, target: "c", expected: false},
		{testName: "empty slice", slice: nil, target: "a", expected: false},
		{testName: "case mismatch", slice: []string{"Vendor"}, target: "vendor", expected: false},
	}

	for _, testCase := range testCases {
		testingInstance.Run(testCase.testName, func(subtestInstance *testing.T) {
			actual := utils.ContainsString(testCase.slice, testCase.target)
			if actual != testCase.expected {
				subtestInstance.Errorf("ContainsString(%v, %q) = %v, expected %v", testCase.slice, testCase.target, actual, testCase.expected)
			}
		})
	}
}

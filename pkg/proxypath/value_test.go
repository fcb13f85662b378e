package proxypath

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stringerBaseURL struct {
	value string
}

func (baseURL stringerBaseURL) String() string {
	return baseURL.value
}

func TestResolveValue(t *testing.T) {
	origin := mustOrigin(t)
	apiBaseURL := testAPIBaseURL
	var missingBaseURL *string

	testCases := []struct {
		name         string
		value        any
		expectedPath string
	}{
		{name: "nil is omitted", value: nil, expectedPath: testOriginPath},
		{name: "string", value: testAPIBaseURL, expectedPath: testAPIPath},
		{name: "string pointer", value: &apiBaseURL, expectedPath: testAPIPath},
		{name: "nil string pointer is omitted", value: missingBaseURL, expectedPath: testOriginPath},
		{name: "integer is coerced", value: 8080, expectedPath: "/8080"},
		{name: "float is coerced", value: 1.5, expectedPath: "/1.5"},
		{name: "boolean is coerced", value: true, expectedPath: "/true"},
		{name: "bytes are coerced", value: []byte(testCDNBaseURL), expectedPath: testCDNPath},
		{name: "stringer is coerced", value: stringerBaseURL{value: testExplicitBaseURL}, expectedPath: testExplicitPath},
		{name: "error message is coerced", value: errors.New("/api/"), expectedPath: testAPIPath},
		{name: "uncoercible struct is blank", value: struct{ Port int }{Port: 1}, expectedPath: testOriginPath},
		{name: "uncoercible slice is blank", value: []int{1, 2}, expectedPath: testOriginPath},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expectedPath, ResolveValue(origin, testCase.value))
		})
	}
}

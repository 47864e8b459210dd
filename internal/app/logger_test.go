package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	testCases := []struct {
		name    string
		level   string
		format  string
		wantOut string
		wantNot string
	}{
		{name: "json", level: "info", format: "json", wantOut: `"msg":"visible"`, wantNot: "hidden"},
		{name: "text", level: "info", format: "text", wantOut: "msg=visible", wantNot: "hidden"},
		{name: "auto on a buffer is json", level: "info", format: "auto", wantOut: `"msg":"visible"`},
		{name: "unknown level falls back to info", level: "loud", format: "text", wantOut: "msg=visible", wantNot: "hidden"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := newLogger(tc.level, tc.format, buf)
			logger.Debug("hidden")
			logger.Info("visible")

			assert.Contains(t, buf.String(), tc.wantOut)
			if tc.wantNot != "" {
				assert.NotContains(t, buf.String(), tc.wantNot)
			}
		})
	}
}

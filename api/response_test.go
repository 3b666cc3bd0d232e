package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dquimper/rscribd/faults"
)

func TestDecodeResponseOk(t *testing.T) {
	rsp, err := decodeResponse([]byte(`<rsp stat="ok"><doc_id type="integer">42</doc_id></rsp>`))
	require.NoError(t, err)
	require.NotNil(t, rsp)
	assert.Equal(t, "rsp", rsp.Tag)
	assert.Len(t, rsp.ChildElements(), 1)
}

func TestDecodeResponseFailure(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		category faults.ErrorCategory
		code     int
	}{
		{
			name:     "document_not_found",
			body:     `<rsp stat="fail"><error code="612" message="Document could not be found"/></rsp>`,
			category: faults.NotFoundError,
			code:     612,
		},
		{
			name:     "unauthorized_key",
			body:     `<rsp stat="fail"><error code="401" message="Unauthorized"/></rsp>`,
			category: faults.AuthError,
			code:     401,
		},
		{
			name:     "required_parameter",
			body:     `<rsp stat="fail"><error code="601" message="Required parameter missing"/></rsp>`,
			category: faults.ValidationError,
			code:     601,
		},
		{
			name:     "unmapped_code",
			body:     `<rsp stat="fail"><error code="999" message="mystery"/></rsp>`,
			category: faults.RemoteError,
			code:     999,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := decodeResponse([]byte(test.body))
			require.Error(t, err)
			assert.True(t, faults.IsCategory(err, test.category), "got %v", err)

			code, ok := faults.RemoteCode(err)
			require.True(t, ok)
			assert.Equal(t, test.code, code)
		})
	}
}

func TestDecodeResponseMalformed(t *testing.T) {
	cases := map[string]string{
		"not_xml":          "plain text",
		"wrong_root":       `<html></html>`,
		"missing_stat":     `<rsp></rsp>`,
		"fail_no_error":    `<rsp stat="fail"></rsp>`,
		"non_numeric_code": `<rsp stat="fail"><error code="abc"/></rsp>`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := decodeResponse([]byte(body))
			assert.True(t, faults.IsCategory(err, faults.ValidationError), "got %v", err)
		})
	}
}

package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDetail_StringDetail(t *testing.T) {
	body := []byte(`{"detail": "video too large"}`)
	require.Equal(t, "video too large", normalizeDetail(body, "fallback"))
}

func TestNormalizeDetail_FieldErrorList(t *testing.T) {
	body := []byte(`{"detail": [{"msg": "field required", "loc": ["body", "query"]}, {"msg": "value is not a valid string"}]}`)
	require.Equal(t, "field required, value is not a valid string", normalizeDetail(body, "fallback"))
}

func TestNormalizeDetail_FieldErrorWithoutMsg(t *testing.T) {
	body := []byte(`{"detail": [{"loc": ["body"]}]}`)
	require.Equal(t, `{"loc": ["body"]}`, normalizeDetail(body, "fallback"))
}

func TestNormalizeDetail_ObjectWithoutDetail(t *testing.T) {
	body := []byte(`{"error": "boom"}`)
	require.Equal(t, `{"error":"boom"}`, normalizeDetail(body, "fallback"))
}

func TestNormalizeDetail_Garbage(t *testing.T) {
	require.Equal(t, "fallback", normalizeDetail([]byte("<html>502</html>"), "fallback"))
	require.Equal(t, "fallback", normalizeDetail(nil, "fallback"))
	require.Equal(t, "fallback", normalizeDetail([]byte("  "), "fallback"))
	require.Equal(t, "fallback", normalizeDetail([]byte("{}"), "fallback"))
}

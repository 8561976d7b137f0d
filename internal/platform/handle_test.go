package platform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandleRoundTrip(t *testing.T) {
	h := Handle{ProjectID: "prj_1", ServiceID: "svc_2", EnvironmentID: "env_3"}
	encoded := h.Encode()
	require.Equal(t, "prj_1::svc_2::env_3", encoded)

	decoded, err := DecodeHandle(encoded)
	require.NoError(t, err)
	require.Equal(t, h, decoded)
}

func TestDecodeHandleMalformed(t *testing.T) {
	cases := []string{
		"",
		"prj_1",
		"prj_1::svc_2",
		"plain-string-without-delimiter",
	}
	for _, in := range cases {
		_, err := DecodeHandle(in)
		require.ErrorIs(t, err, ErrMalformedHandle, "input %q", in)
	}
}

func TestDecodeHandleExtraParts(t *testing.T) {
	// Extra trailing parts are tolerated; the first three win.
	h, err := DecodeHandle("a::b::c::d")
	require.NoError(t, err)
	require.Equal(t, Handle{ProjectID: "a", ServiceID: "b", EnvironmentID: "c"}, h)
}

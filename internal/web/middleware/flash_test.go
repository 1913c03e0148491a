package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/donateshop/internal/web/templates/layout"
)

func TestParseFlash(t *testing.T) {
	assert.Equal(t, &layout.FlashMessage{Type: "error", Message: "a:b"}, parseFlash("error:a:b"))
	assert.Equal(t, &layout.FlashMessage{Type: "info", Message: "plain"}, parseFlash("plain"))
}

func TestFlashRoundTripsThroughCookie(t *testing.T) {
	rr := httptest.NewRecorder()
	SetFlash(rr, "success", "Set Player_1 to 5 donate coins; done")
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/shop", nil)
	req.AddCookie(cookies[0])

	var got *layout.FlashMessage
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = GetFlash(r.Context())
	})
	out := httptest.NewRecorder()
	Flash()(next).ServeHTTP(out, req)

	require.NotNil(t, got)
	assert.Equal(t, "success", got.Type)
	assert.Equal(t, "Set Player_1 to 5 donate coins; done", got.Message)

	cleared := out.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Negative(t, cleared[0].MaxAge)
}

package dontkillmyapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/dkma-cli/internal/model"
	"github.com/sells-group/dkma-cli/internal/resilience"
)

func serve(t *testing.T, status int, contentType, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestURL(t *testing.T) {
	t.Parallel()

	c := NewClient()
	assert.Equal(t, "https://dontkillmyapp.com/api/v2/huawei.json", c.URL("huawei"))

	c = NewClient(WithBaseURL("http://localhost:1234/api/v2"))
	assert.Equal(t, "http://localhost:1234/api/v2/sony.json", c.URL("sony"))
}

func TestManufacturer_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v2/samsung.json", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`{"name":"Samsung","manufacturer":["samsung"],"award":1}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL + "/api/v2/"))
	out := c.Manufacturer(context.Background(), "samsung")

	require.IsType(t, &Success{}, out)
	rec := out.(*Success).Record
	assert.Equal(t, KindSuccess, out.Kind())
	assert.Equal(t, "Samsung", rec.Text(model.FieldName))
	assert.JSONEq(t, `1`, string(rec.Award))
	assert.JSONEq(t, `null`, string(rec.URL))
}

func TestManufacturer_NotFound(t *testing.T) {
	t.Parallel()

	for _, ct := range []string{"text/html", "application/json", ""} {
		srv := serve(t, http.StatusNotFound, ct, `not here`)
		out := NewClient(WithBaseURL(srv.URL)).Manufacturer(context.Background(), "nothing")

		require.IsType(t, &NotFound{}, out, "content type %q", ct)
		assert.Equal(t, http.StatusNotFound, out.(*NotFound).StatusCode)
	}
}

func TestManufacturer_NonJSON(t *testing.T) {
	t.Parallel()

	srv := serve(t, http.StatusOK, "text/html; charset=utf-8", `<html></html>`)
	out := NewClient(WithBaseURL(srv.URL)).Manufacturer(context.Background(), "wiko")

	require.IsType(t, &NonJSONResponse{}, out)
	nj := out.(*NonJSONResponse)
	assert.Equal(t, http.StatusOK, nj.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", nj.ContentType)
}

func TestManufacturer_ServerError(t *testing.T) {
	t.Parallel()

	srv := serve(t, http.StatusInternalServerError, "application/json", `{"error":"boom"}`)
	out := NewClient(WithBaseURL(srv.URL)).Manufacturer(context.Background(), "oppo")

	require.IsType(t, &TransportError{}, out)
	te := out.(*TransportError)
	assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
	assert.Equal(t, resilience.KindStatus, te.Cause())
	assert.Contains(t, te.Error(), "500")
}

func TestManufacturer_Forbidden(t *testing.T) {
	t.Parallel()

	srv := serve(t, http.StatusForbidden, "text/html", `denied`)
	out := NewClient(WithBaseURL(srv.URL)).Manufacturer(context.Background(), "vivo")

	require.IsType(t, &TransportError{}, out)
	assert.Equal(t, http.StatusForbidden, out.(*TransportError).StatusCode)
}

func TestManufacturer_MalformedJSON(t *testing.T) {
	t.Parallel()

	srv := serve(t, http.StatusOK, "application/json", `{not json`)
	out := NewClient(WithBaseURL(srv.URL)).Manufacturer(context.Background(), "meizu")

	require.IsType(t, &DecodeError{}, out)
	assert.Contains(t, out.(*DecodeError).Error(), "decode response")
}

func TestManufacturer_InvalidUTF8(t *testing.T) {
	t.Parallel()

	srv := serve(t, http.StatusOK, "application/json", "{\"name\":\"bad\xff\xfe\"}")
	out := NewClient(WithBaseURL(srv.URL)).Manufacturer(context.Background(), "beta")

	require.IsType(t, &DecodeError{}, out)
	assert.Contains(t, out.(*DecodeError).Error(), "not valid UTF-8")
}

func TestManufacturer_EscapesDecoded(t *testing.T) {
	t.Parallel()

	srv := serve(t, http.StatusOK, "application/json", `{"name":"Caf\u00e9 \u003cb\u003e"}`)
	out := NewClient(WithBaseURL(srv.URL)).Manufacturer(context.Background(), "alpha")

	require.IsType(t, &Success{}, out)
	assert.Equal(t, `"Café <b>"`, string(out.(*Success).Record.Name))
}

func TestManufacturer_NotAnObject(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`["a","b"]`, `null`, `"text"`} {
		srv := serve(t, http.StatusOK, "application/json", body)
		out := NewClient(WithBaseURL(srv.URL)).Manufacturer(context.Background(), "asus")
		assert.IsType(t, &UnexpectedError{}, out, "body %s", body)
	}
}

func TestManufacturer_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithTimeout(50*time.Millisecond))
	out := c.Manufacturer(context.Background(), "lenovo")

	require.IsType(t, &TransportError{}, out)
	te := out.(*TransportError)
	assert.Zero(t, te.StatusCode)
	assert.Equal(t, resilience.KindTimeout, te.Cause())
}

func TestManufacturer_ConnectionRefused(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	out := NewClient(WithBaseURL(base)).Manufacturer(context.Background(), "htc")
	require.IsType(t, &TransportError{}, out)
	assert.Zero(t, out.(*TransportError).StatusCode)
}

func TestManufacturer_ContextCancelled(t *testing.T) {
	t.Parallel()

	srv := serve(t, http.StatusOK, "application/json", `{}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := NewClient(WithBaseURL(srv.URL)).Manufacturer(ctx, "google")
	require.IsType(t, &TransportError{}, out)
	assert.Equal(t, resilience.KindCanceled, out.(*TransportError).Cause())
}

package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/screenplot/screenplot/store"
	teststore "github.com/screenplot/screenplot/store/test"
)

func newTestService(t *testing.T) (*APIV1Service, *echo.Echo) {
	t.Helper()
	ctx := context.Background()
	ts := teststore.NewTestingStore(ctx, t)
	service := NewAPIV1Service(ts.Profile(), ts)
	e := echo.New()
	service.Register(e)
	return service, e
}

func doRequest(t *testing.T, e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestNodeEndpoints(t *testing.T) {
	_, e := newTestService(t)

	rec := doRequest(t, e, http.MethodPost, "/api/v1/nodes",
		`{"type":"character","label":"SARAH","props":{"alias":"the detective"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var created store.Node
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, "SARAH", created.Label)

	rec = doRequest(t, e, http.MethodGet, "/api/v1/nodes/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, e, http.MethodGet, "/api/v1/nodes/no-such-node", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Type is mandatory.
	rec = doRequest(t, e, http.MethodPost, "/api/v1/nodes", `{"label":"nameless"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, e, http.MethodDelete, "/api/v1/nodes/"+created.ID, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, e, http.MethodGet, "/api/v1/nodes/"+created.ID, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSequencingEndpoints(t *testing.T) {
	service, e := newTestService(t)
	ctx := context.Background()

	script, err := service.Store.CreateScript(ctx, &store.Script{Title: "Pilot"})
	require.NoError(t, err)
	for _, heading := range []string{"INT. A - DAY", "INT. B - DAY"} {
		_, err := service.Store.CreateScene(ctx, &store.Scene{ScriptID: script.ID, Heading: heading})
		require.NoError(t, err)
	}

	rec := doRequest(t, e, http.MethodPost, "/api/v1/scripts/1/orders/logical", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var response OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Order, 2)
	require.Equal(t, int32(1), *response.Order[0].LogicalOrder)

	rec = doRequest(t, e, http.MethodGet, "/api/v1/scripts/1/consistency", "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Unknown script is a 404, malformed id a 400.
	rec = doRequest(t, e, http.MethodPost, "/api/v1/scripts/999/orders/logical", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	rec = doRequest(t, e, http.MethodPost, "/api/v1/scripts/abc/orders/logical", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

package pipeline

import (
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sells-group/dkma-cli/pkg/dontkillmyapp"
)

// route is the canned response of the mock API for one manufacturer.
type route struct {
	status      int
	contentType string
	body        string
	delay       time.Duration
}

func jsonRoute(body string) route {
	return route{status: http.StatusOK, contentType: "application/json", body: body}
}

// mockAPI serves /api/v2/{id}.json from routes. Unknown ids get an HTML 404.
func mockAPI(t *testing.T, routes map[string]route) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSuffix(path.Base(r.URL.Path), ".json")
		rt, ok := routes[id]
		if !ok {
			rt = route{status: http.StatusNotFound, contentType: "text/html", body: "<h1>404</h1>"}
		}
		if rt.delay > 0 {
			select {
			case <-r.Context().Done():
				return
			case <-time.After(rt.delay):
			}
		}
		if rt.contentType != "" {
			w.Header().Set("Content-Type", rt.contentType)
		}
		w.WriteHeader(rt.status)
		w.Write([]byte(rt.body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newObservedPipeline(baseURL string, timeout time.Duration) (*Pipeline, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	client := dontkillmyapp.NewClient(
		dontkillmyapp.WithBaseURL(baseURL+"/api/v2/"),
		dontkillmyapp.WithTimeout(timeout),
	)
	return New(client, zap.New(core)), logs
}

func countFor(logs *observer.ObservedLogs, msg, id string) int {
	return logs.FilterMessage(msg).FilterField(zap.String("manufacturer", id)).Len()
}

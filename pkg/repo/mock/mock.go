package mock

import (
	"net/http"
	"net/http/httptest"
	"path"
	"runtime"
	"testing"
	"time"
)

// Latency added to every response of the mock server
const Latency = 50 * time.Millisecond

// GetMockData serves the json fixtures next to this file and returns a dir
// to keep the history in
func GetMockData(tb testing.TB) (*httptest.Server, string) {
	tb.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		time.Sleep(Latency)
		http.ServeFile(w, req, path.Join(Dir(), req.URL.Path[1:]))
	}))
	tb.Cleanup(server.Close)
	return server, tb.TempDir()
}

// Dir the directory of the fixtures
func Dir() string {
	_, filename, _, _ := runtime.Caller(0)
	return path.Dir(filename)
}

// File path of a fixture
func File(name string) string {
	return path.Join(Dir(), name)
}

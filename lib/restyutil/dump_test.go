package restyutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestDumpTraffic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-registry", "zakupki")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "dump")
	output, err := NewFilesystemOutput(dir)
	require.NoError(t, err)

	client := resty.New()
	DumpTraffic(client, output)

	_, err = client.R().SetHeader("accept", "text/html").Get(server.URL + "/first")
	require.NoError(t, err)
	_, err = client.R().Get(server.URL + "/second")
	require.NoError(t, err)

	first, err := os.ReadFile(filepath.Join(dir, "1.txt"))
	require.NoError(t, err)
	require.Contains(t, string(first), "GET "+server.URL+"/first")
	require.Contains(t, string(first), "Accept: text/html")
	require.Contains(t, string(first), "X-Registry: zakupki")
	require.Contains(t, string(first), "<html>ok</html>")

	second, err := os.ReadFile(filepath.Join(dir, "2.txt"))
	require.NoError(t, err)
	require.Contains(t, string(second), "/second")
}

func TestFormatRequestBody(t *testing.T) {
	require.Equal(t, "", formatRequestBody(nil))

	noBody, err := http.NewRequest(http.MethodGet, "http://localhost", nil)
	require.NoError(t, err)
	noBody.GetBody = func() (io.ReadCloser, error) { return nil, nil }
	require.Equal(t, "", formatRequestBody(noBody))

	withBody, err := http.NewRequest(http.MethodPost, "http://localhost", strings.NewReader("query=1"))
	require.NoError(t, err)
	require.Equal(t, "query=1", formatRequestBody(withBody))
}

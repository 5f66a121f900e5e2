package query_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronodb/chronotest/internal/query"
	"github.com/chronodb/chronotest/internal/series"
)

type capture struct {
	path        string
	contentType string
	body        string
}

func captureServer(t *testing.T, status int, response string) (*query.Client, *capture) {
	t.Helper()

	req := &capture{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		req.path = r.URL.Path
		req.contentType = r.Header.Get("Content-Type")
		req.body = string(body)

		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)

	return query.NewClient(server.URL, time.Second), req
}

func TestClientQuery(t *testing.T) {
	client, req := captureServer(t, http.StatusOK, `{"servers": [["node0", "running"]]}`)

	result, err := client.Query(context.Background(), "list servers name, status")
	require.NoError(t, err)

	assert.Equal(t, "/query", req.path)
	assert.Equal(t, "application/json", req.contentType)
	assert.JSONEq(t, `{"q": "list servers name, status"}`, req.body)

	rows := result.Servers()
	require.Len(t, rows, 1)
	assert.Equal(t, "node0", rows[0].Name)
}

func TestClientQueryErrorStatus(t *testing.T) {
	client, _ := captureServer(t, http.StatusBadRequest, "syntax error")

	_, err := client.Query(context.Background(), "list nonsense")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")
	assert.Contains(t, err.Error(), `"list nonsense"`)
}

func TestClientInsert(t *testing.T) {
	client, req := captureServer(t, http.StatusOK, `{}`)

	s := series.New("cpu.load")
	s.Add(1000, 0.5)
	s.Add(1001, 0.75)

	err := client.Insert(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, "/insert", req.path)
	assert.JSONEq(t, `{"cpu.load": [[1000, 0.5], [1001, 0.75]]}`, req.body)
}

func TestClientInitCluster(t *testing.T) {
	client, req := captureServer(t, http.StatusOK, `{}`)

	err := client.InitCluster(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/cluster/init", req.path)
}

func TestClientConnectionRefused(t *testing.T) {
	client := query.NewClient("http://127.0.0.1:1", 100*time.Millisecond)

	_, err := client.Query(context.Background(), "list servers")
	require.Error(t, err)
}

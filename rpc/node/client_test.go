package node

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyropy/ringaudit/core/model"
)

func testClient() *Client {
	return NewClient(Timeouts{Connect: time.Second, Response: 2 * time.Second})
}

func nodeFor(t *testing.T, srv *httptest.Server) model.Node {
	t.Helper()

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	return model.Node{ID: "d0", IP: u.Hostname(), Port: port, Device: "sda1"}
}

func TestHeadObjectStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{name: "ok", status: http.StatusOK, check: func(t *testing.T, err error) {
			require.NoError(t, err)
		}},
		{name: "no content", status: http.StatusNoContent, check: func(t *testing.T, err error) {
			require.NoError(t, err)
		}},
		{name: "not found", status: http.StatusNotFound, check: func(t *testing.T, err error) {
			require.ErrorIs(t, err, ErrNotFound)
		}},
		{name: "insufficient storage", status: http.StatusInsufficientStorage, check: func(t *testing.T, err error) {
			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, http.StatusInsufficientStorage, se.Code)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodHead, r.Method)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			err := testClient().HeadObject(context.Background(), nodeFor(t, srv), 42, "AUTH_test", "c", "o")
			tt.check(t, err)
		})
	}
}

func TestHeadObjectRequestPath(t *testing.T) {
	var gotPath, gotTransID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotTransID = r.Header.Get("X-Trans-Id")
	}))
	defer srv.Close()

	err := testClient().HeadObject(context.Background(), nodeFor(t, srv), 42, "AUTH_test", "c", "o with spaces")
	require.NoError(t, err)
	assert.Equal(t, "/sda1/42/AUTH_test/c/o with spaces", gotPath)
	assert.NotEmpty(t, gotTransID)
}

func TestListContainerPage(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sda1/7/AUTH_test/c", r.URL.Path)
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"name":"o1","bytes":10,"hash":"abc"},{"name":"o2","bytes":20,"hash":"def"}]`))
	}))
	defer srv.Close()

	entries, err := testClient().ListContainerPage(context.Background(), nodeFor(t, srv), 7, "AUTH_test", "c", "marker1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "o1", entries[0].Name)
	assert.Equal(t, int64(20), entries[1].Bytes)
	assert.Equal(t, "json", gotQuery.Get("format"))
	assert.Equal(t, "marker1", gotQuery.Get("marker"))
}

func TestListAccountPageEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("marker"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	entries, err := testClient().ListAccountPage(context.Background(), nodeFor(t, srv), 7, "AUTH_test", "")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListAccountPageNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	entries, err := testClient().ListAccountPage(context.Background(), nodeFor(t, srv), 7, "AUTH_test", "")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient().ListContainerPage(context.Background(), nodeFor(t, srv), 7, "AUTH_test", "c", "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteContainerEntrySendsTimestamp(t *testing.T) {
	var gotMethod, gotTimestamp string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotTimestamp = r.Header.Get("X-Timestamp")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	ts := Timestamp()
	err := testClient().DeleteContainerEntry(context.Background(), nodeFor(t, srv), 42, "AUTH_test", "c", "o", ts)
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, ts, gotTimestamp)
}

func TestResponseTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(Timeouts{Connect: time.Second, Response: 50 * time.Millisecond})
	err := c.HeadObject(context.Background(), nodeFor(t, srv), 42, "AUTH_test", "c", "o")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestTimestampMonotonicish(t *testing.T) {
	a := Timestamp()
	time.Sleep(time.Millisecond)
	b := Timestamp()
	assert.Less(t, a, b)
}

package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/scuola/apps/api/echo"
	"github.com/trezcool/scuola/core"
	"github.com/trezcool/scuola/core/records"
	inmemdb "github.com/trezcool/scuola/storage/database/inmem"
	testutil "github.com/trezcool/scuola/tests"
)

var errNotFound = httpErr{Error: "not found"}

// setup returns a server backed by a fresh in-memory store.
func setup(t *testing.T) *Server {
	t.Helper()
	conf := &core.Config{
		AppName:  "Scuola",
		TestMode: true,
		Server:   core.ServerConfig{DisableReqLogs: true},
	}
	validate, translator := testutil.NewValidator()
	svc := records.NewService(inmemdb.NewRecordRepository(inmemdb.Open()), validate)
	return NewServer(conf, testutil.NopLogger{}, svc, translator)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

// do sends a request and decodes the JSON response into out when given.
func do(t *testing.T, app http.Handler, method, path string, in, out interface{}) int {
	t.Helper()
	var data []byte
	if in != nil {
		data = marchallObj(t, in)
	}
	req, rec := newRequest(method, path, data)
	app.ServeHTTP(rec, req)
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("do(%s %s) failed to decode %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	assert.Equal(t, tt.wantCode, rec.Code, "status code")
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

package logsvc

import (
	"bytes"
	"log"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/scuola/core"
)

func newTestLogger() (*RollbarLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Env: "TEST"})
	logger.Enable(false)
	return logger, &buf
}

func TestRollbarLogger_prepare(t *testing.T) {
	logger, _ := newTestLogger()
	err := errors.New("boom")
	serr := &core.StatusError{Method: http.MethodGet, URL: "/aule", Code: http.StatusNotFound}

	got := logger.prepare("msg", []interface{}{err, map[string]interface{}{"generation": 2}, serr})
	assert.Equal(t, []interface{}{
		"msg",
		err,
		serr,
		map[string]interface{}{"generation": 2, "method": "GET", "url": "/aule", "status": 404},
	}, got)

	assert.Equal(t, []interface{}{"msg"}, logger.prepare("msg", nil))
}

func TestRollbarLogger_print(t *testing.T) {
	logger, buf := newTestLogger()
	logger.Info("[GET] /aule", map[string]interface{}{"ms": 3})
	assert.Equal(t, "[GET] /aule\nmap[ms:3]\n", buf.String())
}

package inmemdb

import (
	"testing"

	testutil "github.com/trezcool/scuola/tests"
)

func TestRecordRepository(t *testing.T) {
	testutil.TestRepository(t, NewRecordRepository(Open()))
}

package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/skillxp/core"
)

type person struct{}

func (person) LogIdentity() (string, string, string) { return "42", "Jo Lee", "a@x.com" }

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "TEST : ", 0), core.NewTestConfig())
	logger.Enable(false)

	logger.Warn("notifying signup", errors.New("smtp down"), person{})

	out := buf.String()
	assert.Contains(t, out, "TEST : WARN notifying signup")
	assert.Contains(t, out, "smtp down")
	assert.NotContains(t, out, "a@x.com")
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder()
	rec.Debug("one")
	rec.Error("two", errors.New("boom"))

	assert.Len(t, rec.Entries(""), 2)
	errs := rec.Entries("ERROR")
	if assert.Len(t, errs, 1) {
		assert.Equal(t, "two", errs[0].Msg)
	}
}

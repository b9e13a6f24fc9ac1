package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"zoostat/domain/core"
)

func TestWrapKeepsCode(t *testing.T) {
	base := NotFound("report x")
	wrapped := Wrap(base, "lookup failed")

	assert.Equal(t, CodeNotFound, GetCode(wrapped))
	assert.Equal(t, "lookup failed: report x not found", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, base))
}

func TestWrapPlainError(t *testing.T) {
	err := Wrapf(fmt.Errorf("boom"), "step %d", 3)
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Equal(t, "step 3: boom", err.Error())
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeInvalidInput, fmt.Errorf("bad"))
	assert.Equal(t, CodeInvalidInput, GetCode(err))

	err = WithCode(CodeNotFound, InvalidInput("x"))
	assert.Equal(t, CodeNotFound, GetCode(err))
}

func TestGetCodeUnknown(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
	assert.False(t, IsAppError(fmt.Errorf("plain")))
}

func TestFromAnalysis(t *testing.T) {
	structural := core.NewInsufficientDataError("inferential.PairedTTest", 2, 1)
	err := FromAnalysis("ttest", structural)
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.True(t, core.IsStructural(err))

	err = FromAnalysis("ttest", fmt.Errorf("numerical failure"))
	assert.Equal(t, CodeAnalysisFailed, GetCode(err))

	app := Unsupported("xls")
	assert.Same(t, app, FromAnalysis("load", app))
	assert.Nil(t, FromAnalysis("noop", nil))
}

package errs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidesound/editor/internal/errs"
)

func TestBuildDefaultsComponentToUnknown(t *testing.T) {
	err := errs.New(errors.New("boom")).Category(errs.CategoryEngine).Build()

	assert.Equal(t, errs.ComponentUnknown, err.Component())
	assert.Equal(t, errs.CategoryEngine, err.Category())
	assert.Equal(t, "boom", err.Error())
}

func TestBuildKeepsSetComponent(t *testing.T) {
	err := errs.New(errors.New("boom")).Component("mixer").Category(errs.CategoryCodec).Build()

	assert.Equal(t, "mixer", err.Component())
	assert.Equal(t, errs.CategoryCodec, err.Category())
}

func TestNewfFormatsMessage(t *testing.T) {
	err := errs.Newf("track %s not found", "t1").Component("timeline").Category(errs.CategoryNotFound).Build()

	assert.Equal(t, "track t1 not found", err.Error())
}

func TestErrorWithNilCauseFallsBackToComponentCategory(t *testing.T) {
	err := errs.New(nil).Component("mixer").Category(errs.CategoryNoAudio).Build()

	assert.Equal(t, "mixer: no-audio", err.Error())
}

func TestContextAccumulates(t *testing.T) {
	err := errs.New(errors.New("boom")).
		Context("trackId", "t1").
		Context("clipId", "c1").
		Build()

	require.NotNil(t, err.Context())
	assert.Equal(t, "t1", err.Context()["trackId"])
	assert.Equal(t, "c1", err.Context()["clipId"])
}

func TestCategoryOfIgnoresEnhancedErrorFlattenedIntoText(t *testing.T) {
	inner := errs.New(errors.New("boom")).Category(errs.CategoryBufferTooLarge).Build()
	wrapped := errors.New("outer: " + inner.Error())

	assert.Equal(t, errs.CategoryUnknown, errs.CategoryOf(wrapped))
	assert.Equal(t, errs.CategoryBufferTooLarge, errs.CategoryOf(inner))
}

func TestUnwrapParticipatesInErrorsIs(t *testing.T) {
	sentinel := errors.New("sentinel")
	wrapped := errs.New(sentinel).Component("codec").Build()

	assert.True(t, errors.Is(wrapped, sentinel))
	assert.True(t, errs.Is(wrapped, sentinel))
}

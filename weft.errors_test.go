package weft

import (
	"context"
	"errors"
	"testing"

	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors_StagePredicates(t *testing.T) {
	engine := testEngine(t)
	ctx := context.Background()

	_, lexErr := engine.Parse("{{a # b}}")
	require.Error(t, lexErr)
	assert.True(t, IsLexError(lexErr))
	assert.False(t, IsParseError(lexErr))

	_, parseErr := engine.Parse("{{if a}}no end")
	require.Error(t, parseErr)
	assert.True(t, IsParseError(parseErr))
	assert.False(t, IsRenderError(parseErr))

	_, renderErr := engine.Render(ctx, "{{missing}}", Struct())
	require.Error(t, renderErr)
	assert.True(t, IsRenderError(renderErr))
	assert.False(t, IsLexError(renderErr))

	storage := NewMemoryStorage()
	_, storageErr := storage.Get(ctx, "nope")
	require.Error(t, storageErr)
	assert.True(t, IsStorageError(storageErr))
	assert.False(t, IsRenderError(storageErr))

	assert.False(t, IsLexError(errors.New("foreign error")))
	assert.False(t, IsLexError(nil))
}

func TestErrors_RenderKinds(t *testing.T) {
	engine := testEngine(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		source string
		root   Value
		kind   string
	}{
		{
			name:   "path not found",
			source: "{{user.missing}}",
			root:   Struct(F("user", Struct())),
			kind:   RenderKindPathNotFound,
		},
		{
			name:   "type mismatch",
			source: "{{for x in user}}{{endfor}}",
			root:   Struct(F("user", String("scalar"))),
			kind:   RenderKindTypeMismatch,
		},
		{
			name:   "unknown formatter",
			source: "{{x | nope}}",
			root:   Struct(F("x", String("v"))),
			kind:   RenderKindUnknownFormatter,
		},
		{
			name:   "unknown template",
			source: "{{call ghost with x}}",
			root:   Struct(F("x", Struct())),
			kind:   RenderKindUnknownTemplate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Render(ctx, tt.source, tt.root)
			require.Error(t, err)
			assert.Equal(t, tt.kind, RenderKind(err))
		})
	}
}

func TestErrors_RenderKindEmptyForNonRenderErrors(t *testing.T) {
	engine := testEngine(t)

	_, err := engine.Parse("{{if a}}x")
	require.Error(t, err)
	assert.Empty(t, RenderKind(err))
	assert.Empty(t, RenderKind(errors.New("foreign")))
}

func TestErrors_PositionMetadata(t *testing.T) {
	engine := testEngine(t)

	// The failing path starts on line 2.
	_, err := engine.Render(context.Background(), "line one\n{{missing.deep}}", Struct())
	require.Error(t, err)

	pos, ok := ErrorPosition(err)
	require.True(t, ok)
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 3, pos.Column)
	assert.Equal(t, 11, pos.Offset)
}

func TestErrors_PositionAbsentOnForeignError(t *testing.T) {
	_, ok := ErrorPosition(errors.New("plain"))
	assert.False(t, ok)

	_, ok = ErrorPosition(NewStorageClosedError())
	assert.False(t, ok)
}

func TestErrors_MetadataRecoverable(t *testing.T) {
	engine := testEngine(t)

	_, err := engine.Render(context.Background(), "{{user.email}}",
		Struct(F("user", Struct(F("name", String("Ada"))))))
	require.Error(t, err)

	var customErr *cuserr.CustomError
	require.True(t, errors.As(err, &customErr))

	path, ok := customErr.GetMetadata(MetaKeyPath)
	require.True(t, ok)
	assert.Equal(t, "user.email", path)

	segment, ok := customErr.GetMetadata(MetaKeySegment)
	require.True(t, ok)
	assert.Equal(t, "email", segment)
}

func TestErrors_FormatFailureWrapsCause(t *testing.T) {
	engine := testEngine(t)
	cause := errors.New("boom")
	engine.MustRegisterFormatter("explode", func(Value) (string, error) {
		return "", cause
	})

	_, err := engine.Render(context.Background(), "{{x | explode}}",
		Struct(F("x", String("v"))))
	require.Error(t, err)
	assert.Equal(t, RenderKindFormatFailed, RenderKind(err))
	assert.ErrorIs(t, err, cause)
}

func TestErrors_StorageConstructors(t *testing.T) {
	err := NewStorageTemplateNotFoundError("page")
	assert.True(t, IsStorageError(err))
	assert.Contains(t, err.Error(), ErrMsgStorageTemplateNotFound)

	var customErr *cuserr.CustomError
	require.True(t, errors.As(err, &customErr))
	name, ok := customErr.GetMetadata(MetaKeyTemplate)
	require.True(t, ok)
	assert.Equal(t, "page", name)

	assert.True(t, IsStorageError(NewStorageClosedError()))
	assert.True(t, IsStorageError(NewStorageInvalidNameError("..")))
	assert.True(t, IsStorageError(NewStorageDriverUnknownError("x")))
	assert.True(t, IsStorageError(NewStorageError("io failed", errors.New("disk"))))
}

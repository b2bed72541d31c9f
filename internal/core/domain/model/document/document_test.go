package document_test

import (
	"testing"
	"time"

	"compliance/internal/core/domain/model/document"
	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestDocument(t *testing.T) *document.Document {
	t.Helper()
	d, err := document.NewDocument(
		kernel.NewUUID(), kernel.NewUUID(),
		document.File{Name: "pan.pdf", SizeBytes: 1024, ContentType: "application/pdf"},
		"order/doc/key1", "c@x.com", testNow,
	)
	require.NoError(t, err)
	return d
}

func TestFile_Normalize(t *testing.T) {
	testCases := []struct {
		name     string
		input    document.File
		expected document.File
	}{
		{
			name:     "keeps a plain name",
			input:    document.File{Name: "pan.pdf", SizeBytes: 10, ContentType: "application/pdf"},
			expected: document.File{Name: "pan.pdf", SizeBytes: 10, ContentType: "application/pdf"},
		},
		{
			name:     "strips unix directories",
			input:    document.File{Name: "../../etc/passwd", SizeBytes: 10},
			expected: document.File{Name: "passwd", SizeBytes: 10, ContentType: document.DefaultContentType},
		},
		{
			name:     "strips windows directories",
			input:    document.File{Name: `C:\Users\me\aadhaar.png`, SizeBytes: 10, ContentType: "image/png"},
			expected: document.File{Name: "aadhaar.png", SizeBytes: 10, ContentType: "image/png"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			normalized, err := tc.input.Normalize()

			require.NoError(t, err)
			assert.Equal(t, tc.expected, normalized)
		})
	}

	t.Run("rejects empty names and sizes", func(t *testing.T) {
		_, err := document.File{Name: "", SizeBytes: 10}.Normalize()
		require.ErrorIs(t, err, errs.ErrValueIsRequired)

		_, err = document.File{Name: "a.pdf", SizeBytes: 0}.Normalize()
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestDocument_ReplaceAndVerify(t *testing.T) {
	t.Run("replace keeps the id and returns the old key", func(t *testing.T) {
		d := newTestDocument(t)
		id := d.ID()

		oldKey, err := d.Replace(document.File{Name: "pan-v2.pdf", SizeBytes: 2048}, "order/doc/key2", "c@x.com", testNow.Add(time.Hour))

		require.NoError(t, err)
		assert.Equal(t, "order/doc/key1", oldKey)
		assert.True(t, d.ID().IsEqual(id))
		assert.Equal(t, "pan-v2.pdf", d.FileName())
		assert.Equal(t, int64(2048), d.SizeBytes())
		assert.Equal(t, "order/doc/key2", d.StorageKey())
	})

	t.Run("verify is idempotent", func(t *testing.T) {
		d := newTestDocument(t)

		assert.True(t, d.Verify("emp@x.com", testNow))
		assert.False(t, d.Verify("other@x.com", testNow.Add(time.Minute)))
		assert.True(t, d.IsVerified())
		assert.Equal(t, "emp@x.com", d.VerifiedBy())
		require.NotNil(t, d.VerifiedAt())
		assert.Equal(t, testNow, *d.VerifiedAt())
	})

	t.Run("verified documents cannot be replaced or deleted", func(t *testing.T) {
		d := newTestDocument(t)
		d.Verify("emp@x.com", testNow)

		_, err := d.Replace(document.File{Name: "x.pdf", SizeBytes: 1}, "k", "c@x.com", testNow)
		assert.ErrorIs(t, err, errs.ErrAlreadyVerified)
		assert.ErrorIs(t, d.EnsureMutable(), errs.ErrAlreadyVerified)
		assert.Equal(t, "order/doc/key1", d.StorageKey())
	})
}

func TestSummarize(t *testing.T) {
	uploaded, verified := document.Summarize(nil)
	assert.False(t, uploaded)
	assert.False(t, verified)

	first := newTestDocument(t)
	second := newTestDocument(t)
	first.Verify("emp@x.com", testNow)

	uploaded, verified = document.Summarize([]*document.Document{first, second})
	assert.True(t, uploaded)
	assert.False(t, verified)

	second.Verify("emp@x.com", testNow)
	uploaded, verified = document.Summarize([]*document.Document{first, second})
	assert.True(t, uploaded)
	assert.True(t, verified)
}

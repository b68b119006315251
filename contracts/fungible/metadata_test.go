package fungible

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func validMetadata() Metadata {
	return Metadata{
		Spec:     MetadataSpec,
		Name:     "Example Token",
		Symbol:   "EXT",
		Decimals: 24,
	}
}

func TestMetadataValidate(t *testing.T) {
	require.NoError(t, validMetadata().Validate())

	md := validMetadata()
	md.Spec = "ft-2.0.0"
	require.Error(t, md.Validate())

	md = validMetadata()
	md.Name = ""
	require.Error(t, md.Validate())

	md = validMetadata()
	md.Symbol = ""
	require.Error(t, md.Validate())

	ref := "https://example.com/token.json"
	md = validMetadata()
	md.Reference = &ref
	require.Error(t, md.Validate(), "reference without hash")

	md.ReferenceHash = bytes.Repeat([]byte{1}, 32)
	require.NoError(t, md.Validate())

	md.ReferenceHash = bytes.Repeat([]byte{1}, 16)
	require.Error(t, md.Validate(), "hash of the wrong length")

	md = validMetadata()
	md.ReferenceHash = bytes.Repeat([]byte{1}, 32)
	require.Error(t, md.Validate(), "hash without reference")
}

package pagination

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeIDToken(t *testing.T) {
	token := EncodeIDToken("auction", 42)
	assert.NotEmpty(t, token, "Token should not be empty")

	id, err := DecodeIDToken(token, "auction")
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, uint64(42), id)

	// Max value survives the round trip
	maxToken := EncodeIDToken("auction", ^uint64(0))
	id, err = DecodeIDToken(maxToken, "auction")
	assert.NoError(t, err)
	assert.Equal(t, ^uint64(0), id)
}

func TestDecodeIDTokenError(t *testing.T) {
	_, err := DecodeIDToken("this is not base64!", "auction")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	_, err = DecodeIDToken(EncodeIDToken("bid", 1), "auction")
	assert.Error(t, err, "Should reject a token issued for another listing")

	_, err = DecodeIDToken(base64.URLEncoding.EncodeToString([]byte("auction|abc")), "auction")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "id parse")

	_, err = DecodeIDToken(base64.URLEncoding.EncodeToString([]byte("auction")), "auction")
	assert.Error(t, err, "Should return an error for missing separator")
}

func TestMultiFieldToken(t *testing.T) {
	token := EncodeMultiFieldToken("a", "b", "c")
	fields, err := DecodeMultiFieldToken(token)
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, fields)
}

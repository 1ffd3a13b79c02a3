package obfuscate

import (
	"bytes"
	"crypto/sha1"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUUID = "urn:uuid:0b8d6b6e-2a4c-4f0e-9a7c-1f2e3d4c5b6a"

func randomBytes(t *testing.T, n int, seed int64) []byte {
	t.Helper()
	b := make([]byte, n)
	rand.New(rand.NewSource(seed)).Read(b)
	return b
}

func TestDeriveKey_IDPF(t *testing.T) {
	key, err := DeriveKey(" urn:uuid:1234\t\r\n", IDPF)
	require.NoError(t, err)
	want := sha1.Sum([]byte("urn:uuid:1234"))
	assert.Equal(t, want[:], key)
	assert.Len(t, key, 20)
}

func TestDeriveKey_Adobe(t *testing.T) {
	key, err := DeriveKey(testUUID, Adobe)
	require.NoError(t, err)
	assert.Len(t, key, 16)
	assert.Equal(t, []byte{0x0b, 0x8d, 0x6b, 0x6e}, key[:4])

	key, err = DeriveKey("urn:isbn:not-hex", Adobe)
	require.NoError(t, err)
	assert.Equal(t, []byte("urnisbnnothex"), key)
}

func TestDeriveKey_Empty(t *testing.T) {
	_, err := DeriveKey(" \t\n", IDPF)
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = DeriveKey("urn:uuid:--::", Adobe)
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestTransform_SelfInverse(t *testing.T) {
	for _, alg := range []Algorithm{IDPF, Adobe} {
		key, err := DeriveKey(testUUID, alg)
		require.NoError(t, err)

		for _, size := range []int{0, 1, 19, 1024, 1040, 1041, 5000} {
			data := randomBytes(t, size, int64(size))
			once, err := Transform(data, key, alg)
			require.NoError(t, err)
			twice, err := Transform(once, key, alg)
			require.NoError(t, err)
			assert.Equal(t, data, twice, "%v size %d", alg, size)
		}
	}
}

func TestTransform_Window(t *testing.T) {
	data := bytes.Repeat([]byte{0xAA}, 3000)
	key := []byte{0x55}

	for _, alg := range []Algorithm{IDPF, Adobe} {
		out, err := Transform(data, key, alg)
		require.NoError(t, err)

		n := alg.HeaderLen()
		for i := 0; i < n; i++ {
			require.Equal(t, byte(0xFF), out[i], "%v byte %d", alg, i)
		}
		assert.Equal(t, data[n:], out[n:], "%v tail must be untouched", alg)
	}
	assert.Equal(t, 1040, IDPF.HeaderLen())
	assert.Equal(t, 1024, Adobe.HeaderLen())
}

func TestTransform_DoesNotModifyInput(t *testing.T) {
	data := []byte{1, 2, 3}
	_, err := Transform(data, []byte{0xFF}, IDPF)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	_, err = Transform(data, nil, IDPF)
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestTransformFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "font.ttf")
	obf := filepath.Join(dir, "font.obf")
	back := filepath.Join(dir, "font.back.ttf")
	data := randomBytes(t, 2048, 42)
	require.NoError(t, os.WriteFile(in, data, 0o644))

	require.NoError(t, TransformFile(in, obf, testUUID, IDPF))
	require.NoError(t, TransformFile(obf, back, testUUID, IDPF))

	got, err := os.ReadFile(back)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	err = TransformFile(filepath.Join(dir, "missing.ttf"), back, testUUID, IDPF)
	assert.ErrorIs(t, err, ErrFileAccess)
}

func TestParseAlgorithm(t *testing.T) {
	alg, err := ParseAlgorithm("IDPF")
	require.NoError(t, err)
	assert.Equal(t, IDPF, alg)

	alg, err = ParseAlgorithm("adobe")
	require.NoError(t, err)
	assert.Equal(t, Adobe, alg)

	_, err = ParseAlgorithm("rot13")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestAlgorithmFromURI(t *testing.T) {
	for _, alg := range []Algorithm{IDPF, Adobe} {
		got, err := AlgorithmFromURI(alg.URI())
		require.NoError(t, err)
		assert.Equal(t, alg, got)
	}
	_, err := AlgorithmFromURI("http://www.w3.org/2001/04/xmlenc#aes128-cbc")
	assert.Error(t, err)
}

package signature

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ProtonMail/gopenpgp/v2/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signFixture creates an archive file, a detached binary signature for it
// and a Verifier holding the matching public key.
func signFixture(t *testing.T, content []byte) (string, string, *Verifier) {
	t.Helper()
	dir := t.TempDir()

	key, err := crypto.GenerateKey("repod test", "test@example.org", "x25519", 0)
	require.NoError(t, err)
	signingRing, err := crypto.NewKeyRing(key)
	require.NoError(t, err)

	sig, err := signingRing.SignDetached(crypto.NewPlainMessage(content))
	require.NoError(t, err)

	archivePath := filepath.Join(dir, "foo-1.0-1-x86_64.pkg.tar.xz")
	sigPath := archivePath + ".sig"
	require.NoError(t, os.WriteFile(archivePath, content, 0o644))
	require.NoError(t, os.WriteFile(sigPath, sig.GetBinary(), 0o644))

	pub, err := key.GetArmoredPublicKey()
	require.NoError(t, err)
	verifier := NewVerifier()
	require.NoError(t, verifier.AddArmoredKey(pub))

	return archivePath, sigPath, verifier
}

func TestVerifyGoodSignature(t *testing.T) {
	archivePath, sigPath, verifier := signFixture(t, []byte("archive content"))

	ok, tokens, err := verifier.Verify(context.Background(), archivePath, sigPath)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotEmpty(t, tokens)
	assert.True(t, strings.HasPrefix(tokens[0], StatusGoodSig))
}

func TestVerifyTamperedArchive(t *testing.T) {
	archivePath, sigPath, verifier := signFixture(t, []byte("archive content"))
	require.NoError(t, os.WriteFile(archivePath, []byte("tampered"), 0o644))

	ok, tokens, err := verifier.Verify(context.Background(), archivePath, sigPath)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NotEmpty(t, tokens)
	assert.True(t, strings.HasPrefix(tokens[0], StatusBadSig))
}

func TestVerifyWrongKey(t *testing.T) {
	archivePath, sigPath, _ := signFixture(t, []byte("archive content"))

	otherKey, err := crypto.GenerateKey("someone else", "else@example.org", "x25519", 0)
	require.NoError(t, err)
	pub, err := otherKey.GetArmoredPublicKey()
	require.NoError(t, err)
	verifier := NewVerifier()
	require.NoError(t, verifier.AddArmoredKey(pub))

	ok, _, err := verifier.Verify(context.Background(), archivePath, sigPath)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyMissingSignatureFile(t *testing.T) {
	archivePath, sigPath, verifier := signFixture(t, []byte("archive content"))
	require.NoError(t, os.Remove(sigPath))

	_, _, err := verifier.Verify(context.Background(), archivePath, sigPath)
	assert.Error(t, err)
}

func TestVerifyEmptyKeyring(t *testing.T) {
	_, _, err := NewVerifier().Verify(context.Background(), "nope", "nope.sig")
	assert.Error(t, err)
}

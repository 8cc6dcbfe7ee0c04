// Package signature verifies detached PGP signatures of package archives
// against a configured keyring.
package signature

import (
	"context"
	"fmt"
	"os"

	"github.com/ProtonMail/gopenpgp/v2/crypto"
	"github.com/glorpus-work/repod/pkg/errors"
)

// Status tokens reported by Verify, modeled on gpg --status-fd lines.
const (
	StatusGoodSig = "GOODSIG"
	StatusBadSig  = "BADSIG"
	StatusErrSig  = "ERRSIG"
)

// Verifier checks detached signatures against a PGP keyring.
type Verifier struct {
	keyRing *crypto.KeyRing
}

// NewVerifier creates an empty Verifier. Keys must be added before any
// verification can succeed.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// NewVerifierFromFile creates a Verifier from an armored public key file.
func NewVerifierFromFile(path string) (*Verifier, error) {
	armored, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read keyring %s", path)
	}
	v := NewVerifier()
	if err := v.AddArmoredKey(string(armored)); err != nil {
		return nil, errors.Wrapf(err, "failed to load keyring %s", path)
	}
	return v, nil
}

// AddArmoredKey adds an armored public key to the verifier's keyring.
func (v *Verifier) AddArmoredKey(armored string) error {
	key, err := crypto.NewKeyFromArmored(armored)
	if err != nil {
		return errors.Wrap(err, "failed to parse armored key")
	}
	if v.keyRing == nil {
		v.keyRing, err = crypto.NewKeyRing(key)
		return err
	}
	return v.keyRing.AddKey(key)
}

// Verify checks the detached signature at sigPath against the archive at
// archivePath. The boolean reports overall verification success; the token
// lines carry the detailed status. An error is returned only for I/O or
// configuration problems, not for a failed verification.
func (v *Verifier) Verify(_ context.Context, archivePath, sigPath string) (bool, []string, error) {
	if v.keyRing == nil {
		return false, nil, fmt.Errorf("no keys in keyring")
	}

	sigData, err := os.ReadFile(sigPath)
	if err != nil {
		return false, nil, errors.Wrapf(err, "failed to read signature %s", sigPath)
	}
	pgpSignature, err := crypto.NewPGPSignatureFromArmored(string(sigData))
	if err != nil {
		// Signatures are usually distributed in binary form.
		pgpSignature = crypto.NewPGPSignature(sigData)
	}

	archive, err := os.Open(archivePath)
	if err != nil {
		return false, nil, errors.Wrapf(err, "failed to open archive %s", archivePath)
	}
	defer func() { _ = archive.Close() }()

	err = v.keyRing.VerifyDetachedStream(archive, pgpSignature, crypto.GetUnixTime())
	if err != nil {
		return false, []string{fmt.Sprintf("%s %v", StatusBadSig, err)}, nil
	}

	tokens := make([]string, 0, 1)
	for _, key := range v.keyRing.GetKeys() {
		tokens = append(tokens, fmt.Sprintf("%s %s", StatusGoodSig, key.GetHexKeyID()))
	}
	return true, tokens, nil
}

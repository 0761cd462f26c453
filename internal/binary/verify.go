package binary

import (
	"fmt"
	"io"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

// signatureSuffixes are the detached signature names checked next to a
// prebuilt binary, in order.
var signatureSuffixes = []string{".sig", ".asc"}

// Verifier checks detached OpenPGP signatures against a keyring file.
type Verifier struct {
	keyringPath string
	keyring     openpgp.EntityList
}

// NewVerifier creates a verifier for the keyring at keyringPath. The
// keyring is read on first use.
func NewVerifier(keyringPath string) *Verifier {
	return &Verifier{keyringPath: keyringPath}
}

// findSignature returns the detached signature shipped next to binaryPath,
// or "" when there is none.
func findSignature(binaryPath string) string {
	for _, suffix := range signatureSuffixes {
		candidate := binaryPath + suffix
		if isRegularFile(candidate) {
			return candidate
		}
	}
	return ""
}

// VerifyDetached verifies signaturePath over binaryPath. Armored
// signatures are tried first, then binary ones.
func (v *Verifier) VerifyDetached(binaryPath, signaturePath string) error {
	keyring, err := v.loadKeyring()
	if err != nil {
		return fmt.Errorf("%w: load keyring: %v", ErrSignature, err)
	}

	binaryFile, err := os.Open(binaryPath)
	if err != nil {
		return fmt.Errorf("%w: open binary: %v", ErrSignature, err)
	}
	defer binaryFile.Close()

	sigFile, err := os.Open(signaturePath)
	if err != nil {
		return fmt.Errorf("%w: open signature: %v", ErrSignature, err)
	}
	defer sigFile.Close()

	_, err = openpgp.CheckArmoredDetachedSignature(keyring, binaryFile, sigFile, nil)
	if err != nil {
		if _, seekErr := binaryFile.Seek(0, io.SeekStart); seekErr != nil {
			return fmt.Errorf("%w: rewind binary: %v", ErrSignature, seekErr)
		}
		if _, seekErr := sigFile.Seek(0, io.SeekStart); seekErr != nil {
			return fmt.Errorf("%w: rewind signature: %v", ErrSignature, seekErr)
		}
		_, err = openpgp.CheckDetachedSignature(keyring, binaryFile, sigFile, nil)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSignature, err)
	}

	return nil
}

// loadKeyring reads the keyring, armored first then binary.
func (v *Verifier) loadKeyring() (openpgp.EntityList, error) {
	if v.keyring != nil {
		return v.keyring, nil
	}

	keyringFile, err := os.Open(v.keyringPath)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	defer keyringFile.Close()

	keyring, err := openpgp.ReadArmoredKeyRing(keyringFile)
	if err != nil {
		if _, seekErr := keyringFile.Seek(0, io.SeekStart); seekErr != nil {
			return nil, fmt.Errorf("rewind keyring: %w", seekErr)
		}
		keyring, err = openpgp.ReadKeyRing(keyringFile)
		if err != nil {
			return nil, fmt.Errorf("read keyring: %w", err)
		}
	}

	if len(keyring) == 0 {
		return nil, fmt.Errorf("keyring is empty")
	}

	v.keyring = keyring
	return keyring, nil
}

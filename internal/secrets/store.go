// Package secrets stores the backend session token in the OS keyring, with
// an encrypted-file fallback for headless machines.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/99designs/keyring"
	"golang.org/x/term"

	"iammail/internal/config"
)

const (
	keyringPasswordEnv = "IAMMAIL_KEYRING_PASSWORD" //nolint:gosec // env var name, not a credential
	keyringBackendEnv  = "IAMMAIL_KEYRING_BACKEND"  //nolint:gosec // env var name, not a credential
	tokenEnv           = "IAMMAIL_AUTH_TOKEN"       //nolint:gosec // env var name, not a credential
)

var (
	ErrSecretNotFound        = errors.New("secret not found")
	errMissingSecretKey      = errors.New("missing secret key")
	errMissingEmail          = errors.New("missing account email")
	errMissingToken          = errors.New("missing token")
	errNoTTY                 = errors.New("no TTY available for keyring file backend password prompt")
	errInvalidKeyringBackend = errors.New("invalid keyring backend")
	errKeyringTimeout        = errors.New("keyring connection timed out")
	openKeyringFunc          = openKeyring
	keyringOpenFunc          = keyring.Open
)

const keyringBackendAuto = "auto"

func keyringItem(key string, data []byte) keyring.Item {
	return keyring.Item{
		Key:   key,
		Data:  data,
		Label: config.AppName,
	}
}

func resolveBackend() string {
	if v := strings.ToLower(strings.TrimSpace(os.Getenv(keyringBackendEnv))); v != "" {
		return v
	}
	return keyringBackendAuto
}

func allowedBackends(backend string) ([]keyring.BackendType, error) {
	switch backend {
	case "", keyringBackendAuto:
		return nil, nil
	case "keychain":
		return []keyring.BackendType{keyring.KeychainBackend}, nil
	case "file":
		return []keyring.BackendType{keyring.FileBackend}, nil
	default:
		return nil, fmt.Errorf("%w: %q (expected %s, keychain, or file)", errInvalidKeyringBackend, backend, keyringBackendAuto)
	}
}

func fileKeyringPasswordFuncFrom(password string, passwordSet bool, isTTY bool) keyring.PromptFunc {
	// Treat "set to empty string" as intentional; empty passphrase is valid.
	if passwordSet {
		return keyring.FixedStringPrompt(password)
	}

	if isTTY {
		return keyring.TerminalPrompt
	}

	return func(_ string) (string, error) {
		return "", fmt.Errorf("%w; set %s", errNoTTY, keyringPasswordEnv)
	}
}

func fileKeyringPasswordFunc() keyring.PromptFunc {
	password, passwordSet := os.LookupEnv(keyringPasswordEnv)
	return fileKeyringPasswordFuncFrom(password, passwordSet, term.IsTerminal(int(os.Stdin.Fd())))
}

// keyringOpenTimeout is the maximum time to wait for keyring.Open() to
// complete. On headless Linux, D-Bus SecretService can hang indefinitely if
// gnome-keyring is installed but not running.
const keyringOpenTimeout = 5 * time.Second

func shouldForceFileBackend(goos, backend, dbusAddr string) bool {
	return goos == "linux" && backend == keyringBackendAuto && dbusAddr == ""
}

func shouldUseKeyringTimeout(goos, backend, dbusAddr string) bool {
	return goos == "linux" && backend == keyringBackendAuto && dbusAddr != ""
}

func openKeyring() (keyring.Keyring, error) {
	keyringDir, err := config.EnsureKeyringDir()
	if err != nil {
		return nil, fmt.Errorf("ensure keyring dir: %w", err)
	}

	backend := resolveBackend()
	backends, err := allowedBackends(backend)
	if err != nil {
		return nil, err
	}

	dbusAddr := os.Getenv("DBUS_SESSION_BUS_ADDRESS")
	// On Linux with "auto" backend and no D-Bus session, force file backend.
	if shouldForceFileBackend(runtime.GOOS, backend, dbusAddr) {
		backends = []keyring.BackendType{keyring.FileBackend}
	}

	cfg := keyring.Config{
		ServiceName:              config.AppName,
		KeychainTrustApplication: false,
		AllowedBackends:          backends,
		FileDir:                  keyringDir,
		FilePasswordFunc:         fileKeyringPasswordFunc(),
	}

	if shouldUseKeyringTimeout(runtime.GOOS, backend, dbusAddr) {
		return openKeyringWithTimeout(cfg, keyringOpenTimeout)
	}

	ring, err := keyringOpenFunc(cfg)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}

	return ring, nil
}

type keyringResult struct {
	ring keyring.Keyring
	err  error
}

// openKeyringWithTimeout wraps keyring.Open with a timeout to prevent
// indefinite hangs.
func openKeyringWithTimeout(cfg keyring.Config, timeout time.Duration) (keyring.Keyring, error) {
	ch := make(chan keyringResult, 1)

	go func() {
		ring, err := keyringOpenFunc(cfg)
		ch <- keyringResult{ring, err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			return nil, fmt.Errorf("open keyring: %w", res.err)
		}

		return res.ring, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("%w after %v (D-Bus SecretService may be unresponsive); "+
			"set IAMMAIL_KEYRING_BACKEND=file and IAMMAIL_KEYRING_PASSWORD=<password> to use encrypted file storage instead",
			errKeyringTimeout, timeout)
	}
}

func SetSecret(key string, value []byte) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errMissingSecretKey
	}

	ring, err := openKeyringFunc()
	if err != nil {
		return err
	}

	if err := ring.Set(keyringItem(key, value)); err != nil {
		return fmt.Errorf("store secret: %w", err)
	}

	return nil
}

func GetSecret(key string) ([]byte, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errMissingSecretKey
	}

	ring, err := openKeyringFunc()
	if err != nil {
		return nil, err
	}

	item, err := ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, ErrSecretNotFound
		}
		return nil, fmt.Errorf("read secret: %w", err)
	}

	return item.Data, nil
}

func DeleteSecret(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errMissingSecretKey
	}

	ring, err := openKeyringFunc()
	if err != nil {
		return err
	}

	if err := ring.Remove(key); err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil
		}
		return fmt.Errorf("delete secret: %w", err)
	}

	return nil
}

// SetToken stores the session token for an account email.
func SetToken(email, token string) error {
	user := normalize(email)
	if user == "" {
		return errMissingEmail
	}
	if token == "" {
		return errMissingToken
	}

	return SetSecret(tokenKey(user), []byte(token))
}

// GetToken resolves the session token for an account email. The
// IAMMAIL_AUTH_TOKEN environment variable takes precedence over the
// keyring.
func GetToken(email string) (string, error) {
	if token := os.Getenv(tokenEnv); token != "" {
		return token, nil
	}

	user := normalize(email)
	if user == "" {
		return "", errMissingEmail
	}

	data, err := GetSecret(tokenKey(user))
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func DeleteToken(email string) error {
	user := normalize(email)
	if user == "" {
		return errMissingEmail
	}
	return DeleteSecret(tokenKey(user))
}

func tokenKey(email string) string {
	return fmt.Sprintf("auth:token:%s", email)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Package gate implements the passcode screen in front of the study data.
//
// It is a user-experience gate for a single local user, not a security
// boundary: the data underneath is readable by anyone with access to the
// database file, and attempts are not rate limited.
package gate

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/unowned-ai/rpager/pkg/logging"
	"github.com/unowned-ai/rpager/pkg/store"
	"github.com/unowned-ai/rpager/pkg/vault"
)

const (
	CredentialKey     = "r-pager-credential"
	SessionKey        = "r-pager-session"
	MinPasscodeLength = 4
	saltSize          = 16
)

var (
	ErrPasscodeMismatch = errors.New("incorrect passcode, please try again")
	ErrNoPasscode       = errors.New("no passcode has been set")
)

// Credential is the stored salted hash of the passcode.
type Credential struct {
	Salt   []byte       `json:"salt"`
	Hash   []byte       `json:"hash"`
	Params vault.Params `json:"params"`
	SetAt  time.Time    `json:"set_at"`
}

func (c Credential) configured() bool {
	return len(c.Hash) > 0
}

func (c Credential) usable() error {
	switch {
	case len(c.Salt) == 0:
		return errors.New("salt is empty")
	case len(c.Hash) != vault.KeySize:
		return fmt.Errorf("hash is %d bytes, want %d", len(c.Hash), vault.KeySize)
	}
	return c.Params.Validate()
}

// Session tracks whether the gate is open and whether it ever was.
type Session struct {
	Authenticated bool      `json:"authenticated"`
	HasLoggedIn   bool      `json:"has_logged_in"`
	Since         time.Time `json:"since,omitempty"`
}

type Status struct {
	Configured    bool      `json:"configured"`
	Authenticated bool      `json:"authenticated"`
	HasLoggedIn   bool      `json:"has_logged_in"`
	Since         time.Time `json:"since,omitempty"`
}

type Gate struct {
	credential *store.Document[Credential]
	session    *store.Document[Session]
	params     vault.Params
	now        func() time.Time
	log        logging.Logger
}

type Option func(*Gate)

// WithParams sets the Argon2id cost for newly set passcodes.
func WithParams(p vault.Params) Option {
	return func(g *Gate) { g.params = p }
}

func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

func New(kv store.KV, log logging.Logger, opts ...Option) *Gate {
	if log == nil {
		log = logging.Nop()
	}
	g := &Gate{
		credential: store.NewDocument[Credential](kv, CredentialKey, log),
		session:    store.NewDocument[Session](kv, SessionKey, log),
		params:     vault.DefaultParams,
		now:        time.Now,
		log:        log.With("component", "gate"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ValidatePasscode requires at least MinPasscodeLength digits and nothing
// else.
func ValidatePasscode(code string) error {
	if len(code) < MinPasscodeLength {
		return store.Invalid("passcode", "must be at least %d digits", MinPasscodeLength)
	}
	for _, r := range code {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return store.Invalid("passcode", "must contain digits only")
		}
	}
	return nil
}

// SetPasscode replaces the stored credential. The session is left as is.
func (g *Gate) SetPasscode(ctx context.Context, code string) error {
	if err := ValidatePasscode(code); err != nil {
		return err
	}
	if err := g.params.Validate(); err != nil {
		return fmt.Errorf("invalid passcode hashing parameters: %w", err)
	}
	salt, err := vault.NewSalt(saltSize)
	if err != nil {
		return err
	}
	cred := Credential{
		Salt:   salt,
		Hash:   vault.DeriveKey([]byte(code), salt, g.params),
		Params: g.params,
		SetAt:  g.now().UTC(),
	}
	if err := g.credential.Save(ctx, cred); err != nil {
		return fmt.Errorf("failed to store passcode: %w", err)
	}
	g.log.Info(ctx, "passcode set")
	return nil
}

// stored loads the credential. A damaged credential counts as none, so the
// user can set a new passcode instead of being locked out.
func (g *Gate) stored(ctx context.Context) (Credential, bool, error) {
	cred, err := g.credential.Value(ctx)
	if err != nil {
		return Credential{}, false, err
	}
	if !cred.configured() {
		return Credential{}, false, nil
	}
	if err := cred.usable(); err != nil {
		g.log.Warn(ctx, "ignoring unusable passcode credential", "reason", err)
		return Credential{}, false, nil
	}
	return cred, true, nil
}

func (g *Gate) HasPasscode(ctx context.Context) (bool, error) {
	_, ok, err := g.stored(ctx)
	return ok, err
}

// Login opens the gate when code matches. first reports whether this is
// the first successful login ever.
func (g *Gate) Login(ctx context.Context, code string) (bool, error) {
	cred, ok, err := g.stored(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrNoPasscode
	}

	got := vault.DeriveKey([]byte(code), cred.Salt, cred.Params)
	if subtle.ConstantTimeCompare(got, cred.Hash) != 1 {
		g.log.Debug(ctx, "passcode mismatch")
		return false, ErrPasscodeMismatch
	}

	var first bool
	_, err = g.session.Update(ctx, func(s Session) (Session, error) {
		first = !s.HasLoggedIn
		return Session{Authenticated: true, HasLoggedIn: true, Since: g.now().UTC()}, nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to open session: %w", err)
	}
	return first, nil
}

func (g *Gate) Logout(ctx context.Context) error {
	_, err := g.session.Update(ctx, func(s Session) (Session, error) {
		s.Authenticated = false
		s.Since = time.Time{}
		return s, nil
	})
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	return nil
}

func (g *Gate) Authenticated(ctx context.Context) (bool, error) {
	s, err := g.session.Value(ctx)
	if err != nil {
		return false, err
	}
	return s.Authenticated, nil
}

func (g *Gate) Status(ctx context.Context) (Status, error) {
	configured, err := g.HasPasscode(ctx)
	if err != nil {
		return Status{}, err
	}
	s, err := g.session.Value(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{
		Configured:    configured,
		Authenticated: s.Authenticated,
		HasLoggedIn:   s.HasLoggedIn,
		Since:         s.Since,
	}, nil
}

// Package auth provides the signed-in identity shown on the profile screen.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNoSession is returned when nobody is signed in.
	ErrNoSession = errors.New("auth: no session")
	// ErrInvalidToken is returned when an identity token cannot be verified.
	ErrInvalidToken = errors.New("auth: invalid identity token")
)

// UserData is the identity of the signed-in user.
type UserData struct {
	UserID            string `json:"userId"`
	UserName          string `json:"userName"`
	ProfilePictureURL string `json:"profilePictureUrl"`
	Email             string `json:"email"`
}

// Placeholder is shown when nobody is signed in.
func Placeholder() UserData {
	return UserData{UserID: "", UserName: "", ProfilePictureURL: "", Email: ""}
}

// Provider reports the current identity and ends the session.
type Provider interface {
	CurrentUser() *UserData
	SignOut(ctx context.Context) error
}

// Claims carried by an identity token.
type Claims struct {
	jwt.RegisteredClaims
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	Email   string `json:"email,omitempty"`
}

type session struct {
	Token string `json:"token"`
}

// FileProvider keeps the identity token in a JSON session file.
type FileProvider struct {
	path   string
	secret []byte
	logger logrus.FieldLogger
	mu     sync.Mutex
}

var _ Provider = (*FileProvider)(nil)

// NewFileProvider reads and writes the session at path. When secret is empty,
// token signatures are not checked.
func NewFileProvider(path string, secret []byte, logger logrus.FieldLogger) *FileProvider {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &FileProvider{path: path, secret: secret, logger: logger.WithField("component", "auth")}
}

// CurrentUser returns the signed-in identity, or nil without a usable session.
func (p *FileProvider) CurrentUser() *UserData {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, err := p.load()
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			p.logger.WithError(err).Warn("ignoring unreadable session")
		}
		return nil
	}
	user, err := p.parse(s.Token)
	if err != nil {
		p.logger.WithError(err).Warn("ignoring session token")
		return nil
	}
	return &user
}

// SignIn verifies token and stores it as the current session.
func (p *FileProvider) SignIn(token string) (UserData, error) {
	user, err := p.parse(token)
	if err != nil {
		return UserData{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.save(session{Token: token}); err != nil {
		return UserData{}, err
	}
	p.logger.WithField("user_id", user.UserID).Info("signed in")
	return user, nil
}

// SignOut removes the session file. Signing out without a session is not an error.
func (p *FileProvider) SignOut(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := os.Remove(p.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	p.logger.Info("signed out")
	return nil
}

func (p *FileProvider) parse(token string) (UserData, error) {
	claims := &Claims{}
	var err error
	if len(p.secret) == 0 {
		_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	} else {
		_, err = jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			return p.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	}
	if err != nil {
		return UserData{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return UserData{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return UserData{
		UserID:            claims.Subject,
		UserName:          claims.Name,
		ProfilePictureURL: claims.Picture,
		Email:             claims.Email,
	}, nil
}

func (p *FileProvider) load() (session, error) {
	var s session
	f, err := os.Open(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, ErrNoSession
		}
		return s, fmt.Errorf("open session: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return s, fmt.Errorf("read session: %w", err)
	}
	if len(data) == 0 {
		return s, ErrNoSession
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("decode session: %w", err)
	}
	if s.Token == "" {
		return s, ErrNoSession
	}
	return s, nil
}

// save writes the session atomically.
func (p *FileProvider) save(s session) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o750); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp := p.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open tmp: %w", err)
	}
	if err := json.NewEncoder(f).Encode(&s); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode session: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close tmp: %w", err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename tmp: %w", err)
	}
	return nil
}

// IssueToken signs an identity token for user.
func IssueToken(user UserData, secret []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		Name:    user.UserName,
		Picture: user.ProfilePictureURL,
		Email:   user.Email,
	})
	return token.SignedString(secret)
}

// ProfileOf returns the current identity of p, or the placeholder.
func ProfileOf(p Provider) UserData {
	if p == nil {
		return Placeholder()
	}
	if user := p.CurrentUser(); user != nil {
		return *user
	}
	return Placeholder()
}

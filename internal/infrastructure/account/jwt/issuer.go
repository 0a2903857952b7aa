package jwt

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/riskibarqy/pingpong-club/internal/domain/account"
	"github.com/riskibarqy/pingpong-club/internal/usecase"
)

type claims struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"admin"`
	PlayerID *int64 `json:"player_id,omitempty"`
	jwtlib.RegisteredClaims
}

// Issuer signs HS256 bearer tokens carrying an account principal.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

var _ usecase.TokenIssuer = (*Issuer)(nil)

func NewIssuer(secret, issuer string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

func (i *Issuer) Issue(principal account.Principal) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)
	c := claims{
		Username: principal.Username,
		IsAdmin:  principal.IsAdmin,
		PlayerID: principal.PlayerID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Subject:   strconv.FormatInt(principal.UserID, 10),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (i *Issuer) Verify(token string) (account.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return account.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	var c claims
	parser := jwtlib.Parser{ValidMethods: []string{jwtlib.SigningMethodHS256.Alg()}}
	parsed, err := parser.ParseWithClaims(token, &c, func(*jwtlib.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return account.Principal{}, fmt.Errorf("%w: invalid token", usecase.ErrUnauthorized)
	}
	// Parser validates expiry against the wall clock; the issuer clock wins here.
	if c.ExpiresAt == nil || !i.now().Before(c.ExpiresAt.Time) {
		return account.Principal{}, fmt.Errorf("%w: token expired", usecase.ErrUnauthorized)
	}
	if i.issuer != "" && !c.VerifyIssuer(i.issuer, true) {
		return account.Principal{}, fmt.Errorf("%w: unexpected issuer", usecase.ErrUnauthorized)
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return account.Principal{}, fmt.Errorf("%w: invalid subject", usecase.ErrUnauthorized)
	}
	return account.Principal{
		UserID:   userID,
		Username: c.Username,
		IsAdmin:  c.IsAdmin,
		PlayerID: c.PlayerID,
	}, nil
}

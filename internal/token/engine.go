package token

import (
    "context"
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
    "github.com/google/uuid"       // jti generation
)

// noToken is the literal value some clients send when they hold no token at
// all; it is rejected before any cache or signature work happens.
const noToken = "undefined"

// Pair bundles a freshly minted access/refresh token pair with the expiry
// of each part.  The access token is short-lived and presented on every
// protected request; the refresh token lives longer and can be redeemed
// exactly once to mint the next pair.
type Pair struct {
    AccessToken         string    `json:"access_token"`
    AccessTokenExpires  time.Time `json:"access_token_expires"`
    RefreshToken        string    `json:"refresh_token"`
    RefreshTokenExpires time.Time `json:"refresh_token_expires"`
    TokenType           string    `json:"token_type"` // always "bearer"
}

// Claims is the validated content of an access token.
type Claims struct {
    Subject   string    // user id the token was issued to
    ExpiresAt time.Time // when the token stops being valid
}

// Engine mints and verifies token pairs.  Access and refresh tokens are
// signed with two distinct secrets so that possessing one kind can never
// forge the other.  Refresh-token liveness and the access deny-list live in
// the Store; everything else is stateless HS256 verification.
type Engine struct {
    store         *Store
    accessSecret  []byte
    refreshSecret []byte
    accessTTL     time.Duration
    refreshTTL    time.Duration
    now           func() time.Time // injectable clock for tests

    verifier *jwt.Parser // full validation including expiry
    decoder  *jwt.Parser // signature only; expiry handled by the caller
}

// NewEngine builds a token engine over the given revocation store.  Both
// secrets must be non-empty and distinct in production; TTLs follow the
// service defaults of 15 minutes and 7 days when configured from env.
func NewEngine(store *Store, accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Engine {
    e := &Engine{
        store:         store,
        accessSecret:  []byte(accessSecret),
        refreshSecret: []byte(refreshSecret),
        accessTTL:     accessTTL,
        refreshTTL:    refreshTTL,
        now:           time.Now,
    }
    // The parsers capture e.now through a closure so tests can move the
    // clock after construction.
    clock := func() time.Time { return e.now() }
    e.verifier = jwt.NewParser(
        jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
        jwt.WithTimeFunc(clock),
    )
    e.decoder = jwt.NewParser(
        jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
        jwt.WithoutClaimsValidation(),
    )
    return e
}

// Issue mints a new access/refresh pair for a user and registers the
// refresh token in the cache with a TTL equal to its lifetime, so an
// unrotated token expires on its own.
func (e *Engine) Issue(ctx context.Context, userID string) (Pair, error) {
    now := e.now().UTC()
    accessExp := now.Add(e.accessTTL)
    refreshExp := now.Add(e.refreshTTL)

    access, err := e.sign(userID, accessExp, e.accessSecret)
    if err != nil {
        return Pair{}, err
    }
    refresh, err := e.sign(userID, refreshExp, e.refreshSecret)
    if err != nil {
        return Pair{}, err
    }
    if err := e.store.SaveRefresh(ctx, refresh, userID, e.refreshTTL); err != nil {
        return Pair{}, err
    }
    return Pair{
        AccessToken:         access,
        AccessTokenExpires:  accessExp,
        RefreshToken:        refresh,
        RefreshTokenExpires: refreshExp,
        TokenType:           "bearer",
    }, nil
}

// VerifyAccess checks an access token end to end: the deny-list first, then
// signature and expiry.  It returns ErrUnauthenticated for the "undefined"
// sentinel, denied, tampered or subject-less tokens, and ErrTokenExpired
// when only the expiry has elapsed.  Cache connectivity failures propagate
// as-is; they must never look like an auth failure.
func (e *Engine) VerifyAccess(ctx context.Context, raw string) (Claims, error) {
    if raw == noToken {
        return Claims{}, ErrUnauthenticated
    }
    denied, err := e.store.IsDenied(ctx, raw)
    if err != nil {
        return Claims{}, err
    }
    if denied {
        return Claims{}, ErrUnauthenticated
    }

    claims, err := e.parse(raw, e.accessSecret)
    if errors.Is(err, jwt.ErrTokenExpired) {
        return Claims{}, ErrTokenExpired
    }
    if err != nil {
        return Claims{}, ErrUnauthenticated
    }
    sub, err := claims.GetSubject()
    if err != nil || sub == "" {
        return Claims{}, ErrUnauthenticated
    }
    exp, err := claims.GetExpirationTime()
    if err != nil || exp == nil {
        return Claims{}, ErrUnauthenticated
    }
    return Claims{Subject: sub, ExpiresAt: exp.Time}, nil
}

// Rotate redeems a refresh token for a new pair.  The token must carry a
// valid signature AND still be present in the cache; the check-and-delete
// is a single GETDEL, so a token can be redeemed at most once no matter how
// many rotations race.  Every failure mode collapses into ErrMustRelogin.
func (e *Engine) Rotate(ctx context.Context, raw string) (Pair, error) {
    if _, err := e.parse(raw, e.refreshSecret); err != nil {
        return Pair{}, ErrMustRelogin
    }
    userID, ok, err := e.store.ConsumeRefresh(ctx, raw)
    if err != nil {
        return Pair{}, err
    }
    if !ok {
        return Pair{}, ErrMustRelogin
    }
    return e.Issue(ctx, userID)
}

// RevokeAccess implements logout for a single access token.  The token is
// written to the deny-list with a TTL equal to its remaining lifetime; once
// there, VerifyAccess rejects it even though signature and expiry still
// check out.  An already-expired token needs no deny-list entry.
func (e *Engine) RevokeAccess(ctx context.Context, raw string) error {
    sub, remaining, err := e.Decode(raw, e.accessSecret)
    if err != nil {
        return err
    }
    if remaining <= 0 {
        return nil
    }
    return e.store.DenyAccess(ctx, raw, sub, remaining)
}

// RevokeRefresh invalidates a refresh token without redeeming it, e.g. when
// a user logs out of all sessions.
func (e *Engine) RevokeRefresh(ctx context.Context, raw string) error {
    return e.store.RevokeRefresh(ctx, raw)
}

// Decode verifies the signature of a token against the given secret and
// returns its subject plus the remaining lifetime.  The remaining duration
// may be negative; the caller decides what that means.  Any signature or
// format failure yields ErrCredentials.
func (e *Engine) Decode(raw string, secret []byte) (string, time.Duration, error) {
    tok, err := e.decoder.Parse(raw, keyFunc(secret))
    if err != nil || !tok.Valid {
        return "", 0, ErrCredentials
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return "", 0, ErrCredentials
    }
    sub, err := claims.GetSubject()
    if err != nil || sub == "" {
        return "", 0, ErrCredentials
    }
    exp, err := claims.GetExpirationTime()
    if err != nil || exp == nil {
        return "", 0, ErrCredentials
    }
    return sub, exp.Time.Sub(e.now()), nil
}

// AccessSecret exposes the access signing key for the Decode helper.
func (e *Engine) AccessSecret() []byte { return e.accessSecret }

// sign builds and signs an HS256 JWT with the claim set {sub, exp, iat, jti}.
// The jti makes every token unique even when two are minted within the same
// second; without it a rotation could reissue a byte-identical refresh token
// and defeat the single-use guarantee.
func (e *Engine) sign(userID string, exp time.Time, secret []byte) (string, error) {
    claims := jwt.MapClaims{
        "sub": userID,
        "exp": exp.Unix(),
        "iat": e.now().UTC().Unix(),
        "jti": uuid.NewString(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    return t.SignedString(secret)
}

// parse runs full validation (signature, expiry) with the given secret.
func (e *Engine) parse(raw string, secret []byte) (jwt.MapClaims, error) {
    tok, err := e.verifier.Parse(raw, keyFunc(secret))
    if err != nil {
        return nil, err
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok || !tok.Valid {
        return nil, ErrUnauthenticated
    }
    return claims, nil
}

// keyFunc returns the secret for HMAC-signed tokens and rejects any other
// signing method.
func keyFunc(secret []byte) jwt.Keyfunc {
    return func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrUnauthenticated
        }
        return secret, nil
    }
}

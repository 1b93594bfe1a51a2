package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations and costs.
//
// Two independent signing secrets are required: one for access tokens and
// one for refresh tokens.  Possessing one secret must not allow forging
// tokens of the other kind, so the two must never share a value.
type Config struct {
    Env              string // application environment (e.g. "dev", "prod")
    Port             string // HTTP port to listen on
    DBUser           string // database username
    DBPass           string // database password (optional)
    DBHost           string // database host address
    DBPort           string // database port number
    DBName           string // database name
    SecretKeyAccess  string // secret used to sign access tokens
    SecretKeyRefresh string // secret used to sign refresh tokens
    AccessTTLMin     int    // access token time‑to‑live in minutes
    RefreshTTLMin    int    // refresh token time‑to‑live in minutes
    BcryptCost       int    // bcrypt cost for password hashing
    AdminEmail       string // bootstrap admin email (empty disables seeding)
    AdminPassword    string // bootstrap admin password
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Token TTLs fall back
// to the service defaults (15 minutes access, 7 days refresh) when unset.
func Load() Config {
    return Config{
        Env:              must("APP_ENV"),            // environment (dev/test/prod)
        Port:             must("APP_PORT"),           // port to bind the HTTP server
        DBUser:           must("DB_USER"),            // database user
        DBPass:           os.Getenv("DB_PASS"),       // database password (empty allowed)
        DBHost:           must("DB_HOST"),            // database host
        DBPort:           must("DB_PORT"),            // database port
        DBName:           must("DB_NAME"),            // database name
        SecretKeyAccess:  must("SECRET_KEY_ACCESS"),  // access token signing secret
        SecretKeyRefresh: must("SECRET_KEY_REFRESH"), // refresh token signing secret
        AccessTTLMin:     intOr("ACCESS_TOKEN_TTL_MIN", 15),       // TTL for access tokens in minutes
        RefreshTTLMin:    intOr("REFRESH_TOKEN_TTL_MIN", 7*24*60), // TTL for refresh tokens in minutes
        BcryptCost:       mustInt("BCRYPT_COST"),     // bcrypt cost factor
        AdminEmail:       os.Getenv("ADMIN_EMAIL"),    // seed admin account email
        AdminPassword:    os.Getenv("ADMIN_PASSWORD"), // seed admin account password
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

// intOr reads an optional integer variable, returning def when the variable
// is unset.  A set-but-malformed value is still fatal so that a typo does
// not silently change token lifetimes.
func intOr(key string, def int) int {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, v)
    }
    return n
}

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const key = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil, map[string]string{"TK_JWT_KEY": key})
	require.NoError(t, err)
	require.Equal(t, ":8443", cfg.Addr)
	require.Equal(t, "postgres", cfg.DBDriver)
	require.Equal(t, time.Hour, cfg.AccessTTL)
	require.Equal(t, 12, cfg.BcryptCost)
	require.Equal(t, 100, cfg.MaxPageSize)
	require.Equal(t, "task-keeper", cfg.JWTIssuer)
	require.False(t, cfg.TLS())
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	environ := map[string]string{
		"TK_JWT_KEY":       key,
		"TK_DB_DRIVER":     "sqlite",
		"TK_DSN":           "env.db",
		"TK_MAX_PAGE_SIZE": "25",
		"TK_ACCESS_TTL":    "30m",
	}
	cfg, err := Load([]string{"-dsn", "flag.db", "-log-level", "debug"}, environ)
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.DBDriver)
	require.Equal(t, "flag.db", cfg.DSN)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 25, cfg.MaxPageSize)
	require.Equal(t, 30*time.Minute, cfg.AccessTTL)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]struct {
		args    []string
		environ map[string]string
		field   string
	}{
		"missing key":  {nil, map[string]string{}, "JWTKey"},
		"short key":    {[]string{"-jwt-key", "short"}, map[string]string{}, "JWTKey"},
		"bad driver":   {[]string{"-db-driver", "mysql"}, map[string]string{"TK_JWT_KEY": key}, "DBDriver"},
		"low cost":     {[]string{"-bcrypt-cost", "4"}, map[string]string{"TK_JWT_KEY": key}, "BcryptCost"},
		"cert no key":  {[]string{"-tls-cert", "c.pem"}, map[string]string{"TK_JWT_KEY": key}, "TLSKey"},
		"bad level":    {[]string{"-log-level", "loud"}, map[string]string{"TK_JWT_KEY": key}, "LogLevel"},
		"bad endpoint": {[]string{"-otlp-endpoint", "not a url"}, map[string]string{"TK_JWT_KEY": key}, "OTLPEndpoint"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(tc.args, tc.environ)
			require.Error(t, err)
			require.True(t, strings.Contains(err.Error(), tc.field), err.Error())
		})
	}

	_, err := Load(nil, map[string]string{"TK_JWT_KEY": key, "TK_ACCESS_TTL": "soon"})
	require.Error(t, err)
	_, err = Load([]string{"-no-such-flag"}, map[string]string{"TK_JWT_KEY": key})
	require.Error(t, err)
}

func TestLoad_TLSPair(t *testing.T) {
	cfg, err := Load([]string{"-tls-cert", "c.pem", "-tls-key", "k.pem"}, map[string]string{"TK_JWT_KEY": key})
	require.NoError(t, err)
	require.True(t, cfg.TLS())
}

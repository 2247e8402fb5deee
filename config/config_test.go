package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-witness-sdk/locator"
)

func TestDefaults(t *testing.T) {
	for _, name := range []string{
		EnvIssuerDID, EnvIssuerKeyName, EnvLookupTimeout, EnvMaxElapsedMinutes,
		EnvDelimiter, EnvUserAgent, EnvLogLevel, EnvServiceKey,
	} {
		t.Setenv(name, "")
	}

	assert.Equal(t, DefaultIssuerDID, IssuerDID())
	assert.Equal(t, DefaultIssuerKeyName, IssuerKeyName())
	assert.Equal(t, DefaultLookupTimeout, LookupTimeout())
	assert.Equal(t, int64(DefaultMaxElapsedMinutes), MaxElapsedMinutes())
	assert.Equal(t, DefaultDelimiter, Delimiter())
	assert.Equal(t, DefaultUserAgent, UserAgent())
	assert.Equal(t, DefaultLogLevel, LogLevel())
	assert.Empty(t, ServiceKey())
}

func TestLookupTimeout(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"3s", 3 * time.Second},
		{"250ms", 250 * time.Millisecond},
		{"7", 7 * time.Second},
		{"soon", DefaultLookupTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv(EnvLookupTimeout, tt.value)
			assert.Equal(t, tt.want, LookupTimeout())
		})
	}
}

func TestParsedValues(t *testing.T) {
	t.Setenv(EnvMaxElapsedMinutes, "-4")
	assert.Equal(t, int64(DefaultMaxElapsedMinutes), MaxElapsedMinutes())
	t.Setenv(EnvMaxElapsedMinutes, "30")
	assert.Equal(t, int64(30), MaxElapsedMinutes())

	t.Setenv(EnvDelimiter, `\n---\n`)
	assert.Equal(t, "\n---\n", Delimiter())
	t.Setenv(EnvDelimiter, ":::")
	assert.Equal(t, ":::", Delimiter())

	t.Setenv(EnvLogLevel, "debug")
	assert.Equal(t, slog.LevelDebug, LogLevel())
	t.Setenv(EnvLogLevel, "WARN")
	assert.Equal(t, slog.LevelWarn, LogLevel())
	t.Setenv(EnvLogLevel, "loud")
	assert.Equal(t, DefaultLogLevel, LogLevel())
}

func TestIssuer(t *testing.T) {
	t.Setenv(EnvIssuerDID, "did:web:witness.example.com")
	t.Setenv(EnvIssuerKeyName, "")
	t.Setenv(EnvIssuerSeed, "")
	_, err := Issuer()
	assert.Error(t, err)

	t.Setenv(EnvIssuerSeed, "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60")
	iss, err := Issuer()
	require.NoError(t, err)
	assert.Equal(t, "did:web:witness.example.com", iss.DID())
	assert.Equal(t, "did:web:witness.example.com#controller", iss.VerificationMethod())
}

func TestFlows(t *testing.T) {
	for _, name := range []string{
		EnvServiceKey, EnvTwitterAPIKey, EnvAlchemyAPIKey, EnvPOAPAPIKey,
		EnvSoundCloudID, EnvSendGridAPIKey, EnvEmailFromAddr, EnvDelimiter, EnvMaxElapsedMinutes,
	} {
		t.Setenv(name, "")
	}

	cfg := Flows()
	assert.NotNil(t, cfg.Attestation)
	assert.NotNil(t, cfg.DNS)
	assert.NotNil(t, cfg.SameController)
	require.NotNil(t, cfg.GitHub)
	assert.Equal(t, DefaultDelimiter, cfg.GitHub.Delimiter)
	assert.Nil(t, cfg.DelegatedAttestation)
	assert.Nil(t, cfg.Twitter)
	assert.Nil(t, cfg.NFTOwnership)
	assert.Nil(t, cfg.POAPOwnership)
	assert.Nil(t, cfg.SoundCloud)
	assert.Nil(t, cfg.Email)

	t.Setenv(EnvServiceKey, "witness-service")
	t.Setenv(EnvTwitterAPIKey, "bearer")
	t.Setenv(EnvAlchemyAPIKey, "alchemy")
	t.Setenv(EnvPOAPAPIKey, "poap")
	t.Setenv(EnvSoundCloudID, "client")
	t.Setenv(EnvSendGridAPIKey, "sendgrid")
	t.Setenv(EnvEmailFromAddr, "witness@example.com")
	t.Setenv(EnvMaxElapsedMinutes, "20")

	cfg = Flows()
	require.NotNil(t, cfg.DelegatedAttestation)
	assert.Equal(t, "witness-service", cfg.DelegatedAttestation.ServiceKey)
	require.NotNil(t, cfg.Twitter)
	assert.Equal(t, "bearer", cfg.Twitter.APIKey)
	require.NotNil(t, cfg.NFTOwnership)
	assert.Equal(t, int64(20), cfg.NFTOwnership.MaxElapsedMinutes)
	require.NotNil(t, cfg.POAPOwnership)
	require.NotNil(t, cfg.SoundCloud)
	assert.NoError(t, locator.ValidateSoundCloudWindow(cfg.SoundCloud.Limit, cfg.SoundCloud.MaxOffset))
	require.NotNil(t, cfg.Email)
	assert.Equal(t, "witness@example.com", cfg.Email.FromAddr)
}

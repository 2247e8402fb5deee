// Package config reads witness settings from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pilacorp/go-witness-sdk/flow"
	"github.com/pilacorp/go-witness-sdk/issuer"
	"github.com/pilacorp/go-witness-sdk/witness"
)

// Default values
const (
	DefaultIssuerDID         = "did:web:localhost"
	DefaultIssuerKeyName     = "controller"
	DefaultLookupTimeout     = 10 * time.Second
	DefaultMaxElapsedMinutes = 15
	DefaultDelimiter         = "\n\n"
	DefaultUserAgent         = "go-witness-sdk"
	DefaultSoundCloudLimit   = 100
	DefaultSoundCloudOffset  = 9900
	DefaultLogLevel          = slog.LevelInfo
)

// Environment variable names
const (
	EnvIssuerDID         = "WITNESS_ISSUER_DID"
	EnvIssuerKeyName     = "WITNESS_ISSUER_KEY_NAME"
	EnvIssuerSeed        = "WITNESS_ISSUER_SEED"
	EnvServiceKey        = "WITNESS_SERVICE_KEY"
	EnvLookupTimeout     = "WITNESS_LOOKUP_TIMEOUT"
	EnvMaxElapsedMinutes = "WITNESS_MAX_ELAPSED_MINUTES"
	EnvDelimiter         = "WITNESS_DELIMITER"
	EnvUserAgent         = "WITNESS_USER_AGENT"
	EnvTwitterAPIKey     = "WITNESS_TWITTER_API_KEY"
	EnvAlchemyAPIKey     = "WITNESS_ALCHEMY_API_KEY"
	EnvPOAPAPIKey        = "WITNESS_POAP_API_KEY"
	EnvSoundCloudID      = "WITNESS_SOUNDCLOUD_CLIENT_ID"
	EnvSendGridAPIKey    = "WITNESS_SENDGRID_API_KEY"
	EnvEmailFromAddr     = "WITNESS_EMAIL_FROM_ADDR"
	EnvEmailFromName     = "WITNESS_EMAIL_FROM_NAME"
	EnvEmailSubjectName  = "WITNESS_EMAIL_SUBJECT_NAME"
	EnvLogLevel          = "WITNESS_LOG_LEVEL"
)

func getenv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// IssuerDID returns the issuer DID from environment variable or default value
func IssuerDID() string {
	return getenv(EnvIssuerDID, DefaultIssuerDID)
}

// IssuerKeyName returns the fragment of the issuer verification method
func IssuerKeyName() string {
	return getenv(EnvIssuerKeyName, DefaultIssuerKeyName)
}

// IssuerSeed returns the hex Ed25519 seed of the issuer. There is no default.
func IssuerSeed() string {
	return os.Getenv(EnvIssuerSeed)
}

// ServiceKey returns the key delegations must grant to this witness
func ServiceKey() string {
	return os.Getenv(EnvServiceKey)
}

// LookupTimeout returns the per request timeout, given as a Go duration or
// as whole seconds
func LookupTimeout() time.Duration {
	if v := os.Getenv(EnvLookupTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return DefaultLookupTimeout
}

// MaxElapsedMinutes returns how long issued challenges stay valid
func MaxElapsedMinutes() int64 {
	if v := os.Getenv(EnvMaxElapsedMinutes); v != "" {
		if minutes, err := strconv.ParseInt(v, 10, 64); err == nil && minutes > 0 {
			return minutes
		}
	}
	return DefaultMaxElapsedMinutes
}

// Delimiter returns the text placed between a statement and its signature.
// Escaped newlines such as "\n\n" are unescaped.
func Delimiter() string {
	v := os.Getenv(EnvDelimiter)
	if v == "" {
		return DefaultDelimiter
	}
	if unquoted, err := strconv.Unquote(`"` + v + `"`); err == nil {
		return unquoted
	}
	return v
}

// UserAgent returns the User-Agent sent to GitHub and Reddit
func UserAgent() string {
	return getenv(EnvUserAgent, DefaultUserAgent)
}

// TwitterAPIKey returns the Twitter API bearer token
func TwitterAPIKey() string {
	return os.Getenv(EnvTwitterAPIKey)
}

// AlchemyAPIKey returns the Alchemy API key
func AlchemyAPIKey() string {
	return os.Getenv(EnvAlchemyAPIKey)
}

// POAPAPIKey returns the POAP API key
func POAPAPIKey() string {
	return os.Getenv(EnvPOAPAPIKey)
}

// SoundCloudClientID returns the SoundCloud client id
func SoundCloudClientID() string {
	return os.Getenv(EnvSoundCloudID)
}

// SendGridAPIKey returns the SendGrid API key
func SendGridAPIKey() string {
	return os.Getenv(EnvSendGridAPIKey)
}

// EmailFromAddr returns the sender address of challenge emails
func EmailFromAddr() string {
	return os.Getenv(EnvEmailFromAddr)
}

// EmailFromName returns the sender name of challenge emails
func EmailFromName() string {
	return getenv(EnvEmailFromName, EmailSubjectName())
}

// EmailSubjectName returns the witness name shown in challenge email subjects
func EmailSubjectName() string {
	return getenv(EnvEmailSubjectName, "Witness")
}

// LogLevel returns the log level: debug, info, warn or error
func LogLevel() slog.Level {
	var level slog.Level
	if v := os.Getenv(EnvLogLevel); v != "" {
		if err := level.UnmarshalText([]byte(strings.TrimSpace(v))); err == nil {
			return level
		}
	}
	return DefaultLogLevel
}

// Issuer builds the Ed25519 issuer from IssuerDID, IssuerKeyName and IssuerSeed
func Issuer() (*issuer.Ed25519, error) {
	return issuer.NewEd25519FromSeed(IssuerDID(), IssuerKeyName(), IssuerSeed())
}

// Flows returns a witness configuration with every flow whose credentials
// are present in the environment. Attestation, DNS, GitHub, Reddit and same
// controller assertions need none.
func Flows() witness.Config {
	delimiter := Delimiter()
	maxElapsed := MaxElapsedMinutes()

	cfg := witness.Config{
		Attestation:    &flow.Attestation{},
		DNS:            &flow.DNS{},
		GitHub:         &flow.GitHub{UserAgent: UserAgent(), Delimiter: delimiter},
		Reddit:         &flow.Reddit{UserAgent: UserAgent()},
		SameController: &flow.SameController{},
	}
	if key := ServiceKey(); key != "" {
		cfg.DelegatedAttestation = &flow.DelegatedAttestation{ServiceKey: key}
	}
	if key := TwitterAPIKey(); key != "" {
		cfg.Twitter = &flow.Twitter{APIKey: key, Delimiter: delimiter}
	}
	if key := AlchemyAPIKey(); key != "" {
		cfg.NFTOwnership = &flow.NFTOwnership{APIKey: key, ChallengeDelimiter: delimiter, MaxElapsedMinutes: maxElapsed}
	}
	if key := POAPAPIKey(); key != "" {
		cfg.POAPOwnership = &flow.POAPOwnership{APIKey: key, ChallengeDelimiter: delimiter, MaxElapsedMinutes: maxElapsed}
	}
	if id := SoundCloudClientID(); id != "" {
		cfg.SoundCloud = &flow.SoundCloud{ClientID: id, Limit: DefaultSoundCloudLimit, MaxOffset: DefaultSoundCloudOffset}
	}
	if key, from := SendGridAPIKey(), EmailFromAddr(); key != "" && from != "" {
		cfg.Email = &flow.Email{
			APIKey:             key,
			ChallengeDelimiter: delimiter,
			FromAddr:           from,
			FromName:           EmailFromName(),
			MaxElapsedMinutes:  maxElapsed,
			SubjectName:        EmailSubjectName(),
		}
	}
	return cfg
}

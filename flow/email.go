package flow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pilacorp/go-witness-sdk/content"
	"github.com/pilacorp/go-witness-sdk/issuer"
	"github.com/pilacorp/go-witness-sdk/locator"
	"github.com/pilacorp/go-witness-sdk/proof"
	"github.com/pilacorp/go-witness-sdk/statement"
)

var _ Flow[*statement.EmailVerification, *proof.EmailVerification, *content.EmailVerification] = (*Email)(nil)

// Email witnesses an address by mailing it a challenge signed by the
// witness. The challenge embeds its own timestamp, so no state is kept
// between the statement and the proof.
type Email struct {
	APIKey             string `json:"api_key"`
	ChallengeDelimiter string `json:"challenge_delimiter"`
	FromAddr           string `json:"from_addr"`
	FromName           string `json:"from_name"`
	MaxElapsedMinutes  int64  `json:"max_elapsed_minutes"`
	SubjectName        string `json:"subject_name"`

	// Mailer sends the challenge. Nil uses SendGrid with APIKey.
	Mailer locator.Mailer `json:"-"`
	Now    Clock          `json:"-"`
}

func (f *Email) mailer() locator.Mailer {
	if f.Mailer == nil {
		return locator.NewSendGrid(f.APIKey)
	}
	return f.Mailer
}

func (f *Email) check() error {
	if f.MaxElapsedMinutes <= 0 {
		return validation("max elapsed minutes must be greater than 0", nil)
	}
	if f.ChallengeDelimiter == "" {
		return validation("missing challenge delimiter", nil)
	}
	return nil
}

// Statement mails the signed challenge to s.Email and returns the statement
// the subject must sign.
func (f *Email) Statement(ctx context.Context, s *statement.EmailVerification, iss issuer.Issuer) (*StatementResponse, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	stmt, err := generate(s)
	if err != nil {
		return nil, err
	}

	ts := content.Timestamp(f.Now.now())
	challenge, err := iss.Sign(ctx, stmt+f.ChallengeDelimiter+ts)
	if err != nil {
		return nil, validation("failed to sign challenge", err)
	}

	err = f.mailer().Send(ctx, locator.Mail{
		To:       s.Email,
		Subject:  fmt.Sprintf("Verifying ownership of %s %s for %s", s.Subject.StatementTitle(), s.Subject.DisplayID(), f.SubjectName),
		Body:     "Please paste the following into the challenge input on the witness page used to generate this email:\n\n" + challenge + f.ChallengeDelimiter + ts,
		From:     f.FromAddr,
		FromName: f.FromName,
	})
	if err != nil {
		return nil, lookupFailed("failed to send challenge email", err)
	}

	return &StatementResponse{Statement: stmt}, nil
}

func (f *Email) ValidateProof(ctx context.Context, p *proof.EmailVerification, iss issuer.Issuer) (*content.EmailVerification, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	stmt, err := generate(p)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(strings.TrimSpace(p.Challenge), f.ChallengeDelimiter)
	if len(parts) != 2 {
		return nil, validation("challenge is not signature and timestamp", nil)
	}
	sig, ts := parts[0], parts[1]

	issuedAt, err := statement.ParseIssuedAt(ts)
	if err != nil {
		return nil, validation("malformed challenge timestamp", err)
	}
	now := f.Now.now()
	if now.Sub(issuedAt) > time.Duration(f.MaxElapsedMinutes)*time.Minute {
		return nil, validation("challenge has expired", nil)
	}

	if err := iss.ValidSignature(ctx, stmt+f.ChallengeDelimiter+ts, sig); err != nil {
		return nil, validation("challenge was not issued by this witness", err)
	}
	if err := checkSignature(ctx, p.Statement.Subject, stmt, p.Signature); err != nil {
		return nil, err
	}

	return toContent[*content.EmailVerification](p, stmt, p.Signature, now)
}

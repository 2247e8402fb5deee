package flow

import (
	"context"

	"github.com/pilacorp/go-witness-sdk/content"
	"github.com/pilacorp/go-witness-sdk/issuer"
	"github.com/pilacorp/go-witness-sdk/proof"
	"github.com/pilacorp/go-witness-sdk/statement"
)

var _ Flow[*statement.SameControllerAssertion, *proof.SameControllerAssertion, *content.SameControllerAssertion] = (*SameController)(nil)

// SameController witnesses that two subjects signed the same linking statement.
type SameController struct {
	Now Clock `json:"-"`
}

func (f *SameController) Statement(_ context.Context, s *statement.SameControllerAssertion, _ issuer.Issuer) (*StatementResponse, error) {
	stmt, err := generate(s)
	if err != nil {
		return nil, err
	}
	return &StatementResponse{Statement: stmt}, nil
}

func (f *SameController) ValidateProof(ctx context.Context, p *proof.SameControllerAssertion, _ issuer.Issuer) (*content.SameControllerAssertion, error) {
	stmt, err := generate(p)
	if err != nil {
		return nil, err
	}
	if err := checkSignature(ctx, p.Statement.ID1, stmt, p.Signature1); err != nil {
		return nil, err
	}
	if err := checkSignature(ctx, p.Statement.ID2, stmt, p.Signature2); err != nil {
		return nil, err
	}
	return toContent[*content.SameControllerAssertion](p, stmt, "", f.Now.now())
}

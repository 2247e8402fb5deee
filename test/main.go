package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pilacorp/go-witness-sdk/config"
	"github.com/pilacorp/go-witness-sdk/credential/common/crypto"
	"github.com/pilacorp/go-witness-sdk/credential/vc"
	"github.com/pilacorp/go-witness-sdk/issuer"
	"github.com/pilacorp/go-witness-sdk/proof"
	"github.com/pilacorp/go-witness-sdk/statement"
	"github.com/pilacorp/go-witness-sdk/subject"
	"github.com/pilacorp/go-witness-sdk/witness"
)

// Example: run a witness end to end with local keys only.

const (
	testIssuerSeed     = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"
	testIssuerDID      = "did:web:witness.example.com"
	testSubjectKey     = "5a369512f8f8a0e6973abd6241ce38103c232966c6153bf8377ac85582812aa4"
	testSubjectKey2    = "4ccd089b28ff96da9db6c346ec114e0f5b8a319f35aba624da8cf6ed4fb8a6fb"
	testSubjectChain   = "1"
	testRequestTimeout = 10 * time.Second
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: config.LogLevel()}))

	iss, err := issuer.NewEd25519FromSeed(testIssuerDID, config.IssuerKeyName(), testIssuerSeed)
	if err != nil {
		log.Fatalf("Failed to create issuer: %v", err)
	}

	w, err := witness.New(config.Flows(), iss,
		witness.WithLogger(logger),
		witness.WithRegisterer(prometheus.NewRegistry()),
		witness.WithLookupTimeout(testRequestTimeout),
	)
	if err != nil {
		log.Fatalf("Failed to create witness: %v", err)
	}
	fmt.Println("=== Example: Witness flows", w.Flows(), "===")

	// Example 1: DID document to host at /.well-known/did.json
	fmt.Println("\n-- Example 1: Issuer DID document --")
	printJSON(iss.Document())

	// Example 2: Self-issued post attestation as a JWT
	fmt.Println("\n-- Example 2: BasicPostAttestation JWT --")
	attestationExample(ctx, w, iss)

	// Example 3: Two keys held by the same controller
	fmt.Println("\n-- Example 3: SameControllerAssertion credential --")
	sameControllerExample(ctx, w, iss)
}

func ethSubject(hexKey string) subject.Subjects {
	addr, err := crypto.AddressFromPrivateKey(hexKey)
	if err != nil {
		log.Fatalf("Failed to derive address: %v", err)
	}
	s, err := subject.NewEip155(addr, testSubjectChain)
	if err != nil {
		log.Fatalf("Failed to create subject: %v", err)
	}
	return subject.Subjects{Eip155: s}
}

func sign(stmt, hexKey string) string {
	sig, err := crypto.SignEIP191(stmt, hexKey)
	if err != nil {
		log.Fatalf("Failed to sign statement: %v", err)
	}
	return sig
}

func attestationExample(ctx context.Context, w *witness.Witness, iss *issuer.Ed25519) {
	post := statement.AttestationStatement{Attestation: &statement.BasicPostAttestationStatement{
		Subject: ethSubject(testSubjectKey),
		Title:   "Hello",
		Body:    "First post witnessed by the example",
	}}

	req, err := witness.NewStatementRequest(witness.AttestationTag, post)
	if err != nil {
		log.Fatalf("Failed to build statement request: %v", err)
	}
	res, err := w.Statement(ctx, req)
	if err != nil {
		log.Fatalf("Failed to generate statement: %v", err)
	}
	fmt.Printf("Statement:\n%s\n", res.Statement)

	proofReq, err := witness.NewWitnessRequest(witness.AttestationTag, proof.Attestation{
		Statement: post,
		Signature: sign(res.Statement, testSubjectKey),
	})
	if err != nil {
		log.Fatalf("Failed to build witness request: %v", err)
	}
	token, err := w.JWT(ctx, proofReq)
	if err != nil {
		log.Fatalf("Failed to witness attestation: %v", err)
	}
	fmt.Println("JWT:", token)

	decoded, err := vc.VerifyJWT(ctx, token, iss)
	if err != nil {
		log.Fatalf("Failed to verify JWT: %v", err)
	}
	printJSON(decoded)
}

func sameControllerExample(ctx context.Context, w *witness.Witness, iss *issuer.Ed25519) {
	assertion := statement.SameControllerAssertion{
		ID1: ethSubject(testSubjectKey),
		ID2: ethSubject(testSubjectKey2),
	}
	stmt, err := assertion.GenerateStatement()
	if err != nil {
		log.Fatalf("Failed to generate statement: %v", err)
	}

	req, err := witness.NewWitnessRequest(witness.SameControllerTag, proof.SameControllerAssertion{
		Statement:  assertion,
		Signature1: sign(stmt, testSubjectKey),
		Signature2: sign(stmt, testSubjectKey2),
	})
	if err != nil {
		log.Fatalf("Failed to build witness request: %v", err)
	}
	cred, err := w.Credential(ctx, req)
	if err != nil {
		log.Fatalf("Failed to witness assertion: %v", err)
	}
	if err := vc.Verify(ctx, cred, iss); err != nil {
		log.Fatalf("Failed to verify credential: %v", err)
	}
	printJSON(cred)
}

func printJSON(v interface{}) {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal: %v", err)
	}
	fmt.Println(string(pretty))
}

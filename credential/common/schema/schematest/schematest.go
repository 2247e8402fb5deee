// Package schematest provides an offline JSON-LD document loader for tests.
package schematest

import (
	"github.com/pilacorp/go-witness-sdk/credential/common/schema"
)

// Stand-ins for contexts that are fetched in production. They only map
// terms into a vocabulary, so canonical output differs from the published
// documents.
const (
	RebaseV1  = `{"@context": {"@vocab": "https://spec.rebase.xyz/vocab#"}}`
	SchemaOrg = `{"@context": {"@vocab": "http://schema.org/"}}`
)

// DocumentLoader returns a loader that serves the embedded contexts plus the
// stand-ins and never reaches the network.
func DocumentLoader() *schema.DocumentLoader {
	l, err := schema.NewDocumentLoader(
		schema.WithoutRemote(),
		schema.WithContext(schema.RebaseV1Context, []byte(RebaseV1)),
		schema.WithContext(schema.SchemaOrgContext, []byte(SchemaOrg)),
	)
	if err != nil {
		panic("schematest: " + err.Error())
	}
	return l
}

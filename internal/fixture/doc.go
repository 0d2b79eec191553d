// Package fixture runs YAML document fixtures through the engine.
//
// A fixture names a document (spans, sentences, relations), an optional
// pipeline override and a list of expectations:
//
//	name: contains_chain
//	description: CONTAINS composes with CONTAINS
//	spans:
//	  - {id: A, begin: 0, end: 30, kind: EVENT}
//	  - {id: B, begin: 5, end: 20, kind: EVENT}
//	  - {id: C, begin: 8, end: 12, kind: TIME}
//	relations:
//	  - A CONTAINS B
//	  - B CONTAINS C
//	expect:
//	  - {type: relation_present, relation: A CONTAINS C, provenance: INFERRED}
//
// Each fixture is processed against a fresh in-memory run log with a fixed
// run ID, so its outcome can also be compared byte for byte against a golden
// snapshot in testdata/golden.
package fixture

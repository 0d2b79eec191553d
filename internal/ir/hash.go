package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
)

// Domain prefixes for content-addressed identity. The version suffix leaves
// room for a future encoding change.
const (
	DomainAssertion = "tlink/assertion/v1"
	DomainDocument  = "tlink/document/v1"
)

// hashWithDomain computes SHA256(domain || 0x00 || data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// AssertionID is the content address of the fact an assertion states.
// Provenance is excluded and the assertion is canonicalized first, so
// "A BEFORE B" and "B AFTER A" share an ID whether asserted or inferred.
func AssertionID(a Assertion) (string, error) {
	if err := a.Validate(); err != nil {
		return "", fmt.Errorf("AssertionID: %w", err)
	}
	c := a
	if a.Category.Known() {
		c = a.Canonical()
	}
	obj := Object{
		"arg1":     String(c.Arg1.ID),
		"arg2":     String(c.Arg2.ID),
		"category": String(c.Category),
	}
	data, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("AssertionID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainAssertion, data), nil
}

// MustAssertionID is like AssertionID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustAssertionID(a Assertion) string {
	id, err := AssertionID(a)
	if err != nil {
		panic(err)
	}
	return id
}

// DocumentDigest hashes a document's spans, sentences and relations. Span
// and relation order do not affect the digest; sentence order does.
func DocumentDigest(doc Document) (string, error) {
	spans := slices.Clone(doc.Spans)
	slices.SortFunc(spans, CompareSpans)

	rels := make([]string, 0, len(doc.Relations))
	for i, r := range doc.Relations {
		data, err := MarshalCanonical(r.Record())
		if err != nil {
			return "", fmt.Errorf("DocumentDigest: relation %d: %w", i, err)
		}
		rels = append(rels, string(data))
	}
	slices.Sort(rels)
	relArr := make(Array, len(rels))
	for i, r := range rels {
		relArr[i] = String(r)
	}

	sentences := make(Array, len(doc.Sentences))
	for i, s := range doc.Sentences {
		sentences[i] = Array{Int(s.Begin), Int(s.End)}
	}

	obj := Object{
		"id":        String(doc.ID),
		"spans":     Records(spans, SpanRef.Record),
		"sentences": sentences,
		"relations": relArr,
	}
	data, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("DocumentDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainDocument, data), nil
}

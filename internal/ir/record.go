package ir

// Record converts the span to a canonical Object.
func (s SpanRef) Record() Object {
	return Object{
		"id":    String(s.ID),
		"begin": Int(s.Begin),
		"end":   Int(s.End),
		"kind":  String(s.Kind),
	}
}

// Record converts a well-formed assertion to a canonical Object. Arguments
// are recorded by ID only; spans are recorded once at document level.
func (a Assertion) Record() Object {
	return Object{
		"arg1":       String(argIDOrEmpty(a.Arg1)),
		"arg2":       String(argIDOrEmpty(a.Arg2)),
		"category":   String(a.Category),
		"provenance": String(a.Provenance),
	}
}

// Record converts the derivation to a canonical Object.
func (d Derivation) Record() Object {
	return Object{
		"inferred": d.Inferred.Record(),
		"premises": Array{d.Premises[0].Record(), d.Premises[1].Record()},
		"pass":     Int(d.Pass),
	}
}

// Record converts the diagnostic to a canonical Object.
func (d Diagnostic) Record() Object {
	obj := Object{
		"code":    String(d.Code),
		"message": String(d.Message),
	}
	if d.Arg1 != "" {
		obj["arg1"] = String(d.Arg1)
	}
	if d.Arg2 != "" {
		obj["arg2"] = String(d.Arg2)
	}
	if d.Category != "" {
		obj["category"] = String(d.Category)
	}
	return obj
}

// Records converts a slice using fn, always returning a non-nil Array.
func Records[T any](items []T, fn func(T) Object) Array {
	arr := make(Array, 0, len(items))
	for _, it := range items {
		arr = append(arr, fn(it))
	}
	return arr
}

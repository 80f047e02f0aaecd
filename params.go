package flickrbridge

import (
	"cmp"
	"slices"
	"strings"
)

// Param is one (key, value) pair of a call. Absent params keep their slot in
// insertion order but are skipped when signing and serialising.
type Param struct {
	Key    string
	Value  string
	Absent bool
}

// ParameterSet is the ordered parameter list of the call being built.
//
// Callers append with Add until Finish seals the set. After sealing only the
// request builder appends (method, credentials and the signature).
type ParameterSet struct {
	params []Param
	sealed bool
	signed bool
}

// NewParameterSet returns an empty, unsealed set.
func NewParameterSet() *ParameterSet {
	return &ParameterSet{}
}

// Add appends a pair. It fails once the set is sealed.
func (p *ParameterSet) Add(key, value string) error {
	if p.sealed {
		return newError(KindInternal, "parameter "+key+" added after Finish", nil)
	}
	p.params = append(p.params, Param{Key: key, Value: value})
	return nil
}

// AddAbsent appends a key whose value is missing.
func (p *ParameterSet) AddAbsent(key string) error {
	if p.sealed {
		return newError(KindInternal, "parameter "+key+" added after Finish", nil)
	}
	p.params = append(p.params, Param{Key: key, Absent: true})
	return nil
}

// Finish seals the set against further caller mutation.
func (p *ParameterSet) Finish() {
	p.sealed = true
}

// Sealed reports whether Finish has been called.
func (p *ParameterSet) Sealed() bool {
	return p.sealed
}

// Len counts every param, absent ones included.
func (p *ParameterSet) Len() int {
	return len(p.params)
}

// Params returns a copy of the params in insertion order.
func (p *ParameterSet) Params() []Param {
	return slices.Clone(p.params)
}

// Get returns the first present value for key.
func (p *ParameterSet) Get(key string) (string, bool) {
	for _, prm := range p.params {
		if prm.Key == key && !prm.Absent {
			return prm.Value, true
		}
	}
	return "", false
}

// Has reports whether key is present, absent markers excluded.
func (p *ParameterSet) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// appendBuilt appends a builder-owned param regardless of the seal.
func (p *ParameterSet) appendBuilt(key, value string) {
	p.params = append(p.params, Param{Key: key, Value: value})
}

// appendSignature adds the signature param. It can happen only once per set.
func (p *ParameterSet) appendSignature(key, value string) error {
	if p.signed || p.Has(key) {
		return newError(KindInternal, "signature parameter "+key+" already present", nil)
	}
	p.appendBuilt(key, value)
	p.signed = true
	return nil
}

// Sorted returns the present params ordered by key, then by value, using
// byte-wise comparison.
func (p *ParameterSet) Sorted() []Param {
	out := make([]Param, 0, len(p.params))
	for _, prm := range p.params {
		if !prm.Absent {
			out = append(out, prm)
		}
	}
	slices.SortStableFunc(out, func(a, b Param) int {
		if c := cmp.Compare(a.Key, b.Key); c != 0 {
			return c
		}
		return cmp.Compare(a.Value, b.Value)
	})
	return out
}

// Encode serialises the present params, in insertion order, as
// key=value pairs joined by '&'. Values are escaped except for "method".
func (p *ParameterSet) Encode() string {
	var b strings.Builder
	for _, prm := range p.params {
		if prm.Absent {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(prm.Key)
		b.WriteByte('=')
		if prm.Key == "method" {
			b.WriteString(prm.Value)
		} else {
			b.WriteString(Escape(prm.Value))
		}
	}
	return b.String()
}

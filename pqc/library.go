package pqc

import (
	"fmt"
	"sort"
)

// Library holds the registered schemes and the randomness they use.
type Library struct {
	rand Randomness

	kems     map[string]KEMScheme
	kemOrder []string
	sigs     map[string]SignatureScheme
	sigOrder []string

	// nil means everything is enabled
	enabled map[string]struct{}
}

// Option configures a Library.
type Option func(*Library)

// WithKEMs registers additional KEM schemes.
func WithKEMs(schemes ...KEMScheme) Option {
	return func(l *Library) {
		for _, s := range schemes {
			l.addKEM(s)
		}
	}
}

// WithSignatures registers additional signature schemes.
func WithSignatures(schemes ...SignatureScheme) Option {
	return func(l *Library) {
		for _, s := range schemes {
			l.addSignature(s)
		}
	}
}

// WithEnabled restricts the usable algorithms to the given names.
// Without names, all registered algorithms are enabled.
func WithEnabled(names ...string) Option {
	return func(l *Library) {
		if len(names) == 0 {
			l.enabled = nil
			return
		}
		l.enabled = make(map[string]struct{}, len(names))
		for _, name := range names {
			l.enabled[name] = struct{}{}
		}
	}
}

// WithoutDefaults removes the default schemes. Use it before registering
// other schemes.
func WithoutDefaults() Option {
	return func(l *Library) {
		l.kems = make(map[string]KEMScheme)
		l.kemOrder = nil
		l.sigs = make(map[string]SignatureScheme)
		l.sigOrder = nil
	}
}

// New returns a Library drawing all randomness from rand.
func New(rand Randomness, opts ...Option) (*Library, error) {
	if rand == nil {
		return nil, ErrNoRandomness
	}

	l := &Library{
		rand: rand,
		kems: make(map[string]KEMScheme),
		sigs: make(map[string]SignatureScheme),
	}
	for _, s := range defaultKEMs() {
		l.addKEM(s)
	}
	for _, s := range defaultSignatures() {
		l.addSignature(s)
	}

	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func (l *Library) addKEM(s KEMScheme) {
	if _, ok := l.kems[s.Name()]; !ok {
		l.kemOrder = append(l.kemOrder, s.Name())
	}
	l.kems[s.Name()] = s
}

func (l *Library) addSignature(s SignatureScheme) {
	if _, ok := l.sigs[s.Name()]; !ok {
		l.sigOrder = append(l.sigOrder, s.Name())
	}
	l.sigs[s.Name()] = s
}

func (l *Library) isEnabled(name string) bool {
	if l.enabled == nil {
		return true
	}
	_, ok := l.enabled[name]
	return ok
}

// Randombytes fills b from the library's randomness provider.
func (l *Library) Randombytes(b []byte) error {
	return l.rand.Randombytes(b)
}

// KEMAlgorithms returns the names of all registered KEM algorithms in registration order.
func (l *Library) KEMAlgorithms() []string {
	return append([]string(nil), l.kemOrder...)
}

// SignatureAlgorithms returns the names of all registered signature algorithms in registration order.
func (l *Library) SignatureAlgorithms() []string {
	return append([]string(nil), l.sigOrder...)
}

// IsKEMEnabled reports whether the KEM algorithm exists and is enabled.
func (l *Library) IsKEMEnabled(name string) bool {
	_, ok := l.kems[name]
	return ok && l.isEnabled(name)
}

// IsSignatureEnabled reports whether the signature algorithm exists and is enabled.
func (l *Library) IsSignatureEnabled(name string) bool {
	_, ok := l.sigs[name]
	return ok && l.isEnabled(name)
}

// EnabledKEMs returns the enabled KEM algorithms in registration order.
func (l *Library) EnabledKEMs() []string {
	var names []string
	for _, name := range l.kemOrder {
		if l.isEnabled(name) {
			names = append(names, name)
		}
	}
	return names
}

// EnabledSignatures returns the enabled signature algorithms in registration order.
func (l *Library) EnabledSignatures() []string {
	var names []string
	for _, name := range l.sigOrder {
		if l.isEnabled(name) {
			names = append(names, name)
		}
	}
	return names
}

// UnknownAlgorithms returns the names of enabled algorithms that are not registered, sorted.
func (l *Library) UnknownAlgorithms() []string {
	var names []string
	for name := range l.enabled {
		_, kem := l.kems[name]
		_, sig := l.sigs[name]
		if !kem && !sig {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// NewKEM returns a handle for the named KEM algorithm.
func (l *Library) NewKEM(name string) (*KEM, error) {
	s, ok := l.kems[name]
	if !ok || !l.isEnabled(name) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
	}
	return &KEM{scheme: s, rand: l.rand}, nil
}

// NewSignature returns a handle for the named signature algorithm.
func (l *Library) NewSignature(name string) (*Signature, error) {
	s, ok := l.sigs[name]
	if !ok || !l.isEnabled(name) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
	}
	return &Signature{scheme: s, rand: l.rand}, nil
}

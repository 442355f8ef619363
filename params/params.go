// Package params centralizes the global constants shared by every other
// package in this module: the ring degree, the GLWE dimension, the LWE
// dimension, the two gadget-decomposition profiles, the plaintext modulus
// and the two error standard deviations.
//
// There is intentionally a single exported, immutable value, [Base],
// mirroring the way rlwe.Parameters is built once from a
// rlwe.ParametersLiteral and then passed by value to every constructor in
// the teacher corpus.
package params

import (
	"fmt"
	"math"

	"github.com/tremblaythibaultl/ttfhe/gadget"
)

// Literal is the raw, user-facing description of a parameter set. Base is
// built from the literal below it; New validates and freezes a Literal into
// a Parameters.
type Literal struct {
	// LogN is log2 of the ring degree N.
	LogN int
	// K is the GLWE dimension (number of mask polynomials per GLWE sample).
	K int
	// LweDim is the dimension n of a bare LWE ciphertext's mask.
	LweDim int
	// LogP is log2 of the plaintext modulus p.
	LogP int
	// LogSigmaLWE and LogSigmaGLWE are the standard deviations of the
	// discrete Gaussian error for LWE and GLWE encryption, expressed as
	// log2(sigma).
	LogSigmaLWE  float64
	LogSigmaGLWE float64
	// ExtProduct is the gadget-decomposition profile used by the GGSW
	// external product.
	ExtProduct gadget.Profile
	// KeySwitch is the gadget-decomposition profile used by key switching.
	KeySwitch gadget.Profile
}

// Parameters is the validated, immutable parameter set threaded through
// ring, gadget, lwe, glwe and ggsw.
type Parameters struct {
	lit Literal
}

// New validates lit and returns a frozen Parameters, or an error describing
// the first invariant violation found.
func New(lit Literal) (Parameters, error) {
	if lit.LogN <= 0 || lit.LogN > 20 {
		return Parameters{}, fmt.Errorf("params: LogN=%d out of range (0, 20]", lit.LogN)
	}
	if lit.K < 1 {
		return Parameters{}, fmt.Errorf("params: K=%d must be >= 1", lit.K)
	}
	if lit.LweDim <= 0 {
		return Parameters{}, fmt.Errorf("params: LweDim=%d must be > 0", lit.LweDim)
	}
	if lit.LogP <= 0 || lit.LogP >= 64 {
		return Parameters{}, fmt.Errorf("params: LogP=%d out of range (0, 64)", lit.LogP)
	}
	if err := lit.ExtProduct.Validate(64); err != nil {
		return Parameters{}, fmt.Errorf("params: ExtProduct: %w", err)
	}
	if err := lit.KeySwitch.Validate(64); err != nil {
		return Parameters{}, fmt.Errorf("params: KeySwitch: %w", err)
	}
	return Parameters{lit: lit}, nil
}

// N returns the ring degree 2^LogN.
func (p Parameters) N() int { return 1 << p.lit.LogN }

// LogN returns log2(N).
func (p Parameters) LogN() int { return p.lit.LogN }

// K returns the GLWE dimension.
func (p Parameters) K() int { return p.lit.K }

// LweDim returns the bare LWE dimension.
func (p Parameters) LweDim() int { return p.lit.LweDim }

// P returns the plaintext modulus.
func (p Parameters) P() uint64 { return uint64(1) << p.lit.LogP }

// LogP returns log2(P).
func (p Parameters) LogP() int { return p.lit.LogP }

// W is the ciphertext-modulus bit width. This port fixes w=64 (see
// DESIGN.md / Open Question 1); the type exists so call sites read as
// parameterized rather than hard-coding 64 inline.
func (p Parameters) W() int { return 64 }

// SigmaLWE returns the LWE error standard deviation.
func (p Parameters) SigmaLWE() float64 { return math.Pow(2, p.lit.LogSigmaLWE) }

// SigmaGLWE returns the GLWE error standard deviation.
func (p Parameters) SigmaGLWE() float64 { return math.Pow(2, p.lit.LogSigmaGLWE) }

// ExtProduct returns the gadget-decomposition profile used by the GGSW
// external product.
func (p Parameters) ExtProduct() gadget.Profile { return p.lit.ExtProduct }

// KeySwitch returns the gadget-decomposition profile used by key switching.
func (p Parameters) KeySwitch() gadget.Profile { return p.lit.KeySwitch }

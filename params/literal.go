package params

import "github.com/tremblaythibaultl/ttfhe/gadget"

// Base is the base profile from spec §6/§7: N=1024, k=1, LweDim=1024,
// p=16, with the external-product gadget at (log B=8, ell=2) and the
// key-switching gadget at (log B=4, ell=4), all under a w=64 ciphertext
// modulus.
var Base = mustNew(Literal{
	LogN:         10, // N = 1024
	K:            1,
	LweDim:       1024,
	LogP:         4, // p = 16
	LogSigmaLWE:  49,
	LogSigmaGLWE: 49,
	ExtProduct:   gadget.Profile{LogB: 8, Ell: 2},
	KeySwitch:    gadget.Profile{LogB: 4, Ell: 4},
})

// base32 is the w=32 variant named in spec §3/§6 (ell_ks=7 instead of 4).
// It is kept as a worked example per DESIGN.md's Open Question 1 and is
// not wired into any public constructor: this port fixes w=64 throughout,
// so base32's gadget profiles would need a second, 32-bit-wide ring and
// decomposition path to actually be exercised.
//
//nolint:unused
var base32 = mustNew(Literal{
	LogN:         10,
	K:            1,
	LweDim:       1024,
	LogP:         4,
	LogSigmaLWE:  17,
	LogSigmaGLWE: 17,
	ExtProduct:   gadget.Profile{LogB: 8, Ell: 2},
	KeySwitch:    gadget.Profile{LogB: 4, Ell: 7},
})

func mustNew(lit Literal) Parameters {
	p, err := New(lit)
	if err != nil {
		panic(err)
	}
	return p
}

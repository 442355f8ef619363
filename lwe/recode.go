package lwe

// SetSecretKeyEntry sets the entry at pos in sk to v. It exists for
// glwe.Ciphertext.SampleExtract, which recodes a GLWE secret key's
// polynomial coefficients into a flat LWE secret key (spec §4.4's
// "secret-key recoding") one coefficient at a time; ordinary callers
// build a SecretKey once via KeyGen and never mutate it afterward.
func SetSecretKeyEntry(sk *SecretKey, pos int, v uint64) {
	sk.s[pos] = v
}

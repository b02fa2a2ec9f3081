package ring

// ModExp return y = x^e mod q.
func ModExp(x, e, q uint64) (y uint64) {
	y = 1
	x %= q
	for i := e; i > 0; i >>= 1 {
		if i&1 == 1 {
			y = BRed(y, x, q)
		}
		x = BRed(x, x, q)
	}
	return y % q
}

// ModExpMontgomery performs the modular exponentiation x^e mod q,
// where x is in Montgomery form, and returns x^e in Montgomery form.
func ModExpMontgomery(x, e, q, mredconstant uint64) (result uint64) {

	result = MForm(1, q)

	for i := e; i > 0; i >>= 1 {
		if i&1 == 1 {
			result = MRed(result, x, q, mredconstant)
		}
		x = MRed(x, x, q, mredconstant)
	}
	return result
}

// EvalPolyModP evaluates y = sum poly[i] * x^{i} mod p.
func EvalPolyModP(x uint64, poly []uint64, p uint64) (y uint64) {
	y = poly[len(poly)-1] % p
	for i := len(poly) - 2; i >= 0; i-- {
		y = BRed(y, x, p)
		y = ModAdd(y, poly[i]%p, p)
	}
	return
}

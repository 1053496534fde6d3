// Package webtoken signs and verifies compact web tokens.
//
// The core is the Algorithm interface with two kinds of implementations:
// HMAC (HS256, HS384, HS512) built from a text or raw-byte secret, and the
// "none" algorithm, which signs with an empty signature and never verifies.
//
//	alg, err := webtoken.NewHS256("secret")
//	if err != nil {
//		return err
//	}
//	sig, err := alg.Sign(content)
//	...
//	if err := alg.Verify(content, sig); err != nil {
//		// errors.Is(err, webtoken.ErrSignatureVerification)
//	}
//
// Algorithms are immutable and safe for concurrent use, except that
// HMACAlgorithm.Destroy wipes the secret in place and must not run
// concurrently with Sign or Verify. TokenSigner and TokenVerifier build and
// check header.claims.signature tokens on top of an Algorithm, and
// SigningMethod plugs an Algorithm into golang-jwt.
//
// TokenVerifier logs every rejected token at DEBUG through
// github.com/op/go-logging under the module name "webtoken". The
// go-logging default backend prints DEBUG, so hosts should set a level for
// the module, since callers control how many tokens get rejected:
//
//	logging.SetLevel(logging.WARNING, "webtoken")
package webtoken

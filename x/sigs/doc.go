/*
Package sigs authenticates transactions by their ed25519 signatures.

Every signature covers the transaction bytes together with the chain id and
a per key nonce. A nonce is accepted once, in increasing order, which
protects against replays. Signers of a verified transaction are available
to handlers through Authenticate.
*/
package sigs

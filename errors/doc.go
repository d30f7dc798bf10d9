/*
Package errors gives every failure of the chain a stable ABCI code.

Root errors are declared once, with Register. Runtime errors wrap a root
error with context, using Wrap or ErrXyz.New, and are tested with ErrXyz.Is.
Extensions declare their own roots, see x/cash and x/tipjar.

The innermost wrap records a stack trace. Format an error with %+v to print
it, %s prints the message only.
*/
package errors

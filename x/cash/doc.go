/*
Package cash defines a simple implementation of moving value between
wallets.

Every wallet holds a single balance of the chain native asset, counted in
base units. There is no logic in the value itself, except that the balance of
any wallet may neither go below zero nor overflow. Thus, this implementation
is referred to as cash. Simple and safe.

Other extensions, like the tip jar, move value through the Controller rather
than writing balances directly.
*/
package cash

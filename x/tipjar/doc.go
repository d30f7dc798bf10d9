/*
Package tipjar implements custodial tip jars.

A jar is created once for an owner. Anybody can tip a jar, which moves value
into the jar custody wallet and increases the all time tips counter. Only the
owner can withdraw, which drains the custody wallet into a destination of the
owner's choice. The counter of all time tips is never decreased.

The custody wallet is a regular cash wallet whose address is derived from the
jar id, see JarAddress. There is no private key for it, value can leave it
only through the withdraw handler.
*/
package tipjar

/*
Package gconf keeps the on chain configuration of extensions.

Every package stores at most one configuration, under the "_c:<package>"
key. The initial value comes from the genesis "conf" section. Later changes
are messages implementing Patcher, signed by the configuration owner.
*/
package gconf

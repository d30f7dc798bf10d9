// Package utils provides decorators shared by all applications: logging,
// panic recovery, savepoints and message path tagging.
package utils

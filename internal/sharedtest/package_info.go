// Package sharedtest contains test fixtures and assertions for tracker records, used by the unit tests
// of more than one package. Component doubles are in the mocks subpackage.
//
// Nothing outside of _test.go files may import this package; helpers meant for applications that test
// their own integrations belong in testhelpers/.
package sharedtest

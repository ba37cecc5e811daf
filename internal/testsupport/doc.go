// Package testsupport builds configs, stores, and media fixtures for tests.
package testsupport

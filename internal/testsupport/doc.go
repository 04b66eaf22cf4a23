// Package testsupport provides shared fixtures for package tests: per-test
// configurations, stub transcoder scripts, and input tree builders.
package testsupport

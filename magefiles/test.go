//go:build mage

package main

import (
	"errors"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Test groups test targets.
type Test mg.Namespace

// All runs every test.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-v", "./...")
}

// Unit runs tests in short mode, skipping the slower end-to-end CLI runs.
func (Test) Unit() error {
	return sh.RunV(binGo, "test", "-short", "./...")
}

// Redis runs the redis storage tests. BAZAAR_TEST_REDIS_ADDR must point at
// a disposable redis server.
func (Test) Redis() error {
	addr := os.Getenv("BAZAAR_TEST_REDIS_ADDR")
	if addr == "" {
		return errors.New("BAZAAR_TEST_REDIS_ADDR is not set")
	}
	env := map[string]string{"BAZAAR_TEST_REDIS_ADDR": addr}
	_, err := sh.Exec(env, os.Stdout, os.Stderr, binGo, "test", "-v", "-count=1", "./internal/redisstore/...")
	return err
}

// Cover runs every test and writes a coverage profile.
func (Test) Cover() error {
	if err := sh.RunV(binGo, "test", "-coverprofile="+coverFile, "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "tool", "cover", "-func="+coverFile)
}

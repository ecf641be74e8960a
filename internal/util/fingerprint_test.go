package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintDeterminism(t *testing.T) {
	content := "contract Token {\n  uint256 supply;\n}"
	assert.Equal(t, Fingerprint(content), Fingerprint(content))
	assert.Len(t, Fingerprint(content), 64)
}

func TestFingerprintDistinguishesContent(t *testing.T) {
	a := Fingerprint("contract A {}")
	b := Fingerprint("contract A {} ")
	assert.NotEqual(t, a, b)
}

func TestLineDigest(t *testing.T) {
	assert.Equal(t, LineDigest("uint256 x = 1;"), LineDigest("uint256 x = 1;"))
	assert.NotEqual(t, LineDigest("uint256 x = 1;"), LineDigest("uint256 x = 2;"))
}

func TestFindLineRange(t *testing.T) {
	content := "line one\nline two\nneedle here\nline four"
	start, end := FindLineRange(content, "needle here")
	assert.Equal(t, 3, start)
	assert.Equal(t, 3, end)

	start, end = FindLineRange(content, "absent")
	assert.Equal(t, 1, start)
	assert.Equal(t, 1, end)
}

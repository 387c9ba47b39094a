package buildinfo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintBuildData(t *testing.T) {
	var buf bytes.Buffer
	PrintBuildData(&buf)

	assert.Contains(t, buf.String(), "Build version:")
	assert.Contains(t, buf.String(), "Build date:")
	assert.Contains(t, buf.String(), "Build commit:")
}

package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("plain", From("plain"))
	assert.Equal("line 42", From("line %d", 42))
	assert.Equal("gr3", From("gr%d", 3))
}

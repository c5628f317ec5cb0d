package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "porto-novo benin", NormalizeQuery("  Porto-Novo   Benin "))
	assert.Equal(t, "", NormalizeQuery("   "))
}

func TestValidQuery(t *testing.T) {
	assert.False(t, ValidQuery(""))
	assert.False(t, ValidQuery("lo"))
	assert.True(t, ValidQuery("lom"))
	assert.True(t, ValidQuery("été"), "counted in characters, not bytes")
	assert.False(t, ValidQuery("éé"))
}

func TestCoordinateLabel(t *testing.T) {
	assert.Equal(t, "6.3703, 2.3912", CoordinateLabel(6.37029, 2.39118))
	assert.Equal(t, "-1.5000, -0.2500", CoordinateLabel(-1.5, -0.25))
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "formation-elec", Slugify("Formation Élec"))
	assert.Equal(t, "of-securite-21", Slugify("  OF Sécurité 21! "))
	assert.Equal(t, "a-b-c", Slugify("a__b -- c"))
	assert.Equal(t, "", Slugify("***"))
}

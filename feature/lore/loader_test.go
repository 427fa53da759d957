package lore

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLoader(t *testing.T) {
	feature := NewFeature(NewService(nil, nil, nil, zap.NewNop()), "")

	assert.Equal(t, "lore", feature.Name())
	assert.True(t, feature.IsEnabled())

	app := fiber.New()
	assert.NoError(t, feature.Load(app))

	assert.False(t, NewFeature(nil, "").IsEnabled())
}

package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pharmvigilance/signalengine/internal/domain"
)

func TestFromDomain(t *testing.T) {
	// Arrange
	dc := domain.DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		Database: "synonyms",
		Username: "reader",
		Password: "secret",
		SSLMode:  "require",
		MaxConns: 20,
		MinConns: 5,
	}

	// Act
	c := FromDomain(dc)

	// Assert
	assert.Equal(t, "db.internal", c.Host)
	assert.Equal(t, 5433, c.Port)
	assert.Equal(t, "synonyms", c.Database)
	assert.Equal(t, int32(20), c.MaxConns)
	assert.Equal(t, int32(5), c.MinConns)
	assert.Equal(t, "require", c.SSLMode)
}

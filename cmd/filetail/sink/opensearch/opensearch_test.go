package opensearch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	assert.Error(t, Config{}.Validate())
	assert.Error(t, Config{URL: "http://localhost:9200"}.Validate())
	assert.Error(t, Config{Index: "logs"}.Validate())
	assert.NoError(t, Config{URL: "http://localhost:9200", Index: "logs"}.Validate())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(Config{}, "host", nil, 10, time.Second, nil, nil)
	assert.Error(t, err)
}

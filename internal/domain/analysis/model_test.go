package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQualityForFailures(t *testing.T) {
	tests := []struct {
		failed int
		want   DataQuality
	}{
		{0, QualityHigh},
		{1, QualityMedium},
		{2, QualityMedium},
		{3, QualityLow},
		{6, QualityLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, QualityForFailures(tt.failed), "failed=%d", tt.failed)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "keywords", Message: "keyword list must not be empty"}
	assert.Contains(t, err.Error(), "keywords")
	assert.Contains(t, err.Error(), "must not be empty")
}

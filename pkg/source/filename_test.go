package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractContract(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"TFL2_TAQ_T1803_201801.csv", "T1803"},
		{"/data/ticks/TFL2_TAQ_TF1806_201803.csv", "TF1806"},
		{"TAQ_rb1805_201801.csv", "RB1805"},
		{"T1803_dump.csv", "T1803"},
		{"rb_1805.csv", "RB1805"},
		{"mystery.csv", "MYSTERY"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ExtractContract(tt.path), "path %q", tt.path)
	}
}

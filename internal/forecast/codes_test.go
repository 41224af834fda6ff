package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeWeatherCode_KnownCodes(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "快晴"},
		{3, "曇り"},
		{61, "小雨"},
		{63, "雨"},
		{65, "大雨"},
		{95, "雷雨"},
		{99, "激しい雷雨と雹"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DescribeWeatherCode(tt.code), "code %d", tt.code)
	}
}

func TestDescribeWeatherCode_UnknownCodes(t *testing.T) {
	for _, code := range []int{-1, 4, 42, 100, 9999} {
		assert.Equal(t, "不明", DescribeWeatherCode(code), "code %d", code)
	}
}

// The translator is total: every input yields a non-empty label, including
// the whole known table.
func TestDescribeWeatherCode_NeverEmpty(t *testing.T) {
	for code := -5; code <= 105; code++ {
		assert.NotEmpty(t, DescribeWeatherCode(code), "code %d", code)
	}
}

package forecast

// unknownWeatherLabel is returned for any code outside the known WMO set.
const unknownWeatherLabel = "不明"

// weatherCodeLabels maps WMO weather codes to Japanese condition labels.
var weatherCodeLabels = map[int]string{
	0:  "快晴",
	1:  "晴れ",
	2:  "一部曇り",
	3:  "曇り",
	45: "霧",
	48: "霧氷",
	51: "小雨",
	53: "小雨",
	55: "小雨",
	61: "小雨",
	63: "雨",
	65: "大雨",
	66: "雨氷",
	67: "雨氷",
	71: "小雪",
	73: "雪",
	75: "大雪",
	77: "霧雪",
	80: "にわか雨",
	81: "にわか雨",
	82: "激しいにわか雨",
	85: "にわか雪",
	86: "激しいにわか雪",
	95: "雷雨",
	96: "雷雨と雹",
	99: "激しい雷雨と雹",
}

// DescribeWeatherCode translates a WMO weather code into a short Japanese
// condition label. The mapping is total: unknown codes yield a fixed
// "unknown" label, never an empty string.
func DescribeWeatherCode(code int) string {
	if label, ok := weatherCodeLabels[code]; ok {
		return label
	}
	return unknownWeatherLabel
}

package roblox

import "regexp"

// Asset reference shapes recognized in catalog fields.
var (
	rbxAssetPattern = regexp.MustCompile(`rbxassetid://(\d+)`)
	assetURLPattern = regexp.MustCompile(`roblox\.com/asset/\?id=(\d+)`)
)

// ExtractAssetID pulls a numeric asset ID out of a catalog field value.
// It recognizes rbxassetid:// URIs and roblox.com/asset/?id= URLs anywhere
// in the string. The second return value is false when the value holds no
// recognizable reference; that is an expected miss, not an error.
func ExtractAssetID(value any) (string, bool) {
	s, ok := value.(string)
	if !ok || s == "" {
		return "", false
	}

	if m := rbxAssetPattern.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	if m := assetURLPattern.FindStringSubmatch(s); m != nil {
		return m[1], true
	}

	return "", false
}

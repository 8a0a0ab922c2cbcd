package models

import "fmt"

// Asset identifies a purchasable crypto asset.
type Asset string

const (
	AssetBTC Asset = "BTC"
	AssetETH Asset = "ETH"
	AssetICP Asset = "ICP"
)

// AllAssets returns every supported asset tag.
// New assets must be added here and to every switch that dispatches on Asset.
func AllAssets() []Asset {
	return []Asset{AssetBTC, AssetETH, AssetICP}
}

// Valid reports whether the asset tag is one the engine supports.
func (a Asset) Valid() bool {
	switch a {
	case AssetBTC, AssetETH, AssetICP:
		return true
	}
	return false
}

// ParseAsset converts a string into a supported Asset.
func ParseAsset(s string) (Asset, error) {
	a := Asset(s)
	if !a.Valid() {
		return "", fmt.Errorf("unsupported asset %q", s)
	}
	return a, nil
}

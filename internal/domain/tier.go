package domain

import (
	"fmt"
	"strings"
)

// Tier is a named quality preset. Each tier maps to a fixed keyword suffix
// appended to the user prompt before it reaches the provider.
type Tier string

const (
	TierStandard Tier = "standard"
	TierHigh     Tier = "high"
	TierUltra    Tier = "ultra"
)

// TokensPerImage is the fixed cost charged for one completed image
// generation, regardless of tier.
const TokensPerImage = 10

// EditTokenCost is the cost recorded for mask-edit generations. Kept at zero
// to match the billing behavior the edit flow shipped with.
const EditTokenCost = 0

var tierSuffixes = map[Tier]string{
	TierStandard: "",
	TierHigh:     "photorealistic, 8k, highly detailed, realistic lighting, sharp focus, high quality, cinematic, masterpiece, photography, depth of field",
	TierUltra:    "award winning photography, 8k uhd, soft lighting, high quality, film grain, Fujifilm XT3, incredibly detailed, aesthetic, masterpiece, professional, trending on artstation",
}

// ParseTier maps free-form input to a known tier. Empty input selects the
// standard tier; anything outside the fixed set is rejected.
func ParseTier(raw string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(raw)))
	if t == "" {
		return TierStandard, nil
	}
	if _, ok := tierSuffixes[t]; !ok {
		return "", fmt.Errorf("unknown quality tier %q", raw)
	}
	return t, nil
}

// EnhancePrompt returns the text sent to the provider: the raw prompt for the
// standard tier, or prompt + ", " + the tier's keyword suffix otherwise.
func (t Tier) EnhancePrompt(prompt string) string {
	suffix := tierSuffixes[t]
	if suffix == "" {
		return prompt
	}
	return prompt + ", " + suffix
}

// Cost is the token charge for one generation at this tier.
func (t Tier) Cost() int {
	return TokensPerImage
}

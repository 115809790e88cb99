package adcopy

// Mock returns the static bundle served when no dataset file is present.
func Mock() Suggestions {
	return Suggestions{
		Headlines: []string{
			"Premium fashion crafted for everyday comfort shop today",
			"Stylish clothing designed for modern lifestyle explore now",
			"Elegant apparel tailored for confident look discover more",
		},
		Descriptions: []string{
			"Experience premium clothing that combines style and comfort for everyday wear",
			"Modern fashion collection designed for confident individuals",
			"Discover elegant apparel crafted for your active lifestyle",
		},
		Keywords: []string{"premium", "fashion", "clothing", "style", "comfort"},
		ImagePrompts: []string{
			"Premium stylish clothing photoshoot",
			"Modern fashion apparel lifestyle",
			"Elegant comfortable wear collection",
		},
		CTA:          "Shop Now",
		TotalMatches: 0,
		MatchLevel:   LevelMock,
	}
}

package transcript

// Policy names.
const (
	PolicyMultiLanguage = "multilang"
	PolicyProxied       = "proxied"
)

// DefaultLanguageCombinations are tried in order by the multi-language policy.
// The nil entry leaves the choice to the caption library.
var DefaultLanguageCombinations = [][]string{
	{"en"},
	{"en-US"},
	{"en", "en-US"},
	{"en", "bn", "hi"},
	nil,
}

// DefaultPreferredLanguages are tried first by proxied fetches.
var DefaultPreferredLanguages = []string{"en", "en-US"}

// Policy describes the strategy ladder: Round is run for every attempt, Final
// once after all attempts have failed.
type Policy interface {
	Name() string
	Round(attempt int) []Strategy
	Final() []Strategy
}

// MultiLanguagePolicy tries every language combination through the caption
// library, then enumerates all tracks of the video.
type MultiLanguagePolicy struct {
	Library      LanguageFetcher
	Tracks       TrackSource
	Combinations [][]string
}

func (p *MultiLanguagePolicy) Name() string { return PolicyMultiLanguage }

func (p *MultiLanguagePolicy) Round(int) []Strategy {
	combos := p.Combinations
	if combos == nil {
		combos = DefaultLanguageCombinations
	}

	strategies := make([]Strategy, 0, len(combos)+1)
	for _, langs := range combos {
		strategies = append(strategies, &LanguageStrategy{Fetcher: p.Library, Languages: langs})
	}
	if p.Tracks != nil {
		strategies = append(strategies, &TrackListStrategy{Source: p.Tracks})
	}
	return strategies
}

func (p *MultiLanguagePolicy) Final() []Strategy { return nil }

// ProxiedPolicy routes every attempt through one randomly chosen proxy and
// falls back to a direct library fetch once all attempts are exhausted.
type ProxiedPolicy struct {
	Pool      *ProxyPool
	Endpoint  CaptionEndpoint
	Tracks    TrackSource
	Library   LanguageFetcher
	Languages []string
}

func (p *ProxiedPolicy) Name() string { return PolicyProxied }

func (p *ProxiedPolicy) Round(int) []Strategy {
	langs := p.Languages
	if len(langs) == 0 {
		langs = DefaultPreferredLanguages
	}

	proxy, err := p.Pool.Pick()
	if err != nil {
		return []Strategy{failingStrategy{name: "proxied", err: err}}
	}

	return []Strategy{
		&TimedTextStrategy{Endpoint: p.Endpoint, Proxy: &proxy, Languages: langs},
		&TrackListStrategy{Source: p.Tracks, Proxy: &proxy, Prefer: langs},
	}
}

func (p *ProxiedPolicy) Final() []Strategy {
	if p.Library == nil {
		return nil
	}
	return []Strategy{&LanguageStrategy{Fetcher: p.Library}}
}

package classify

import "strings"

// Category identifies one section of the digest.
type Category string

const (
	Breaking  Category = "breaking"
	Vatican   Category = "vatican"
	America   Category = "america"
	Faith     Category = "faith"
	Culture   Category = "culture"
	World     Category = "world"
	Education Category = "education"
)

// All returns every category in canonical order.
func All() []Category {
	return []Category{Breaking, Vatican, America, Faith, Culture, World, Education}
}

const (
	breakingCap = 5
	sectionCap  = 15
)

// Cap returns the maximum number of headlines a category may hold.
func Cap(c Category) int {
	if c == Breaking {
		return breakingCap
	}
	return sectionCap
}

var (
	breakingSources = sourceSet("Vatican News", "The Pillar", "OSV News")
	americaSources  = sourceSet("National Catholic Register", "OSV News", "The Pillar")
	faithSources    = sourceSet("Catholic Daily Reflections", "Catholic Stand", "Spirit Daily")
	cultureSources  = sourceSet("LifeSiteNews", "TFP.org", "ChurchPOP")
	worldSources    = sourceSet("Crux", "Zenit", "The Catholic Herald")
)

func sourceSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// rule pairs a predicate with the category it assigns. title arrives lowered.
type rule struct {
	category Category
	match    func(title, source string, position int) bool
}

// Evaluated in order; the first match wins.
var rules = []rule{
	{Breaking, func(_, source string, position int) bool {
		return position == 0 && breakingSources[source]
	}},
	{Vatican, func(title, source string, _ int) bool {
		return strings.Contains(title, "pope") || strings.Contains(title, "vatican") || source == "Vatican News"
	}},
	{America, func(title, source string, _ int) bool {
		return americaSources[source] || strings.Contains(title, "us")
	}},
	{Faith, func(title, source string, _ int) bool {
		return faithSources[source] || strings.Contains(title, "faith")
	}},
	{Culture, func(title, source string, _ int) bool {
		return cultureSources[source] || strings.Contains(title, "life") || strings.Contains(title, "culture")
	}},
	{World, func(title, source string, _ int) bool {
		return worldSources[source] || strings.Contains(title, "world")
	}},
	{Education, func(title, source string, _ int) bool {
		return source == "Catholic Education" || strings.Contains(title, "school") || strings.Contains(title, "education")
	}},
}

// Classify assigns the category for a headline. Keyword checks are plain
// substring matches on the lowered title ("us" matches inside words, which
// keeps wire copy about the U.S. in the america section). position is the
// entry's index within its source; only a source's lead entry can break.
// Anything unmatched lands in Faith.
func Classify(title, source string, position int) Category {
	lower := strings.ToLower(title)
	for _, r := range rules {
		if r.match(lower, source, position) {
			return r.category
		}
	}
	return Faith
}
